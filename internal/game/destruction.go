package game

// DamageVehicle applies damage and drives the smoking and exploding
// transitions. Vehicles already gone or mid-explosion take nothing.
func (s *Simulation) DamageVehicle(v *Vehicle, amount float64) {
	if v == nil || !v.Active || v.Exploding || amount <= 0 {
		return
	}
	v.HP.Damage(amount)
	if !v.Smoking && v.HP.Current > 0 && v.HP.Current < s.T.Damage.SmokeThreshold {
		v.Smoking = true
		s.emit(Event{Type: EventVehicleSmoking, ID: v.ID, X: v.X, Y: v.Y})
	}
	if v.HP.Dead() {
		s.explodeVehicle(v)
	}
}

// explodeVehicle destroys v and applies splash damage around it. Returns the
// number of pedestrians the blast killed.
func (s *Simulation) explodeVehicle(v *Vehicle) int {
	v.Exploding = true
	v.Smoking = true
	x, y := v.X, v.Y

	driven := s.player.InVehicle && s.player.VehicleID == v.ID
	if driven {
		s.exitVehicle()
	}
	s.despawn(v.ID)
	s.emit(Event{Type: EventVehicleDestroyed, ID: v.ID, X: x, Y: y})
	s.log.Info().
		Uint32("id", uint32(v.ID)).
		Str("type", v.Type).
		Bool("police", v.Police).
		Bool("driven", driven).
		Msg("vehicle destroyed")

	if driven {
		s.DamagePlayer(s.T.Damage.DriverExplosionDamage)
	}

	kills := s.explosionAffectPedestrians(x, y)
	s.explosionAffectVehicles(x, y)
	return kills
}

func (s *Simulation) explosionAffectPedestrians(x, y float64) int {
	r := s.T.Damage.ExplosionRadius
	var hit []*Pedestrian
	for _, p := range s.reg.Pedestrians() {
		if p.Active && dist(x, y, p.X, p.Y) < r {
			hit = append(hit, p)
		}
	}
	for _, p := range hit {
		s.killPedestrian(p, s.T.Damage.ShotReward)
	}
	return len(hit)
}

// explosionAffectVehicles damages every vehicle in range except the one the
// player is driving. Chained explosions resolve depth first.
func (s *Simulation) explosionAffectVehicles(x, y float64) {
	dm := &s.T.Damage
	cur := s.currentVehicle()
	var hit []*Vehicle
	for _, v := range s.reg.Vehicles() {
		if !v.Active || v.Exploding || v == cur {
			continue
		}
		if dist(x, y, v.X, v.Y) < dm.ExplosionRadius {
			hit = append(hit, v)
		}
	}
	for _, v := range hit {
		s.DamageVehicle(v, dm.ExplosionVehicleDamage)
	}
}
