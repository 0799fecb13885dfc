package game

import "math"

// bodyGrid is the broad phase for dynamic bodies, rebuilt every tick. Bodies
// go in the cell holding their centre; queries widen by the caller's reach.
type bodyGrid struct {
	bounds     RectF
	cellSize   float64
	cols, rows int
	cells      [][]int
}

func newBodyGrid(bounds RectF, cellSize float64) bodyGrid {
	cols := max(1, int(math.Ceil(bounds.W()/cellSize)))
	rows := max(1, int(math.Ceil(bounds.H()/cellSize)))
	return bodyGrid{
		bounds:   bounds,
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
	}
}

func (g *bodyGrid) reset() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *bodyGrid) cell(x, y float64) (int, int) {
	gx := clamp(int(math.Floor((x-g.bounds.X0)/g.cellSize)), 0, g.cols-1)
	gy := clamp(int(math.Floor((y-g.bounds.Y0)/g.cellSize)), 0, g.rows-1)
	return gx, gy
}

func (g *bodyGrid) insert(idx int, x, y float64) {
	gx, gy := g.cell(x, y)
	g.cells[gy*g.cols+gx] = append(g.cells[gy*g.cols+gx], idx)
}

// query calls fn for every body whose centre sits in a cell within reach of
// (x,y). Returning false from fn stops the walk.
func (g *bodyGrid) query(x, y, reach float64, fn func(int) bool) {
	minGX, minGY := g.cell(x-reach, y-reach)
	maxGX, maxGY := g.cell(x+reach, y+reach)
	for gy := minGY; gy <= maxGY; gy++ {
		for gx := minGX; gx <= maxGX; gx++ {
			for _, idx := range g.cells[gy*g.cols+gx] {
				if !fn(idx) {
					return
				}
			}
		}
	}
}

// buildBroadPhase snapshots the live vehicles and pedestrians and buckets
// them. The snapshots stay valid while entities are despawned mid-pass;
// callers check Active.
func (s *Simulation) buildBroadPhase() {
	s.vehScratch = s.vehScratch[:0]
	s.vehReach = 0
	s.vehGrid.reset()
	for _, v := range s.reg.Vehicles() {
		if !v.Active {
			continue
		}
		s.vehGrid.insert(len(s.vehScratch), v.X, v.Y)
		s.vehScratch = append(s.vehScratch, v)
		s.vehReach = math.Max(s.vehReach, math.Max(v.W, v.H)/2)
	}
	s.pedScratch = s.pedScratch[:0]
	s.pedGrid.reset()
	for _, p := range s.reg.Pedestrians() {
		if !p.Active {
			continue
		}
		s.pedGrid.insert(len(s.pedScratch), p.X, p.Y)
		s.pedScratch = append(s.pedScratch, p)
	}
}

// resolveCollisions is the narrow phase, in a fixed order: queued building
// contacts, vehicle pairs, the player on foot, the player's vehicle against
// pedestrians, then projectiles.
func (s *Simulation) resolveCollisions() {
	s.buildBroadPhase()
	s.resolveBuildingHits()
	s.resolveVehiclePairs()
	if s.phase == PhasePlaying {
		if s.player.InVehicle {
			s.resolveVehiclePedestrians()
		} else {
			s.resolvePlayerOnFoot()
		}
	}
	s.resolveProjectiles()
}

func (s *Simulation) resolveBuildingHits() {
	dm := &s.T.Damage
	for _, h := range s.buildingHits {
		v := h.v
		if !v.Active {
			continue
		}
		if v.IsPlayerVehicle() {
			if h.speed > dm.CrashSpeed {
				d := math.Min(dm.CrashMaxDamage, math.Floor(h.speed/dm.CrashDivisor))
				s.DamagePlayer(d)
				s.DamageVehicle(v, d*2)
			}
			continue
		}
		// civilians and police scrape once per cooldown window
		if v.CollisionCooldown {
			continue
		}
		s.DamageVehicle(v, dm.BuildingBumpDamage)
		if v.Active {
			s.stun(v)
			s.sched.After(s.T.Driving.CollisionCooldownSeconds, s.clearCooldown(v.ID))
		}
	}
	s.buildingHits = s.buildingHits[:0]
}

func (s *Simulation) resolveVehiclePairs() {
	reach := s.vehReach * 2
	for _, v := range s.vehScratch {
		if !v.Active {
			continue
		}
		s.vehGrid.query(v.X, v.Y, reach, func(j int) bool {
			o := s.vehScratch[j]
			// each pair once, lower id first
			if o.ID <= v.ID || !o.Active || !v.Active {
				return true
			}
			if v.Bounds().Intersects(o.Bounds()) {
				s.vehicleCrash(v, o)
			}
			return v.Active
		})
	}
}

// vehicleCrash bounces two vehicles apart, damages both on a hard hit and
// stuns them. A pair where either side is still stunned is only separated.
func (s *Simulation) vehicleCrash(a, b *Vehicle) {
	dm := &s.T.Damage
	separate(a, b)
	if a.CollisionCooldown || b.CollisionCooldown {
		return
	}

	ang := angleTo(a.X, a.Y, b.X, b.Y)
	total := a.Speed() + b.Speed()
	bounce := math.Min(total*dm.BounceFactor, dm.BounceMax)
	a.VX, a.VY = math.Cos(ang+math.Pi)*bounce, math.Sin(ang+math.Pi)*bounce
	b.VX, b.VY = math.Cos(ang)*bounce, math.Sin(ang)*bounce

	playerHit := a.IsPlayerVehicle() || b.IsPlayerVehicle()
	policeHit := playerHit && (a.Police || b.Police)

	if total > dm.RamDamageSpeed {
		d := math.Floor(total / dm.RamDamageDivisor)
		s.DamageVehicle(a, d)
		s.DamageVehicle(b, d)
		if playerHit {
			s.DamagePlayer(math.Floor(total / dm.RamPlayerDivisor))
		}
	}
	if policeHit && s.rng.Chance(s.T.Crime.RamPoliceChance) {
		s.IncreaseCrime(CrimeRammedPolice)
	}

	cd := s.T.Driving.CollisionCooldownSeconds
	for _, v := range [2]*Vehicle{a, b} {
		if v.Active {
			s.stun(v)
			s.sched.After(cd, s.clearCooldown(v.ID))
		}
	}
}

// separate pushes two overlapping bodies apart along the shallower axis.
func separate(a, b *Vehicle) {
	in, ok := a.Bounds().Intersection(b.Bounds())
	if !ok {
		return
	}
	if in.W() < in.H() {
		d := in.W()/2 + 0.01
		if a.X < b.X {
			a.X -= d
			b.X += d
		} else {
			a.X += d
			b.X -= d
		}
		return
	}
	d := in.H()/2 + 0.01
	if a.Y < b.Y {
		a.Y -= d
		b.Y += d
	} else {
		a.Y += d
		b.Y -= d
	}
}

func (s *Simulation) resolvePlayerOnFoot() {
	dm := &s.T.Damage
	p := &s.player
	body := p.Bounds()

	s.vehGrid.query(p.X, p.Y, s.vehReach+p.Size/2, func(j int) bool {
		v := s.vehScratch[j]
		if !v.Active || !v.Bounds().Intersects(body) {
			return true
		}
		sp := v.Speed()
		switch {
		case sp > dm.FootHitSpeed:
			s.DamagePlayer(math.Floor(sp / dm.FootHitDivisor))
		case sp > 0:
			s.DamagePlayer(1)
		}
		a := angleTo(v.X, v.Y, p.X, p.Y)
		p.KX, p.KY = math.Cos(a)*dm.FootPush, math.Sin(a)*dm.FootPush
		if sp > 0 && !v.IsPlayerVehicle() && s.rng.Chance(s.T.Crime.HitPedestrianChance) {
			s.IncreaseCrime(CrimeHitPedestrian)
		}
		return s.phase == PhasePlaying
	})
	if s.phase != PhasePlaying {
		return
	}

	reach := s.T.Pedestrian.Size/2 + p.Size/2
	s.pedGrid.query(p.X, p.Y, reach, func(j int) bool {
		n := s.pedScratch[j]
		if !n.Active || !n.Bounds().Intersects(body) {
			return true
		}
		pushPedestrian(n, p.X, p.Y, dm.PedestrianPush)
		if s.rng.Chance(s.T.Crime.HitPedestrianChance) {
			s.IncreaseCrime(CrimeHitPedestrian)
		}
		return true
	})
}

func (s *Simulation) resolveVehiclePedestrians() {
	dm := &s.T.Damage
	v := s.currentVehicle()
	if v == nil {
		return
	}
	body := v.Bounds()
	reach := s.vehReach + s.T.Pedestrian.Size/2
	s.pedGrid.query(v.X, v.Y, reach, func(j int) bool {
		n := s.pedScratch[j]
		if !n.Active || !n.Bounds().Intersects(body) {
			return true
		}
		if v.Speed() > dm.RunOverSpeed && s.rng.Chance(s.T.Crime.RunOverChance) {
			s.killPedestrian(n, dm.RunOverReward)
			s.IncreaseCrime(CrimeRanOverCivilian)
		} else {
			pushPedestrian(n, v.X, v.Y, dm.VehiclePedestrianPush)
		}
		return v.Active
	})
}

// resolveProjectiles checks each live round against buildings, then
// pedestrians, then vehicles; the first contact consumes it.
func (s *Simulation) resolveProjectiles() {
	dm := &s.T.Damage
	s.projScratch = append(s.projScratch[:0], s.reg.Projectiles()...)
	for _, pr := range s.projScratch {
		if !pr.Active {
			continue
		}
		body := pr.Bounds()
		if s.occ.RectOverlapsBuilding(body) {
			s.reg.Despawn(pr.ID)
			continue
		}

		s.pedGrid.query(pr.X, pr.Y, s.T.Pedestrian.Size/2+pr.Size/2, func(j int) bool {
			n := s.pedScratch[j]
			if !n.Active || !n.Bounds().Intersects(body) {
				return true
			}
			s.reg.Despawn(pr.ID)
			s.killPedestrian(n, dm.ShotReward)
			return false
		})
		if !pr.Active {
			continue
		}

		cur := s.currentVehicle()
		s.vehGrid.query(pr.X, pr.Y, s.vehReach+pr.Size/2, func(j int) bool {
			v := s.vehScratch[j]
			if !v.Active || v == cur || !v.Bounds().Intersects(body) {
				return true
			}
			police := v.Police
			s.reg.Despawn(pr.ID)
			s.DamageVehicle(v, pr.Damage)
			if police {
				s.IncreaseCrime(CrimeShotPolice)
				s.IncreaseCrime(CrimeShotPolice)
			} else {
				s.IncreaseCrime(CrimePropertyDamage)
			}
			return false
		})
	}
}
