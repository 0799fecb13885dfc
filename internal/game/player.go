package game

import "math"

// Player is the controlled actor. While InVehicle is set the player has no
// body of its own: position follows the vehicle and on-foot collisions are
// skipped.
type Player struct {
	X, Y     float64
	Rotation float64
	VX, VY   float64
	// Knockback from being struck, decays on its own.
	KX, KY float64
	Size   float64

	HP    Health
	Money int

	InVehicle bool
	VehicleID EntityID
}

func (p *Player) Bounds() RectF {
	return RectAround(p.X, p.Y, p.Size, p.Size)
}

// AddMoney applies a signed delta; the balance never drops below zero.
func (p *Player) AddMoney(delta int) {
	p.Money = max(0, p.Money+delta)
}

// currentVehicle returns the vehicle the player is driving, or nil.
func (s *Simulation) currentVehicle() *Vehicle {
	if !s.player.InVehicle {
		return nil
	}
	v := s.reg.Vehicle(s.player.VehicleID)
	if v == nil || !v.Active {
		return nil
	}
	return v
}

// playerPos is where the player is, on foot or driving.
func (s *Simulation) playerPos() (float64, float64) {
	if v := s.currentVehicle(); v != nil {
		return v.X, v.Y
	}
	return s.player.X, s.player.Y
}

// walk sets on-foot velocity from the movement axes and moves one axis at a
// time against buildings.
func (s *Simulation) walk(in Intent) {
	p := &s.player
	pt := &s.T.Player
	dt := s.T.TickSeconds

	mx, my := clampF(in.MoveX, -1, 1), clampF(in.MoveY, -1, 1)
	vx, vy := mx*pt.Speed, my*pt.Speed
	if mx != 0 && my != 0 {
		vx *= 0.707
		vy *= 0.707
	}
	p.VX, p.VY = vx, vy
	if vx != 0 || vy != 0 {
		p.Rotation = math.Atan2(vy, vx)
	}

	applyLinearDrag(&p.KX, &p.KY, pt.KnockbackDrag*dt)
	stepX := (p.VX + p.KX) * dt
	stepY := (p.VY + p.KY) * dt

	b := s.occ.Bounds()
	stuck := s.occ.RectOverlapsBuilding(p.Bounds())

	ox := p.X
	p.X = clampF(p.X+stepX, b.X0, b.X1)
	if !stuck && s.occ.RectOverlapsBuilding(p.Bounds()) {
		p.X = ox
	}
	oy := p.Y
	p.Y = clampF(p.Y+stepY, b.Y0, b.Y1)
	if !stuck && s.occ.RectOverlapsBuilding(p.Bounds()) {
		p.Y = oy
	}
}

// toggleVehicle is the enter/exit action.
func (s *Simulation) toggleVehicle() {
	if s.player.InVehicle {
		s.exitVehicle()
		return
	}
	if v := s.nearestEnterable(); v != nil {
		s.enterVehicle(v)
	}
}

func (s *Simulation) nearestEnterable() *Vehicle {
	p := &s.player
	var best *Vehicle
	bestD := s.T.Player.EnterRadius
	for _, v := range s.reg.Vehicles() {
		if !v.Active || v.Exploding || v.IsPlayerVehicle() {
			continue
		}
		if d := dist(p.X, p.Y, v.X, v.Y); d < bestD {
			bestD = d
			best = v
		}
	}
	return best
}

// enterVehicle takes the wheel. Taking a vehicle the player has not driven
// before counts as car theft.
func (s *Simulation) enterVehicle(v *Vehicle) {
	p := &s.player
	p.InVehicle = true
	p.VehicleID = v.ID
	p.VX, p.VY, p.KX, p.KY = 0, 0, 0, 0
	v.Owner = OwnerPlayer
	if v.LastDriver != DriverPlayer {
		v.LastDriver = DriverPlayer
		s.IncreaseCrime(CrimeCarTheft)
	}
	s.emit(Event{Type: EventEnteredVehicle, ID: v.ID, X: v.X, Y: v.Y})
}

// exitVehicle drops the player beside the vehicle, trying other angles while
// the landing spot is on a road.
func (s *Simulation) exitVehicle() {
	p := &s.player
	pt := &s.T.Player
	v := s.reg.Vehicle(p.VehicleID)
	p.InVehicle = false
	p.VehicleID = 0
	if v == nil {
		return
	}
	if v.Owner == OwnerPlayer {
		v.Owner = OwnerFree
	}

	a := v.Rotation + math.Pi/2
	ex := v.X + math.Cos(a)*pt.ExitDistance
	ey := v.Y + math.Sin(a)*pt.ExitDistance
	cs := pt.ExitCheckSize
	for i := 0; i < pt.ExitAttempts && s.occ.RectOnRoad(RectAround(ex, ey, cs, cs)); i++ {
		a = v.Rotation + s.rng.Float64()*math.Pi - math.Pi/2
		ex = v.X + math.Cos(a)*pt.ExitDistance
		ey = v.Y + math.Sin(a)*pt.ExitDistance
	}
	b := s.occ.Bounds()
	p.X = clampF(ex, b.X0, b.X1)
	p.Y = clampF(ey, b.Y0, b.Y1)
	p.Rotation = v.Rotation
	s.emit(Event{Type: EventExitedVehicle, ID: v.ID, X: p.X, Y: p.Y})
}

// syncPlayerToVehicle keeps the on-foot position on the vehicle so that an
// exit or a wasted respawn starts from the right place.
func (s *Simulation) syncPlayerToVehicle() {
	if v := s.currentVehicle(); v != nil {
		s.player.X, s.player.Y = v.X, v.Y
		s.player.Rotation = v.Rotation
	}
}
