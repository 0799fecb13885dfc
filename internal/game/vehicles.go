package game

import "math"

func newVehicle(spec VehicleSpec, x, y, rotation float64) *Vehicle {
	return &Vehicle{
		Type:         spec.Type,
		X:            x,
		Y:            y,
		Rotation:     rotation,
		W:            spec.W,
		H:            spec.H,
		MaxSpeed:     spec.MaxSpeed,
		Acceleration: spec.Acceleration,
		HP:           NewHealth(spec.Health),
	}
}

// newCivilianVehicle picks a random parked-traffic type facing a random
// cardinal direction.
func (s *Simulation) newCivilianVehicle(x, y float64) *Vehicle {
	specs := s.T.civilianSpecs()
	spec := specs[s.rng.Intn(len(specs))]
	return newVehicle(spec, x, y, float64(s.rng.Intn(4))*math.Pi/2)
}

// driveVehicle turns the player's intent into throttle and steering. While
// the collision cooldown is active the vehicle is held still and input is
// ignored.
func (s *Simulation) driveVehicle(v *Vehicle, in Intent) {
	d := &s.T.Driving
	if v.CollisionCooldown {
		v.VX, v.VY, v.Accel = 0, 0, 0
		return
	}
	speed := v.Speed()

	switch t := in.Throttle(); {
	case t > 0:
		v.Accel = v.Acceleration * t
	case t < 0:
		v.Accel = v.Acceleration * d.ReverseFactor * t
	default:
		v.Accel = 0
	}

	if speed > d.MinTurnSpeed && in.MoveX != 0 {
		grip := math.Min(speed/100, 1)
		v.Rotation += clampF(in.MoveX, -1, 1) * d.TurnRate * d.TurnScale * grip
	}

	drag := d.VehicleDrag
	if in.Handbrake {
		drag = d.HandbrakeDrag
	}
	s.integrateVehicle(v, drag, v.Accel == 0 || in.Handbrake)
}

// integrateVehicle advances velocity and speed clamp. Drag only bites when
// applyDrag is set (no throttle, or handbrake held).
func (s *Simulation) integrateVehicle(v *Vehicle, drag float64, applyDrag bool) {
	dt := s.T.TickSeconds
	if v.Accel != 0 {
		v.VX += math.Cos(v.Rotation) * v.Accel * dt
		v.VY += math.Sin(v.Rotation) * v.Accel * dt
	}
	if applyDrag {
		applyLinearDrag(&v.VX, &v.VY, drag*dt)
	}
	if sp := v.Speed(); v.MaxSpeed > 0 && sp > v.MaxSpeed {
		k := v.MaxSpeed / sp
		v.VX *= k
		v.VY *= k
	}
}

// applyLinearDrag shortens the velocity vector by amount, stopping at zero.
func applyLinearDrag(vx, vy *float64, amount float64) {
	sp := math.Hypot(*vx, *vy)
	if sp <= amount || sp == 0 {
		*vx, *vy = 0, 0
		return
	}
	k := (sp - amount) / sp
	*vx *= k
	*vy *= k
}

// coastVehicle covers every vehicle the player is not driving. Police velocity
// is owned by the AI; a stunned unit or a civilian just loses speed to drag.
func (s *Simulation) coastVehicle(v *Vehicle) {
	v.Accel = 0
	if v.Police && !v.IsPlayerVehicle() && !v.CollisionCooldown && s.wanted.Level > 0 {
		s.integrateVehicle(v, 0, false)
		return
	}
	s.integrateVehicle(v, s.T.Driving.VehicleDrag, true)
}

type buildingHit struct {
	v     *Vehicle
	speed float64
}

// moveVehicle steps the vehicle one axis at a time so a building blocks only
// the axis that ran into it. A body that already overlapped a footprint is
// let out rather than pinned. Any contact is queued for the collision pass.
func (s *Simulation) moveVehicle(v *Vehicle) {
	dt := s.T.TickSeconds
	b := s.occ.Bounds()
	speed := v.Speed()
	stuck := s.occ.RectOverlapsBuilding(v.Bounds())
	hit := false

	ox := v.X
	v.X = clampF(v.X+v.VX*dt, b.X0, b.X1)
	if !stuck && s.occ.RectOverlapsBuilding(v.Bounds()) {
		v.X = ox
		v.VX = 0
		hit = true
	}
	oy := v.Y
	v.Y = clampF(v.Y+v.VY*dt, b.Y0, b.Y1)
	if !stuck && s.occ.RectOverlapsBuilding(v.Bounds()) {
		v.Y = oy
		v.VY = 0
		hit = true
	}
	if hit {
		s.buildingHits = append(s.buildingHits, buildingHit{v: v, speed: speed})
	}
}

// clearCooldown is the one-shot that ends a collision stun. A vehicle that
// was destroyed, or re-stunned since, is left alone.
func (s *Simulation) clearCooldown(id EntityID) func() {
	return func() {
		v := s.reg.Vehicle(id)
		if v == nil || !v.Active || s.tick < v.CooldownUntil {
			return
		}
		v.CollisionCooldown = false
	}
}

func (s *Simulation) stun(v *Vehicle) {
	v.CollisionCooldown = true
	v.CooldownUntil = s.tick + s.sched.Ticks(s.T.Driving.CollisionCooldownSeconds)
}
