package game

import (
	"errors"
	"math"
)

// spawnPoliceTick runs on the police timer.
func (s *Simulation) spawnPoliceTick() {
	pt := &s.T.Police
	level := s.wanted.Level
	if level < pt.MinWanted || s.reg.ActivePolice() >= level {
		return
	}
	_, err := s.Spawn(KindPolice, SpawnConstraints{
		EdgeOnly:    true,
		RequireRoad: true,
		Attempts:    pt.SpawnAttempts,
	})
	if err != nil && !errors.Is(err, ErrPlacementFailed) {
		s.log.Error().Err(err).Msg("police spawn")
	}
}

// updatePolice steers every unit straight at the player or their vehicle.
// A stolen unit is driven by the player and left alone.
func (s *Simulation) updatePolice() {
	pt := &s.T.Police
	tx, ty := s.playerPos()
	for _, p := range s.reg.Police() {
		if !p.Active || p.IsPlayerVehicle() {
			continue
		}
		if s.wanted.Level == 0 {
			p.PoliceState = PoliceIdle
			p.VX, p.VY = 0, 0
			continue
		}
		if p.CollisionCooldown {
			continue
		}
		a := angleTo(p.X, p.Y, tx, ty)
		speed := pt.RamSpeed
		p.PoliceState = PoliceRamming
		if dist(p.X, p.Y, tx, ty) > pt.CloseRange {
			speed = pt.ChaseSpeed + float64(p.ChaseIntensity)*pt.IntensityBonus
			p.PoliceState = PolicePursuing
		}
		p.VX = math.Cos(a) * speed
		p.VY = math.Sin(a) * speed
		p.Rotation = a
	}
}

// newPoliceVehicle builds a unit facing the player. Chase intensity is the
// wanted level at spawn time.
func (s *Simulation) newPoliceVehicle(x, y float64) *Vehicle {
	pt := &s.T.Police
	tx, ty := s.playerPos()
	v := newVehicle(s.T.vehicleSpec(pt.Type), x, y, angleTo(x, y, tx, ty))
	v.HP = NewHealth(pt.Health)
	v.MaxSpeed = pt.MaxSpeed
	v.Police = true
	v.ChaseIntensity = s.wanted.Level
	return v
}
