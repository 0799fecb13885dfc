package game

import (
	"errors"
	"fmt"
)

// ErrPlacementFailed is returned when no valid location was found within the
// attempt budget. It is never fatal; callers log and skip.
var ErrPlacementFailed = errors.New("placement failed")

// SpawnConstraints describes where an entity may be placed. Zero fields are
// unconstrained.
type SpawnConstraints struct {
	// Region to sample from; the world bounds when empty.
	Region RectF
	// Regions, when set, replaces Region: one is picked per attempt.
	Regions []RectF
	// EdgeOnly samples along one world edge, picked once per spawn.
	EdgeOnly bool

	// CheckW and CheckH size the box tested against roads and buildings. With
	// no box the candidate point itself is tested.
	CheckW, CheckH float64
	AvoidRoads     bool
	AvoidBuildings bool
	RequireRoad    bool

	PlayerExclusion float64
	// MinSeparation is measured against live entities of the same kind.
	MinSeparation float64

	Attempts int
}

// Spawn places a new entity of the given kind. Projectiles are created by
// weapons, not through placement.
func (s *Simulation) Spawn(kind EntityKind, c SpawnConstraints) (EntityID, error) {
	if kind == KindProjectile {
		return 0, fmt.Errorf("spawn %s: not placeable", kind)
	}
	x, y, err := s.findSpot(kind, c)
	if err != nil {
		s.metrics.spawnFailed(kind)
		s.log.Debug().
			Str("kind", kind.String()).
			Int("attempts", max(1, c.Attempts)).
			Msg("spawn skipped")
		s.emit(Event{Type: EventSpawnFailed, Data: int(kind)})
		return 0, fmt.Errorf("spawn %s: %w", kind, err)
	}

	var id EntityID
	switch kind {
	case KindVehicle:
		id = s.reg.AddVehicle(s.newCivilianVehicle(x, y))
	case KindPolice:
		id = s.reg.AddVehicle(s.newPoliceVehicle(x, y))
		s.metrics.policeDelta(1)
		s.emit(Event{Type: EventPoliceSpawned, ID: id, X: x, Y: y, Data: s.wanted.Level})
	case KindPedestrian:
		id = s.reg.AddPedestrian(s.newPedestrian(x, y))
	}
	s.metrics.spawned(kind)
	return id, nil
}

func (s *Simulation) findSpot(kind EntityKind, c SpawnConstraints) (float64, float64, error) {
	attempts := max(1, c.Attempts)
	region := c.Region
	if region.W() <= 0 || region.H() <= 0 {
		region = s.occ.Bounds()
	}
	side := 0
	if c.EdgeOnly {
		side = s.rng.Intn(4)
	}
	px, py := s.playerPos()

	for a := 0; a < attempts; a++ {
		var x, y float64
		switch {
		case c.EdgeOnly:
			x, y = s.edgePoint(side)
		case len(c.Regions) > 0:
			r := c.Regions[s.rng.Intn(len(c.Regions))]
			x, y = s.rng.RangeF(r.X0, r.X1), s.rng.RangeF(r.Y0, r.Y1)
		default:
			x, y = s.rng.RangeF(region.X0, region.X1), s.rng.RangeF(region.Y0, region.Y1)
		}
		if s.validSpot(kind, c, x, y, px, py) {
			return x, y, nil
		}
	}
	return 0, 0, ErrPlacementFailed
}

func (s *Simulation) validSpot(kind EntityKind, c SpawnConstraints, x, y, px, py float64) bool {
	if c.PlayerExclusion > 0 && dist(x, y, px, py) < c.PlayerExclusion {
		return false
	}
	if c.RequireRoad && !s.occ.PointOnRoad(x, y) {
		return false
	}
	if c.CheckW > 0 && c.CheckH > 0 {
		box := RectAround(x, y, c.CheckW, c.CheckH)
		if c.AvoidRoads && s.occ.RectOnRoad(box) {
			return false
		}
		if c.AvoidBuildings && s.occ.RectOverlapsBuilding(box) {
			return false
		}
	} else {
		if c.AvoidRoads && (s.occ.PointOnRoad(x, y) || s.occ.PointInIntersection(x, y)) {
			return false
		}
		if c.AvoidBuildings && s.occ.RectOverlapsBuilding(RectAround(x, y, 1, 1)) {
			return false
		}
	}
	if c.MinSeparation > 0 && s.crowded(kind, x, y, c.MinSeparation) {
		return false
	}
	return true
}

func (s *Simulation) crowded(kind EntityKind, x, y, d float64) bool {
	switch kind {
	case KindPedestrian:
		for _, p := range s.reg.Pedestrians() {
			if p.Active && dist(x, y, p.X, p.Y) < d {
				return true
			}
		}
	case KindVehicle, KindPolice:
		for _, v := range s.reg.Vehicles() {
			if v.Active && dist(x, y, v.X, v.Y) < d {
				return true
			}
		}
	}
	return false
}

// edgePoint samples a point on one world edge: 0 top, 1 right, 2 bottom,
// 3 left.
func (s *Simulation) edgePoint(side int) (float64, float64) {
	b := s.occ.Bounds()
	switch side {
	case 0:
		return s.rng.RangeF(b.X0, b.X1), b.Y0
	case 1:
		return b.X1, s.rng.RangeF(b.Y0, b.Y1)
	case 2:
		return s.rng.RangeF(b.X0, b.X1), b.Y1
	default:
		return b.X0, s.rng.RangeF(b.Y0, b.Y1)
	}
}

func (s *Simulation) vehicleConstraints() SpawnConstraints {
	sp := &s.T.Spawn
	m := sp.VehicleMargin
	b := s.occ.Bounds()
	return SpawnConstraints{
		Region:          RectF{X0: b.X0 + m, Y0: b.Y0 + m, X1: b.X1 - m, Y1: b.Y1 - m},
		CheckW:          sp.VehicleCheckW,
		CheckH:          sp.VehicleCheckH,
		AvoidRoads:      true,
		AvoidBuildings:  true,
		PlayerExclusion: sp.VehiclePlayerExclusion,
		Attempts:        sp.VehicleAttempts,
	}
}

func (s *Simulation) pedestrianConstraints() SpawnConstraints {
	sp := &s.T.Spawn
	size := s.T.Pedestrian.Size
	return SpawnConstraints{
		Regions:         s.occ.Walkables(),
		CheckW:          size,
		CheckH:          size,
		AvoidRoads:      true,
		AvoidBuildings:  true,
		PlayerExclusion: sp.PedestrianPlayerExclusion,
		MinSeparation:   sp.PedestrianMinSeparation,
		Attempts:        sp.PedestrianAttempts,
	}
}
