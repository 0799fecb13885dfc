package game

// Snapshot is a read-only copy of what a renderer or HUD needs for one frame.
type Snapshot struct {
	Tick  uint64
	Phase Phase

	Player      PlayerView
	Vehicles    []VehicleView
	Pedestrians []PedestrianView
	Projectiles []Point
	Flashes     []MuzzleFlash

	Wanted      int
	Money       int
	Weapon      string
	Ammo        int
	MaxAmmo     int
	Mission     string
	MissionGoal *Point

	Roads         []RectF
	Intersections []RectF
	Buildings     []RectF
	Districts     []District
}

type PlayerView struct {
	X, Y      float64
	Rotation  float64
	Health    float64
	InVehicle bool
}

type VehicleView struct {
	ID       EntityID
	Type     string
	X, Y     float64
	Rotation float64
	Health   float64
	Police   bool
	Smoking  bool
	Player   bool
}

type PedestrianView struct {
	ID       EntityID
	X, Y     float64
	Panicked bool
}

// Snapshot copies the current state. Layout geometry is shared with the
// simulation and must not be modified.
func (s *Simulation) Snapshot() Snapshot {
	px, py := s.playerPos()
	snap := Snapshot{
		Tick:  s.tick,
		Phase: s.phase,
		Player: PlayerView{
			X:         px,
			Y:         py,
			Rotation:  s.player.Rotation,
			Health:    s.player.HP.Fraction(),
			InVehicle: s.player.InVehicle,
		},
		Wanted:        s.wanted.Level,
		Money:         s.player.Money,
		Flashes:       append([]MuzzleFlash(nil), s.reg.Flashes()...),
		Roads:         s.occ.Roads(),
		Intersections: s.occ.Intersections(),
		Districts:     s.layout.Districts,
	}

	snap.Vehicles = make([]VehicleView, 0, len(s.reg.Vehicles()))
	for _, v := range s.reg.Vehicles() {
		snap.Vehicles = append(snap.Vehicles, VehicleView{
			ID:       v.ID,
			Type:     v.Type,
			X:        v.X,
			Y:        v.Y,
			Rotation: v.Rotation,
			Health:   v.HP.Fraction(),
			Police:   v.Police,
			Smoking:  v.Smoking,
			Player:   v.IsPlayerVehicle(),
		})
	}
	snap.Pedestrians = make([]PedestrianView, 0, len(s.reg.Pedestrians()))
	for _, p := range s.reg.Pedestrians() {
		snap.Pedestrians = append(snap.Pedestrians, PedestrianView{
			ID: p.ID, X: p.X, Y: p.Y, Panicked: p.State == PedPanicking,
		})
	}
	snap.Projectiles = make([]Point, 0, len(s.reg.Projectiles()))
	for _, pr := range s.reg.Projectiles() {
		snap.Projectiles = append(snap.Projectiles, Point{X: pr.X, Y: pr.Y})
	}
	snap.Buildings = make([]RectF, 0, len(s.layout.Buildings))
	for _, b := range s.layout.Buildings {
		snap.Buildings = append(snap.Buildings, b.Footprint)
	}

	if w := s.arsenal.Weapon(); w != nil {
		snap.Weapon = w.Name
		snap.Ammo = w.Ammo
		snap.MaxAmmo = w.MaxAmmo
	}
	if m := s.missions.Current(); m != nil {
		snap.Mission = m.Description
		if m.Kind == MissionKindReach {
			goal := m.Target
			snap.MissionGoal = &goal
		}
	} else {
		snap.Mission = "All missions complete"
	}
	return snap
}
