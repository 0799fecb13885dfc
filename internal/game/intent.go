package game

type Point struct {
	X, Y float64
}

// Intent is one tick of player input, already decoded from whatever device
// produced it. Move axes are in [-1,1] with -1 up/left. Toggle, switch,
// select, fire and clear fields are edge-triggered and act once per Step;
// Handbrake and FireHeld are held states.
type Intent struct {
	MoveX, MoveY float64
	Handbrake    bool

	ToggleVehicle bool
	SwitchWeapon  bool
	// SelectWeapon picks weapon N-1; zero leaves the selection alone.
	SelectWeapon int

	FireAt      *Point
	FireForward bool
	FireHeld    bool

	ClearWanted bool
}

// Throttle maps the vertical axis to drive input: up is forward.
func (in Intent) Throttle() float64 {
	return clampF(-in.MoveY, -1, 1)
}

func (s *Simulation) applyIntent(in Intent) {
	if in.ClearWanted {
		s.ClearWanted()
	}
	if in.ToggleVehicle {
		s.toggleVehicle()
	}
	if in.SwitchWeapon {
		s.arsenal.Cycle()
	}
	if in.SelectWeapon > 0 {
		s.arsenal.Select(in.SelectWeapon - 1)
	}

	if s.player.InVehicle {
		s.arsenal.held = false
		return
	}
	pressed := false
	switch {
	case in.FireAt != nil:
		s.arsenal.aim = *in.FireAt
		s.arsenal.hasAim = true
		s.fire(in.FireAt.X, in.FireAt.Y)
		pressed = true
	case in.FireForward:
		s.arsenal.hasAim = false
		s.fireForward()
		pressed = true
	case in.FireHeld && s.arsenal.held:
		s.autoFire()
	}
	// holding only counts once a press started it
	s.arsenal.held = in.FireHeld && (pressed || s.arsenal.held)
}
