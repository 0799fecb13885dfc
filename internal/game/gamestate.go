package game

type Phase int

const (
	PhasePlaying Phase = iota // player in control
	PhaseWasted               // dead, respawn pending
)

func (p Phase) String() string {
	if p == PhaseWasted {
		return "wasted"
	}
	return "playing"
}

// DamagePlayer applies damage to the player. Health reaching zero starts the
// wasted sequence exactly once; further damage is ignored until respawn.
func (s *Simulation) DamagePlayer(amount float64) {
	if s.phase == PhaseWasted || amount <= 0 {
		return
	}
	s.player.HP.Damage(amount)
	if !s.player.HP.Dead() {
		return
	}
	s.phase = PhaseWasted
	px, py := s.playerPos()
	s.emit(Event{Type: EventPlayerWasted, X: px, Y: py})
	s.log.Info().
		Int("wanted", s.wanted.Level).
		Int("money", s.player.Money).
		Msg("player wasted")
	s.sched.After(s.T.Player.RespawnDelaySeconds, s.respawn)
}

// respawn resets the player after a wasted screen: spawn point, full health,
// no heat, fine paid, police gone, ammo refilled.
func (s *Simulation) respawn() {
	if s.player.InVehicle {
		s.exitVehicle()
	}
	p := &s.player
	p.X, p.Y = s.T.World.SpawnX, s.T.World.SpawnY
	p.Rotation = 0
	p.VX, p.VY, p.KX, p.KY = 0, 0, 0, 0
	p.HP.Reset()
	p.AddMoney(-s.T.Player.DeathFine)

	if s.wanted.Level > 0 {
		prev := s.wanted.Level
		s.wanted.Level = 0
		s.wantedChanged(prev)
	}
	for _, v := range append([]*Vehicle(nil), s.reg.Police()...) {
		s.despawn(v.ID)
	}

	s.arsenal.Refill()
	s.arsenal.Select(0)
	s.arsenal.held = false

	s.phase = PhasePlaying
	s.emit(Event{Type: EventPlayerRespawned, X: p.X, Y: p.Y})
	s.log.Info().Int("money", p.Money).Msg("player respawned")
}
