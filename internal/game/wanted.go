package game

type CrimeReason int

const (
	CrimeCarTheft CrimeReason = iota
	CrimeGunfire
	CrimeShotPolice
	CrimePropertyDamage
	CrimeHitPedestrian
	CrimeRanOverCivilian
	CrimeRammedPolice

	crimeReasonCount
)

var crimeNames = [...]string{
	CrimeCarTheft:        "car_theft",
	CrimeGunfire:         "gunfire",
	CrimeShotPolice:      "shot_police",
	CrimePropertyDamage:  "property_damage",
	CrimeHitPedestrian:   "hit_pedestrian",
	CrimeRanOverCivilian: "ran_over_civilian",
	CrimeRammedPolice:    "rammed_police",
}

func (r CrimeReason) String() string {
	if r < 0 || r >= crimeReasonCount {
		return "unknown"
	}
	return crimeNames[r]
}

// WantedState is the player's heat. Level stays within [WantedMin, WantedMax].
type WantedState struct {
	Level     int
	LastCrime float64
	// Crimes committed per reason since the session started.
	Tally [crimeReasonCount]int
}

// IncreaseCrime raises the wanted level by one (capped), stamps the crime
// time and makes nearby pedestrians panic.
func (s *Simulation) IncreaseCrime(reason CrimeReason) {
	w := &s.wanted
	prev := w.Level
	w.Level = min(WantedMax, w.Level+1)
	w.LastCrime = s.Now()
	if reason >= 0 && reason < crimeReasonCount {
		w.Tally[reason]++
	}

	px, py := s.playerPos()
	s.panicAround(px, py)

	s.emit(Event{Type: EventCrime, X: px, Y: py, Data: int(reason)})
	if w.Level != prev {
		s.wantedChanged(prev)
	}
}

// ClearWanted drops the level straight to zero. Police are left in place and
// reconciled by the next decay check.
func (s *Simulation) ClearWanted() {
	if s.wanted.Level == 0 {
		return
	}
	prev := s.wanted.Level
	s.wanted.Level = 0
	s.wantedChanged(prev)
}

func (s *Simulation) wantedChanged(prev int) {
	s.log.Info().
		Int("from", prev).
		Int("to", s.wanted.Level).
		Msg("wanted level changed")
	px, py := s.playerPos()
	s.emit(Event{Type: EventWantedChanged, X: px, Y: py, Data: s.wanted.Level})
	s.missions.observeWanted(s.wanted.Level)
}

// decayWanted runs on the decay timer. After a quiet cooldown it drops one
// level; any decay check also trims police down to the level.
func (s *Simulation) decayWanted() {
	w := &s.wanted
	if s.Now()-w.LastCrime > s.T.Crime.CooldownSeconds && w.Level > 0 {
		prev := w.Level
		w.Level--
		s.wantedChanged(prev)
	}
	s.reconcilePolice()
}

// reconcilePolice despawns the newest units while there are more than the
// level allows.
func (s *Simulation) reconcilePolice() {
	for s.reg.ActivePolice() > s.wanted.Level {
		p := s.reg.LastPolice()
		if p == nil {
			return
		}
		s.despawn(p.ID)
	}
}
