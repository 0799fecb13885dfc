package game

// Mission is one objective in the fixed progression.
type Mission struct {
	ID          int
	Name        string
	Description string
	Kind        string
	Target      Point
	Radius      float64
	// Lose-wanted missions must first see the level reach this.
	WantedThreshold int
	Reward          int
	Completed       bool

	armed bool
}

// MissionState is the slice of live state a mission predicate looks at.
type MissionState struct {
	InVehicle bool
	X, Y      float64
	Wanted    int
}

// MissionTracker walks the missions in order; exactly one is current until
// all are done.
type MissionTracker struct {
	missions []*Mission
	current  int
}

func NewMissionTracker(specs []MissionSpec) *MissionTracker {
	mt := &MissionTracker{missions: make([]*Mission, 0, len(specs))}
	for _, sp := range specs {
		mt.missions = append(mt.missions, &Mission{
			ID:              sp.ID,
			Name:            sp.Name,
			Description:     sp.Description,
			Kind:            sp.Kind,
			Target:          Point{X: sp.TargetX, Y: sp.TargetY},
			Radius:          sp.Radius,
			WantedThreshold: sp.WantedThreshold,
			Reward:          sp.Reward,
		})
	}
	return mt
}

// Current returns the active mission, or nil once everything is complete.
func (mt *MissionTracker) Current() *Mission {
	if mt.current >= len(mt.missions) {
		return nil
	}
	return mt.missions[mt.current]
}

func (mt *MissionTracker) All() []*Mission { return mt.missions }

func (mt *MissionTracker) Done() bool { return mt.Current() == nil }

// observeWanted arms the current lose-wanted mission once the level gets
// high enough.
func (mt *MissionTracker) observeWanted(level int) {
	m := mt.Current()
	if m == nil || m.Kind != MissionKindLoseWanted {
		return
	}
	if level >= m.WantedThreshold && level > 0 {
		m.armed = true
	}
}

func (m *Mission) satisfied(st MissionState) bool {
	switch m.Kind {
	case MissionKindReach:
		return st.InVehicle && dist(st.X, st.Y, m.Target.X, m.Target.Y) < m.Radius
	case MissionKindLoseWanted:
		if st.Wanted != 0 {
			return false
		}
		return m.WantedThreshold <= 0 || m.armed
	}
	return false
}

// Update evaluates the current mission and returns it if it just completed.
// The tracker then moves on to the next incomplete mission.
func (mt *MissionTracker) Update(st MissionState) *Mission {
	m := mt.Current()
	if m == nil || !m.satisfied(st) {
		return nil
	}
	m.Completed = true
	mt.advance()
	return m
}

func (mt *MissionTracker) advance() {
	for mt.current < len(mt.missions) && mt.missions[mt.current].Completed {
		mt.current++
	}
}

// updateMissions polls the tracker and pays out a completion.
func (s *Simulation) updateMissions() {
	if s.missions.Done() || s.phase != PhasePlaying {
		return
	}
	px, py := s.playerPos()
	m := s.missions.Update(MissionState{
		InVehicle: s.player.InVehicle,
		X:         px,
		Y:         py,
		Wanted:    s.wanted.Level,
	})
	if m == nil {
		return
	}
	s.player.AddMoney(m.Reward)
	s.emit(Event{Type: EventMissionCompleted, X: px, Y: py, Data: m.ID})
	s.log.Info().
		Int("mission", m.ID).
		Str("name", m.Name).
		Int("reward", m.Reward).
		Msg("mission completed")

	if !s.missions.Done() {
		// a mission that was already primed by the current heat starts armed
		s.missions.observeWanted(s.wanted.Level)
		return
	}
	s.emit(Event{Type: EventAllMissionsComplete, X: px, Y: py})
	s.log.Info().Msg("all missions complete")
}
