package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissions_ReachCompletesInsideRadius(t *testing.T) {
	s := newTestSim(t, noPolice)
	completed := countEvents(s, EventMissionCompleted)

	m1 := s.missions.Current()
	require.NotNil(t, m1)
	v := placeVehicle(s, 1650, 800)
	s.player.X, s.player.Y = 1650, 840
	s.Step(Intent{ToggleVehicle: true})
	require.True(t, s.player.InVehicle)

	v.X = m1.Target.X - m1.Radius - 1
	s.Step(Intent{})
	assert.False(t, m1.Completed)
	assert.Equal(t, 0, s.player.Money)

	v.X = m1.Target.X - m1.Radius + 1
	s.Step(Intent{})
	assert.True(t, m1.Completed)
	assert.Equal(t, m1.Reward, s.player.Money)
	require.NotNil(t, s.missions.Current())
	assert.Equal(t, 2, s.missions.Current().ID)

	stepN(s, 10, Intent{})
	assert.Equal(t, m1.Reward, s.player.Money)
	assert.Equal(t, 1, *completed)
}

func TestMissions_ReachNeedsVehicle(t *testing.T) {
	s := newTestSim(t)
	m1 := s.missions.Current()
	s.player.X, s.player.Y = m1.Target.X, m1.Target.Y

	s.Step(Intent{})

	assert.False(t, m1.Completed)
}

func TestMissionTracker_ReachRadiusIsExclusive(t *testing.T) {
	mt := NewMissionTracker(DefaultTunables().Missions)
	m := mt.Current()
	require.NotNil(t, m)

	assert.Nil(t, mt.Update(MissionState{InVehicle: true, X: m.Target.X - m.Radius, Y: m.Target.Y}))
	assert.Same(t, m, mt.Update(MissionState{InVehicle: true, X: m.Target.X - m.Radius + 0.5, Y: m.Target.Y}))
}

func TestMissionTracker_LoseWantedNeedsThreshold(t *testing.T) {
	mt := NewMissionTracker(DefaultTunables().Missions)
	first := mt.Update(MissionState{InVehicle: true, X: 1800, Y: 800})
	require.NotNil(t, first)
	assert.Equal(t, 1, first.ID)

	m := mt.Current()
	require.NotNil(t, m)
	assert.Equal(t, MissionKindLoseWanted, m.Kind)

	assert.Nil(t, mt.Update(MissionState{Wanted: 0}))
	mt.observeWanted(2)
	assert.Nil(t, mt.Update(MissionState{Wanted: 0}))

	mt.observeWanted(3)
	assert.Nil(t, mt.Update(MissionState{Wanted: 1}))

	done := mt.Update(MissionState{Wanted: 0})
	require.NotNil(t, done)
	assert.Equal(t, 2, done.ID)
	assert.Nil(t, mt.Current())
	assert.True(t, mt.Done())
	assert.Nil(t, mt.Update(MissionState{Wanted: 0}))
}

func TestMissionTracker_ZeroThresholdCompletesAtZero(t *testing.T) {
	mt := NewMissionTracker([]MissionSpec{
		{ID: 9, Kind: MissionKindLoseWanted, Reward: 50},
	})

	assert.Nil(t, mt.Update(MissionState{Wanted: 2}))
	done := mt.Update(MissionState{Wanted: 0})
	require.NotNil(t, done)
	assert.Equal(t, 9, done.ID)
}

func TestMissions_AllCompleteOnce(t *testing.T) {
	s := newTestSim(t, func(t *Tunables) {
		t.Missions = []MissionSpec{{ID: 1, Kind: MissionKindLoseWanted, Reward: 1000}}
	})
	completed := countEvents(s, EventMissionCompleted)
	all := countEvents(s, EventAllMissionsComplete)

	stepN(s, 5, Intent{})

	assert.Equal(t, 1, *completed)
	assert.Equal(t, 1, *all)
	assert.Equal(t, 1000, s.player.Money)
	assert.Equal(t, "All missions complete", s.Snapshot().Mission)
}

func TestMissions_HeatCarriedIntoLoseWanted(t *testing.T) {
	s := newTestSim(t, noPolice)
	m1 := s.missions.Current()
	v := placeVehicle(s, m1.Target.X, m1.Target.Y)
	s.player.X, s.player.Y = v.X, v.Y+40
	for range 2 {
		s.IncreaseCrime(CrimeGunfire)
	}

	// theft takes the level to 3 and completes mission 1 in the same tick
	s.Step(Intent{ToggleVehicle: true})
	require.True(t, m1.Completed)
	m2 := s.missions.Current()
	require.NotNil(t, m2)

	s.ClearWanted()
	s.Step(Intent{})
	assert.True(t, m2.Completed)
	assert.Equal(t, m1.Reward+m2.Reward, s.player.Money)
}
