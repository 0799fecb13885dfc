package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noPolice(t *Tunables) { t.Police.MinWanted = WantedMax + 1 }

func TestIncreaseCrime_GunfireCapsAtFive(t *testing.T) {
	s := newTestSim(t, noPolice, func(t *Tunables) { t.Crime.GunfireChance = 1 })

	peak := 0
	s.bus.Subscribe(EventWantedChanged, func(e Event) { peak = max(peak, e.Data) })

	for range 10 {
		s.Step(Intent{FireForward: true})
		stepN(s, 30, Intent{})
	}

	assert.Equal(t, 5, s.Wanted().Level)
	assert.Equal(t, 10, s.Wanted().Tally[CrimeGunfire])
	assert.Equal(t, 5, peak)
	assert.Equal(t, 40, s.arsenal.Weapon().Ammo)
}

func TestDecayWanted_OneLevelPerCheck(t *testing.T) {
	s := newTestSim(t, noPolice)
	for range 3 {
		s.IncreaseCrime(CrimeGunfire)
	}
	require.Equal(t, 3, s.Wanted().Level)

	// first decay check at 8s is inside the 15s quiet window
	stepN(s, 959, Intent{})
	assert.Equal(t, 3, s.Wanted().Level)

	s.Step(Intent{})
	assert.Equal(t, 2, s.Wanted().Level)

	stepN(s, 479, Intent{})
	assert.Equal(t, 2, s.Wanted().Level)

	s.Step(Intent{})
	assert.Equal(t, 1, s.Wanted().Level)

	stepN(s, 480, Intent{})
	assert.Equal(t, 0, s.Wanted().Level)

	stepN(s, 480, Intent{})
	assert.Equal(t, 0, s.Wanted().Level)
}

func TestDecayWanted_FreshCrimeResetsWindow(t *testing.T) {
	s := newTestSim(t, noPolice)
	s.IncreaseCrime(CrimeCarTheft)

	stepN(s, 900, Intent{})
	s.IncreaseCrime(CrimeGunfire)
	require.Equal(t, 2, s.Wanted().Level)

	// checks at 16s and 24s fall within 15s of the second crime
	stepN(s, 540, Intent{})
	assert.Equal(t, 2, s.Wanted().Level)
}

func TestWanted_StaysInBounds(t *testing.T) {
	s := newTestSim(t, noPolice)
	r := NewRand(11)

	for range 500 {
		if r.Chance(0.5) {
			s.IncreaseCrime(CrimeReason(r.Intn(int(crimeReasonCount))))
		} else {
			s.tick += s.sched.Ticks(s.T.Crime.CooldownSeconds + 1)
			s.decayWanted()
		}
		lvl := s.Wanted().Level
		require.GreaterOrEqual(t, lvl, WantedMin)
		require.LessOrEqual(t, lvl, WantedMax)
	}
}

func TestReconcilePolice_AfterDecay(t *testing.T) {
	s := newTestSim(t, noPolice)
	for range 3 {
		s.IncreaseCrime(CrimeShotPolice)
	}
	p1 := placePolice(s, 100, 100)
	p2 := placePolice(s, 300, 100)
	p3 := placePolice(s, 500, 100)
	require.Equal(t, 3, s.reg.ActivePolice())

	s.tick += s.sched.Ticks(s.T.Crime.CooldownSeconds + 1)
	s.decayWanted()

	assert.Equal(t, 2, s.Wanted().Level)
	assert.Equal(t, 2, s.reg.ActivePolice())
	assert.True(t, p1.Active)
	assert.True(t, p2.Active)
	assert.False(t, p3.Active)
	assert.Nil(t, s.reg.Vehicle(p3.ID))
}

func TestClearWanted_PoliceReconciledOnNextDecay(t *testing.T) {
	s := newTestSim(t, noPolice)
	for range 3 {
		s.IncreaseCrime(CrimeGunfire)
	}
	for i := range 3 {
		placePolice(s, 100+float64(i)*200, 100)
	}

	s.ClearWanted()
	assert.Equal(t, 0, s.Wanted().Level)
	assert.Equal(t, 3, s.reg.ActivePolice())

	s.decayWanted()
	assert.Equal(t, 0, s.reg.ActivePolice())
}

func TestReconcilePolice_KeepsStolenUnit(t *testing.T) {
	s := newTestSim(t, noPolice)
	stolen := placePolice(s, s.player.X+10, s.player.Y)
	s.toggleVehicle()
	require.True(t, s.player.InVehicle)
	other := placePolice(s, 300, 300)
	require.Equal(t, 1, s.reg.ActivePolice())

	s.wanted.Level = 0
	s.decayWanted()

	assert.False(t, other.Active)
	assert.True(t, stolen.Active)
	assert.True(t, s.player.InVehicle)
	assert.Same(t, stolen, s.currentVehicle())
}

func TestIncreaseCrime_EmitsEvents(t *testing.T) {
	s := newTestSim(t, noPolice)
	crimes := countEvents(s, EventCrime)
	changes := countEvents(s, EventWantedChanged)

	var last Event
	s.bus.Subscribe(EventCrime, func(e Event) { last = e })

	for range 7 {
		s.IncreaseCrime(CrimeHitPedestrian)
	}

	assert.Equal(t, 7, *crimes)
	assert.Equal(t, 5, *changes)
	assert.Equal(t, int(CrimeHitPedestrian), last.Data)
	assert.Equal(t, s.T.World.SpawnX, last.X)
}

func TestIncreaseCrime_PanicsNearbyPedestrians(t *testing.T) {
	s := newTestSim(t, noPolice)
	near := placePedestrian(s, s.player.X+50, s.player.Y)
	far := placePedestrian(s, 300, 300)

	s.IncreaseCrime(CrimeGunfire)

	assert.Equal(t, PedPanicking, near.State)
	assert.Equal(t, s.T.Pedestrian.PanicSeconds, near.PanicTimer)
	assert.InDelta(t, 0, near.WalkDir, 1e-9)
	assert.Equal(t, s.T.Pedestrian.PanicSpeed, near.WalkSpeed)
	assert.Equal(t, PedWandering, far.State)
}

func TestCrimeReason_String(t *testing.T) {
	assert.Equal(t, "car_theft", CrimeCarTheft.String())
	assert.Equal(t, "rammed_police", CrimeRammedPolice.String())
	assert.Equal(t, "unknown", CrimeReason(99).String())
}
