package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePolice_IdleWithoutHeat(t *testing.T) {
	s := newTestSim(t)
	cop := placePolice(s, 300, 300)
	cop.VX, cop.VY = 50, 50

	s.updatePolice()

	assert.Equal(t, PoliceIdle, cop.PoliceState)
	assert.Equal(t, 0.0, cop.Speed())
}

func TestUpdatePolice_PursuesFromRange(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = 2
	cop := placePolice(s, 300, s.player.Y)
	require.Equal(t, 2, cop.ChaseIntensity)

	s.updatePolice()

	pt := s.T.Police
	assert.Equal(t, PolicePursuing, cop.PoliceState)
	assert.InDelta(t, pt.ChaseSpeed+2*pt.IntensityBonus, cop.Speed(), 1e-9)
	assert.InDelta(t, 0, cop.Rotation, 1e-9)
	assert.Greater(t, cop.VX, 0.0)
}

func TestUpdatePolice_RamsUpClose(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = 1
	cop := placePolice(s, s.player.X, s.player.Y-80)

	s.updatePolice()

	assert.Equal(t, PoliceRamming, cop.PoliceState)
	assert.InDelta(t, s.T.Police.RamSpeed, cop.Speed(), 1e-9)
	assert.InDelta(t, math.Pi/2, cop.Rotation, 1e-9)
}

func TestUpdatePolice_StunnedUnitKeepsVelocity(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = 3
	cop := placePolice(s, 300, 300)
	s.stun(cop)
	cop.VX = 10

	s.updatePolice()

	assert.Equal(t, 10.0, cop.VX)
	assert.Equal(t, PoliceIdle, cop.PoliceState)
}

func TestUpdatePolice_TargetsDrivenVehicle(t *testing.T) {
	s := newTestSim(t)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.enterVehicle(v)
	v.X, v.Y = 1500, 300
	cop := placePolice(s, 300, 300)

	s.updatePolice()

	assert.InDelta(t, 0, cop.Rotation, 1e-9)
}

func TestSpawnPoliceTick_EdgeRoadAndStats(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = 3
	spawned := countEvents(s, EventPoliceSpawned)

	for i := 0; i < 50 && s.reg.ActivePolice() == 0; i++ {
		s.spawnPoliceTick()
	}
	require.Equal(t, 1, s.reg.ActivePolice())
	assert.Equal(t, 1, *spawned)

	cop := s.reg.Police()[0]
	b := s.occ.Bounds()
	onEdge := cop.X == b.X0 || cop.X == b.X1 || cop.Y == b.Y0 || cop.Y == b.Y1
	assert.True(t, onEdge, "spawned at (%v,%v)", cop.X, cop.Y)
	assert.True(t, s.occ.PointOnRoad(cop.X, cop.Y))
	assert.True(t, cop.Police)
	assert.Equal(t, s.T.Police.Health, cop.HP.Max)
	assert.Equal(t, s.T.Police.MaxSpeed, cop.MaxSpeed)
	assert.Equal(t, 3, cop.ChaseIntensity)
	assert.Equal(t, s.T.Police.Type, cop.Type)
}

func TestSpawnPoliceTick_BelowThreshold(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = s.T.Police.MinWanted - 1

	for range 50 {
		s.spawnPoliceTick()
	}

	assert.Equal(t, 0, s.reg.ActivePolice())
}

func TestSpawnPoliceTick_CappedByLevel(t *testing.T) {
	s := newTestSim(t)
	s.wanted.Level = 2

	for range 300 {
		s.spawnPoliceTick()
	}

	assert.Equal(t, 2, s.reg.ActivePolice())
}

func TestUpdatePolice_LeavesStolenUnitToPlayer(t *testing.T) {
	s := newTestSim(t)
	cop := placePolice(s, s.player.X+10, s.player.Y)
	s.toggleVehicle()
	require.True(t, cop.IsPlayerVehicle())
	require.Equal(t, 1, s.Wanted().Level)

	stepN(s, 2, Intent{})

	assert.Equal(t, 0.0, cop.Speed())
	assert.NotEqual(t, PoliceRamming, cop.PoliceState)
	assert.Equal(t, 0, s.reg.ActivePolice())
}

func TestSpawnPoliceTick_StolenUnitDoesNotFillQuota(t *testing.T) {
	s := newTestSim(t)
	stolen := placePolice(s, s.player.X+10, s.player.Y)
	s.enterVehicle(stolen)
	s.wanted.Level = 2

	for i := 0; i < 300 && s.reg.ActivePolice() < 2; i++ {
		s.spawnPoliceTick()
	}

	assert.Equal(t, 2, s.reg.ActivePolice())
	assert.Len(t, s.reg.Police(), 3)
}
