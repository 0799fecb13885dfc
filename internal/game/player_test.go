package game

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleVehicle_TheftCountedOnce(t *testing.T) {
	s := newTestSim(t, noPolice)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	entered := countEvents(s, EventEnteredVehicle)
	exited := countEvents(s, EventExitedVehicle)

	s.Step(Intent{ToggleVehicle: true})
	require.True(t, s.player.InVehicle)
	assert.Equal(t, v.ID, s.player.VehicleID)
	assert.Equal(t, OwnerPlayer, v.Owner)
	assert.Equal(t, DriverPlayer, v.LastDriver)
	assert.Equal(t, 1, s.Wanted().Level)

	s.Step(Intent{ToggleVehicle: true})
	require.False(t, s.player.InVehicle)
	assert.Equal(t, OwnerFree, v.Owner)

	s.Step(Intent{ToggleVehicle: true})
	require.True(t, s.player.InVehicle)
	assert.Equal(t, 1, s.Wanted().Level)
	assert.Equal(t, 1, s.Wanted().Tally[CrimeCarTheft])
	assert.Equal(t, 2, *entered)
	assert.Equal(t, 1, *exited)
}

func TestToggleVehicle_NothingInRange(t *testing.T) {
	s := newTestSim(t)
	placeVehicle(s, s.player.X+200, s.player.Y)

	s.Step(Intent{ToggleVehicle: true})

	assert.False(t, s.player.InVehicle)
	assert.Equal(t, 0, s.Wanted().Level)
}

func TestToggleVehicle_PicksNearest(t *testing.T) {
	s := newTestSim(t, noPolice)
	placeVehicle(s, s.player.X-55, s.player.Y)
	near := placeVehicle(s, s.player.X, s.player.Y+35)

	s.Step(Intent{ToggleVehicle: true})

	assert.Equal(t, near.ID, s.player.VehicleID)
}

func TestExitVehicle_LandsBesideHeading(t *testing.T) {
	s := newTestSim(t, noPolice)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.enterVehicle(v)

	s.exitVehicle()

	assert.InDelta(t, v.X, s.player.X, 1e-9)
	assert.InDelta(t, v.Y+s.T.Player.ExitDistance, s.player.Y, 1e-9)
}

func TestExitVehicle_RetriesOffRoad(t *testing.T) {
	s := newTestSim(t, noPolice)
	// parked beside the horizontal primary road above the median, facing
	// west so the default side exit (heading + pi/2) points up into it
	v := placeVehicle(s, 400, 775)
	v.Rotation = math.Pi
	s.player.X, s.player.Y = 400, 800
	s.enterVehicle(v)

	s.exitVehicle()

	cs := s.T.Player.ExitCheckSize
	assert.False(t, s.occ.RectOnRoad(RectAround(s.player.X, s.player.Y, cs, cs)))
}

func TestWalk_AxisAndDiagonal(t *testing.T) {
	s := newTestSim(t)
	x0, y0 := s.player.X, s.player.Y

	s.Step(Intent{MoveX: 1})
	assert.InDelta(t, x0+s.T.Player.Speed*s.T.TickSeconds, s.player.X, 1e-9)
	assert.Equal(t, y0, s.player.Y)

	x1 := s.player.X
	s.Step(Intent{MoveX: 1, MoveY: 1})
	step := s.T.Player.Speed * 0.707 * s.T.TickSeconds
	assert.InDelta(t, x1+step, s.player.X, 1e-9)
	assert.InDelta(t, y0+step, s.player.Y, 1e-9)
}

func TestWalk_BlockedByBuilding(t *testing.T) {
	s := newTestSim(t)
	fp := NewRect(s.player.X+15, s.player.Y-20, 40, 40)
	s.occ.AddBuilding(fp)

	stepN(s, 30, Intent{MoveX: 1})

	assert.False(t, s.player.Bounds().Intersects(fp))
	assert.Less(t, s.player.X, fp.X0)
}

func TestPlayer_AddMoneyFloorsAtZero(t *testing.T) {
	p := Player{Money: 100}

	p.AddMoney(-250)
	assert.Equal(t, 0, p.Money)

	p.AddMoney(40)
	assert.Equal(t, 40, p.Money)
}

func TestDriving_PlayerFollowsVehicle(t *testing.T) {
	s := newTestSim(t, noPolice)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.Step(Intent{ToggleVehicle: true})

	stepN(s, 30, Intent{MoveY: -1})

	assert.Greater(t, v.X, s.T.World.SpawnX+40)
	assert.Equal(t, v.X, s.player.X)
	assert.Equal(t, v.Y, s.player.Y)
}

func TestDespawn_DrivenVehicleLeavesPlayerOnFoot(t *testing.T) {
	s := newTestSim(t, noPolice)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.enterVehicle(v)

	s.despawn(v.ID)

	assert.False(t, s.player.InVehicle)
	assert.Nil(t, s.currentVehicle())
	assert.Nil(t, s.reg.Vehicle(v.ID))
}
