package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDamagePlayer_WastedExactlyOnce(t *testing.T) {
	s := newTestSim(t)
	wasted := countEvents(s, EventPlayerWasted)

	s.DamagePlayer(30)
	assert.Equal(t, 70.0, s.player.HP.Current)
	assert.Equal(t, PhasePlaying, s.Phase())

	s.DamagePlayer(150)
	assert.Equal(t, 0.0, s.player.HP.Current)
	assert.Equal(t, PhaseWasted, s.Phase())

	s.DamagePlayer(10)
	s.DamagePlayer(10)
	assert.Equal(t, 1, *wasted)
	assert.Equal(t, 4, s.sched.Len(), "one respawn queued beside the recurring timers")
}

func TestRespawn_ResetsAfterDelay(t *testing.T) {
	s := newTestSim(t, noPolice)
	respawned := countEvents(s, EventPlayerRespawned)

	s.player.Money = 800
	for range 3 {
		s.IncreaseCrime(CrimeGunfire)
	}
	placePolice(s, 100, 100)
	placePolice(s, 1800, 100)
	s.arsenal.Weapons[0].Ammo = 3
	s.arsenal.Select(2)
	s.player.X, s.player.Y = 300, 300

	s.DamagePlayer(100)
	require.Equal(t, PhaseWasted, s.Phase())

	delay := int(s.sched.Ticks(s.T.Player.RespawnDelaySeconds))
	stepN(s, delay-1, Intent{})
	assert.Equal(t, PhaseWasted, s.Phase())
	assert.Equal(t, 0, *respawned)

	s.Step(Intent{})
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 1, *respawned)
	assert.Equal(t, s.T.World.SpawnX, s.player.X)
	assert.Equal(t, s.T.World.SpawnY, s.player.Y)
	assert.Equal(t, 100.0, s.player.HP.Current)
	assert.Equal(t, 300, s.player.Money)
	assert.Equal(t, 0, s.Wanted().Level)
	assert.Equal(t, 0, s.reg.ActivePolice())
	assert.Equal(t, 0, s.arsenal.Current)
	for _, w := range s.arsenal.Weapons {
		assert.Equal(t, w.MaxAmmo, w.Ammo, w.Name)
	}
}

func TestRespawn_FineFloorsAtZero(t *testing.T) {
	s := newTestSim(t)
	s.player.Money = 120

	s.DamagePlayer(100)
	stepN(s, int(s.sched.Ticks(s.T.Player.RespawnDelaySeconds)), Intent{})

	assert.Equal(t, 0, s.player.Money)
}

func TestRespawn_LeavesVehicle(t *testing.T) {
	s := newTestSim(t, noPolice)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.enterVehicle(v)

	s.DamagePlayer(100)
	assert.True(t, s.player.InVehicle)

	stepN(s, int(s.sched.Ticks(s.T.Player.RespawnDelaySeconds)), Intent{})

	assert.False(t, s.player.InVehicle)
	assert.Equal(t, OwnerFree, v.Owner)
	assert.Equal(t, s.T.World.SpawnX, s.player.X)
}

func TestWasted_IgnoresIntents(t *testing.T) {
	s := newTestSim(t)
	v := placeVehicle(s, s.player.X+40, s.player.Y)

	s.DamagePlayer(100)
	s.Step(Intent{ToggleVehicle: true, FireForward: true})

	assert.False(t, s.player.InVehicle)
	assert.Equal(t, OwnerFree, v.Owner)
	assert.Empty(t, s.reg.Projectiles())
	assert.Equal(t, 0, s.Wanted().Level)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "playing", PhasePlaying.String())
	assert.Equal(t, "wasted", PhaseWasted.String())
}
