package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(t *Tunables) {
	t.Crime.GunfireChance = 0
	t.Crime.HitPedestrianChance = 0
}

func TestShoot_FireIntervalGate(t *testing.T) {
	s := newTestSim(t, quiet)

	s.Step(Intent{FireForward: true})
	s.Step(Intent{FireForward: true})

	assert.Equal(t, 49, s.arsenal.Weapon().Ammo)
	assert.Len(t, s.reg.Projectiles(), 1)
	assert.Len(t, s.reg.Flashes(), 1)

	stepN(s, int(s.sched.Ticks(s.arsenal.Weapon().FireSeconds)), Intent{})
	s.Step(Intent{FireForward: true})
	assert.Equal(t, 48, s.arsenal.Weapon().Ammo)
}

func TestShoot_ShotgunPellets(t *testing.T) {
	s := newTestSim(t, quiet)

	s.Step(Intent{SelectWeapon: 3, FireForward: true})

	w := s.arsenal.Weapon()
	assert.Equal(t, "Shotgun", w.Name)
	assert.Equal(t, 19, w.Ammo)
	assert.Len(t, s.reg.Projectiles(), 5)
}

func TestShoot_EmptyMagazine(t *testing.T) {
	s := newTestSim(t, quiet)
	s.arsenal.Weapon().Ammo = 0

	s.Step(Intent{FireForward: true})

	assert.Empty(t, s.reg.Projectiles())
}

func TestShoot_OnFootOnly(t *testing.T) {
	s := newTestSim(t, quiet)
	v := placeVehicle(s, s.player.X+40, s.player.Y)
	s.enterVehicle(v)

	s.Step(Intent{FireForward: true})

	assert.Empty(t, s.reg.Projectiles())
	assert.Equal(t, 50, s.arsenal.Weapon().Ammo)
}

func TestShoot_AutomaticHeld(t *testing.T) {
	s := newTestSim(t, quiet)
	s.Step(Intent{SelectWeapon: 2})

	target := &Point{X: s.player.X, Y: s.player.Y - 300}
	s.Step(Intent{FireAt: target, FireHeld: true})
	stepN(s, 59, Intent{FireHeld: true})

	// 1s of hold at a 0.12s interval
	shots := 100 - s.arsenal.Weapon().Ammo
	assert.GreaterOrEqual(t, shots, 8)
	assert.LessOrEqual(t, shots, 9)
}

func TestShoot_HeldWithoutPressDoesNothing(t *testing.T) {
	s := newTestSim(t, quiet)
	s.Step(Intent{SelectWeapon: 2})

	stepN(s, 30, Intent{FireHeld: true})

	assert.Equal(t, 100, s.arsenal.Weapon().Ammo)
}

func TestSwitchWeapon_Cycles(t *testing.T) {
	s := newTestSim(t)

	s.Step(Intent{SwitchWeapon: true})
	assert.Equal(t, "SMG", s.arsenal.Weapon().Name)
	s.Step(Intent{SwitchWeapon: true})
	s.Step(Intent{SwitchWeapon: true})
	assert.Equal(t, "Pistol", s.arsenal.Weapon().Name)

	s.Step(Intent{SelectWeapon: 9})
	assert.Equal(t, "Pistol", s.arsenal.Weapon().Name)
}

func TestProjectile_ExpiresAfterTTL(t *testing.T) {
	s := newTestSim(t, quiet, func(t *Tunables) { t.Projectile.Speed = 10 })
	ttl := int(s.sched.Ticks(s.T.Projectile.TTLSeconds))

	s.Step(Intent{FireForward: true})
	stepN(s, ttl-1, Intent{})
	assert.Len(t, s.reg.Projectiles(), 1)

	s.Step(Intent{})
	assert.Empty(t, s.reg.Projectiles())
	assert.Empty(t, s.reg.Flashes())
}

func TestProjectile_LeavesWorld(t *testing.T) {
	s := newTestSim(t, quiet)
	s.player.X = s.T.World.Width - 5

	s.Step(Intent{FireForward: true})
	s.Step(Intent{})

	assert.Empty(t, s.reg.Projectiles())
}

func TestProjectile_KillsPedestrian(t *testing.T) {
	s := newTestSim(t, quiet)
	p := placePedestrian(s, s.player.X+40, s.player.Y)

	s.Step(Intent{FireForward: true})
	for i := 0; i < 10 && len(s.reg.Projectiles()) > 0; i++ {
		s.Step(Intent{})
	}

	assert.False(t, p.Active)
	assert.Empty(t, s.reg.Projectiles())
	assert.Equal(t, s.T.Damage.ShotReward, s.player.Money)
}

func TestProjectile_StoppedByBuilding(t *testing.T) {
	s := newTestSim(t, quiet)
	s.occ.AddBuilding(NewRect(s.player.X+30, s.player.Y-20, 20, 40))
	p := placePedestrian(s, s.player.X+80, s.player.Y)

	s.Step(Intent{FireForward: true})
	stepN(s, 10, Intent{})

	assert.True(t, p.Active)
	assert.Empty(t, s.reg.Projectiles())
}

func TestProjectile_PoliceHitCountsTwice(t *testing.T) {
	s := newTestSim(t, quiet, noPolice)
	cop := placePolice(s, s.player.X+80, s.player.Y)
	require.InDelta(t, 0, cop.Bounds().H()-cop.H, 1e-9)

	s.Step(Intent{FireForward: true})
	for i := 0; i < 10 && len(s.reg.Projectiles()) > 0; i++ {
		s.Step(Intent{})
	}

	assert.Equal(t, 2, s.Wanted().Tally[CrimeShotPolice])
	assert.Equal(t, 2, s.Wanted().Level)
	assert.Equal(t, s.T.Police.Health-25, cop.HP.Current)
}

func TestProjectile_PropertyDamage(t *testing.T) {
	s := newTestSim(t, quiet)
	car := placeVehicle(s, s.player.X+80, s.player.Y)

	s.Step(Intent{FireForward: true})
	for i := 0; i < 10 && len(s.reg.Projectiles()) > 0; i++ {
		s.Step(Intent{})
	}

	assert.Equal(t, 1, s.Wanted().Tally[CrimePropertyDamage])
	assert.Equal(t, 1, s.Wanted().Level)
	assert.Equal(t, 75.0, car.HP.Current)
}
