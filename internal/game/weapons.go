package game

import "math"

type Weapon struct {
	WeaponSpec
	Ammo int
}

// Arsenal holds the player's weapons. The fire-interval gate is shared, so
// switching weapons does not reset it.
type Arsenal struct {
	Weapons  []Weapon
	Current  int
	nextShot uint64

	held   bool
	aim    Point
	hasAim bool
}

func NewArsenal(specs []WeaponSpec) *Arsenal {
	a := &Arsenal{Weapons: make([]Weapon, len(specs))}
	for i, sp := range specs {
		a.Weapons[i] = Weapon{WeaponSpec: sp, Ammo: sp.MaxAmmo}
	}
	return a
}

func (a *Arsenal) Weapon() *Weapon {
	if a.Current < 0 || a.Current >= len(a.Weapons) {
		return nil
	}
	return &a.Weapons[a.Current]
}

func (a *Arsenal) Cycle() {
	if len(a.Weapons) == 0 {
		return
	}
	a.Current = (a.Current + 1) % len(a.Weapons)
}

// Select ignores out-of-range indices.
func (a *Arsenal) Select(i int) {
	if i >= 0 && i < len(a.Weapons) {
		a.Current = i
	}
}

func (a *Arsenal) Refill() {
	for i := range a.Weapons {
		a.Weapons[i].Ammo = a.Weapons[i].MaxAmmo
	}
}

// fire shoots the current weapon from the player toward (tx,ty).
func (s *Simulation) fire(tx, ty float64) bool {
	p := &s.player
	return s.shoot(angleTo(p.X, p.Y, tx, ty))
}

func (s *Simulation) fireForward() bool {
	return s.shoot(s.player.Rotation)
}

// autoFire keeps a held automatic weapon going at the last aim point, or
// forward when the press was not aimed.
func (s *Simulation) autoFire() {
	w := s.arsenal.Weapon()
	if w == nil || !w.Automatic {
		return
	}
	if s.arsenal.hasAim {
		s.fire(s.arsenal.aim.X, s.arsenal.aim.Y)
		return
	}
	s.fireForward()
}

func (s *Simulation) shoot(angle float64) bool {
	a := s.arsenal
	w := a.Weapon()
	if w == nil || w.Ammo <= 0 || s.tick < a.nextShot {
		return false
	}
	w.Ammo--
	a.nextShot = s.tick + s.sched.Ticks(w.FireSeconds)

	p := &s.player
	pt := &s.T.Projectile
	ttl := s.sched.Ticks(pt.TTLSeconds)
	for i := 0; i < max(1, w.Pellets); i++ {
		ang := angle + (s.rng.Float64()-0.5)*w.Spread
		id := s.reg.AddProjectile(&Projectile{
			X:         p.X,
			Y:         p.Y,
			Angle:     ang,
			Speed:     pt.Speed,
			Damage:    w.Damage,
			Size:      pt.Size,
			ExpiresAt: s.tick + ttl,
		})
		s.sched.After(pt.TTLSeconds, s.expireProjectile(id))
	}

	flashTTL := s.sched.Ticks(pt.MuzzleFlashSeconds)
	s.reg.AddFlash(MuzzleFlash{X: p.X, Y: p.Y, Angle: angle, ExpiresAt: s.tick + flashTTL})
	s.sched.After(pt.MuzzleFlashSeconds, func() { s.reg.ExpireFlashes(s.tick) })

	if s.rng.Chance(s.T.Crime.GunfireChance) {
		s.IncreaseCrime(CrimeGunfire)
	}
	return true
}

// expireProjectile is the one-shot TTL; a projectile that already hit
// something is gone and the call is a no-op.
func (s *Simulation) expireProjectile(id EntityID) func() {
	return func() {
		if pr := s.reg.Projectile(id); pr != nil && pr.Active {
			s.reg.Despawn(id)
		}
	}
}

// moveProjectiles advances every live round; anything that leaves the world
// is dropped.
func (s *Simulation) moveProjectiles() {
	dt := s.T.TickSeconds
	b := s.occ.Bounds()
	s.projScratch = append(s.projScratch[:0], s.reg.Projectiles()...)
	for _, pr := range s.projScratch {
		if !pr.Active {
			continue
		}
		pr.X += math.Cos(pr.Angle) * pr.Speed * dt
		pr.Y += math.Sin(pr.Angle) * pr.Speed * dt
		if !b.ContainsPoint(pr.X, pr.Y) {
			s.reg.Despawn(pr.ID)
		}
	}
}
