package game

import (
	"math"
	"slices"
)

type EntityID uint32

type EntityKind uint8

const (
	KindVehicle EntityKind = iota
	KindPolice
	KindPedestrian
	KindProjectile
)

func (k EntityKind) String() string {
	switch k {
	case KindVehicle:
		return "vehicle"
	case KindPolice:
		return "police"
	case KindPedestrian:
		return "pedestrian"
	case KindProjectile:
		return "projectile"
	}
	return "unknown"
}

// Ownership is the driveable state of a vehicle. A vehicle is in exactly one.
type Ownership uint8

const (
	OwnerFree Ownership = iota
	OwnerPlayer
	OwnerDestroyed
)

type Driver uint8

const (
	DriverNone Driver = iota
	DriverPlayer
)

type PoliceState uint8

const (
	PoliceIdle PoliceState = iota
	PolicePursuing
	PoliceRamming
)

func (s PoliceState) String() string {
	switch s {
	case PolicePursuing:
		return "pursuing"
	case PoliceRamming:
		return "ramming"
	}
	return "idle"
}

type Vehicle struct {
	ID       EntityID
	Type     string
	X, Y     float64
	Rotation float64
	VX, VY   float64
	// Throttle acceleration applied this tick, along the heading.
	Accel float64
	// Body extent along and across the heading.
	W, H float64

	MaxSpeed     float64
	Acceleration float64
	HP           Health

	Owner      Ownership
	LastDriver Driver

	Police         bool
	ChaseIntensity int
	PoliceState    PoliceState

	CollisionCooldown bool
	CooldownUntil     uint64

	Smoking   bool
	Exploding bool
	Active    bool
}

func (v *Vehicle) Speed() float64 {
	return math.Hypot(v.VX, v.VY)
}

func (v *Vehicle) IsPlayerVehicle() bool {
	return v.Owner == OwnerPlayer
}

// Bounds is the axis-aligned body, swapping extents when the heading is
// closer to vertical.
func (v *Vehicle) Bounds() RectF {
	if math.Abs(math.Cos(v.Rotation)) >= math.Abs(math.Sin(v.Rotation)) {
		return RectAround(v.X, v.Y, v.W, v.H)
	}
	return RectAround(v.X, v.Y, v.H, v.W)
}

type PedState uint8

const (
	PedWandering PedState = iota
	PedPanicking
)

func (s PedState) String() string {
	if s == PedPanicking {
		return "panicking"
	}
	return "wandering"
}

type Pedestrian struct {
	ID        EntityID
	X, Y      float64
	VX, VY    float64
	Size      float64
	WalkDir   float64
	WalkSpeed float64
	State     PedState
	// Seconds left in panic, and accumulated since the last direction change.
	PanicTimer float64
	DirTimer   float64
	Active     bool
}

func (p *Pedestrian) Bounds() RectF {
	return RectAround(p.X, p.Y, p.Size, p.Size)
}

type Projectile struct {
	ID        EntityID
	X, Y      float64
	Angle     float64
	Speed     float64
	Damage    float64
	Size      float64
	ExpiresAt uint64
	Active    bool
}

func (p *Projectile) Bounds() RectF {
	return RectAround(p.X, p.Y, p.Size, p.Size)
}

type MuzzleFlash struct {
	X, Y      float64
	Angle     float64
	ExpiresAt uint64
}

// Registry owns every dynamic entity. Collections are ordered by spawn so
// iteration is deterministic; the id maps give O(1) lookup. Police units are
// listed both as vehicles and as police.
type Registry struct {
	nextID EntityID

	vehicles    []*Vehicle
	police      []*Vehicle
	pedestrians []*Pedestrian
	projectiles []*Projectile
	flashes     []MuzzleFlash

	vehicleByID    map[EntityID]*Vehicle
	pedestrianByID map[EntityID]*Pedestrian
	projectileByID map[EntityID]*Projectile
}

func NewRegistry() *Registry {
	return &Registry{
		nextID:         1,
		vehicleByID:    make(map[EntityID]*Vehicle),
		pedestrianByID: make(map[EntityID]*Pedestrian),
		projectileByID: make(map[EntityID]*Projectile),
	}
}

func (r *Registry) allocID() EntityID {
	id := r.nextID
	r.nextID++
	return id
}

func (r *Registry) AddVehicle(v *Vehicle) EntityID {
	v.ID = r.allocID()
	v.Active = true
	r.vehicles = append(r.vehicles, v)
	if v.Police {
		r.police = append(r.police, v)
	}
	r.vehicleByID[v.ID] = v
	return v.ID
}

func (r *Registry) AddPedestrian(p *Pedestrian) EntityID {
	p.ID = r.allocID()
	p.Active = true
	r.pedestrians = append(r.pedestrians, p)
	r.pedestrianByID[p.ID] = p
	return p.ID
}

func (r *Registry) AddProjectile(p *Projectile) EntityID {
	p.ID = r.allocID()
	p.Active = true
	r.projectiles = append(r.projectiles, p)
	r.projectileByID[p.ID] = p
	return p.ID
}

func (r *Registry) AddFlash(f MuzzleFlash) {
	r.flashes = append(r.flashes, f)
}

// Despawn removes id from every collection. Unknown or already removed ids
// are a no-op and report false.
func (r *Registry) Despawn(id EntityID) bool {
	if v, ok := r.vehicleByID[id]; ok {
		v.Active = false
		v.Owner = OwnerDestroyed
		delete(r.vehicleByID, id)
		r.vehicles = removeEntity(r.vehicles, v)
		if v.Police {
			r.police = removeEntity(r.police, v)
		}
		return true
	}
	if p, ok := r.pedestrianByID[id]; ok {
		p.Active = false
		delete(r.pedestrianByID, id)
		r.pedestrians = removeEntity(r.pedestrians, p)
		return true
	}
	if p, ok := r.projectileByID[id]; ok {
		p.Active = false
		delete(r.projectileByID, id)
		r.projectiles = removeEntity(r.projectiles, p)
		return true
	}
	return false
}

func removeEntity[T comparable](s []T, e T) []T {
	if i := slices.Index(s, e); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

// Kind reports the kind of a live entity.
func (r *Registry) Kind(id EntityID) (EntityKind, bool) {
	if v, ok := r.vehicleByID[id]; ok {
		if v.Police {
			return KindPolice, true
		}
		return KindVehicle, true
	}
	if _, ok := r.pedestrianByID[id]; ok {
		return KindPedestrian, true
	}
	if _, ok := r.projectileByID[id]; ok {
		return KindProjectile, true
	}
	return 0, false
}

// Views. The returned slices are owned by the registry; do not retain them
// across a spawn or despawn.
func (r *Registry) Vehicles() []*Vehicle       { return r.vehicles }
func (r *Registry) Police() []*Vehicle         { return r.police }
func (r *Registry) Pedestrians() []*Pedestrian { return r.pedestrians }
func (r *Registry) Projectiles() []*Projectile { return r.projectiles }
func (r *Registry) Flashes() []MuzzleFlash     { return r.flashes }

func (r *Registry) Vehicle(id EntityID) *Vehicle       { return r.vehicleByID[id] }
func (r *Registry) Pedestrian(id EntityID) *Pedestrian { return r.pedestrianByID[id] }
func (r *Registry) Projectile(id EntityID) *Projectile { return r.projectileByID[id] }

// ActivePolice counts units under police control. A unit the player has
// stolen is not one of them.
func (r *Registry) ActivePolice() int {
	n := 0
	for _, p := range r.police {
		if p.Active && !p.IsPlayerVehicle() {
			n++
		}
	}
	return n
}

// LastPolice returns the most recently spawned unit under police control,
// or nil.
func (r *Registry) LastPolice() *Vehicle {
	for i := len(r.police) - 1; i >= 0; i-- {
		if p := r.police[i]; p.Active && !p.IsPlayerVehicle() {
			return p
		}
	}
	return nil
}

// ExpireFlashes drops muzzle flashes whose deadline has passed.
func (r *Registry) ExpireFlashes(now uint64) {
	r.flashes = slices.DeleteFunc(r.flashes, func(f MuzzleFlash) bool {
		return f.ExpiresAt <= now
	})
}
