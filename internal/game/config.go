package game

import (
	"errors"
	"fmt"
)

// Spatial index.
const (
	QuadCapacity = 16
	QuadMaxDepth = 8
)

// Wanted level bounds.
const (
	WantedMin = 0
	WantedMax = 5
)

// Fixed step used when TickSeconds is left at zero.
const DefaultTickSeconds = 1.0 / 60.0

// Mission kinds accepted in MissionSpec.Kind.
const (
	MissionKindReach      = "reach"
	MissionKindLoseWanted = "loseWanted"
)

// Tunables holds every numeric knob of the simulation. The zero value is not
// usable; start from DefaultTunables and override.
type Tunables struct {
	TickSeconds float64            `mapstructure:"tickSeconds"`
	World       WorldTunables      `mapstructure:"world"`
	Spawn       SpawnTunables      `mapstructure:"spawn"`
	Player      PlayerTunables     `mapstructure:"player"`
	Driving     DrivingTunables    `mapstructure:"driving"`
	Pedestrian  PedestrianTunables `mapstructure:"pedestrian"`
	Police      PoliceTunables     `mapstructure:"police"`
	Crime       CrimeTunables      `mapstructure:"crime"`
	Damage      DamageTunables     `mapstructure:"damage"`
	Projectile  ProjectileTunables `mapstructure:"projectile"`
	Weapons     []WeaponSpec       `mapstructure:"weapons"`
	Missions    []MissionSpec      `mapstructure:"missions"`
}

type WorldTunables struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`

	PrimaryRoadWidth   float64 `mapstructure:"primaryRoadWidth"`
	MedianWidth        float64 `mapstructure:"medianWidth"`
	SecondaryRoadWidth float64 `mapstructure:"secondaryRoadWidth"`
	SecondaryStart     float64 `mapstructure:"secondaryStart"`
	SecondarySpacing   float64 `mapstructure:"secondarySpacing"`
	SecondaryGuard     float64 `mapstructure:"secondaryGuard"`

	MedianStep    float64  `mapstructure:"medianStep"`
	MedianPalette []string `mapstructure:"medianPalette"`

	Districts    []DistrictSpec `mapstructure:"districts"`
	BlockSize    float64        `mapstructure:"blockSize"`
	BlockSpacing float64        `mapstructure:"blockSpacing"`
	// Perlin modulation of district density: amplitude (0 disables) and the
	// world distance covered by one noise unit.
	DensityNoise      float64 `mapstructure:"densityNoise"`
	DensityNoiseScale float64 `mapstructure:"densityNoiseScale"`

	MinBuildingDistance float64        `mapstructure:"minBuildingDistance"`
	BuildingCheckSize   float64        `mapstructure:"buildingCheckSize"`
	BuildingCheckMargin float64        `mapstructure:"buildingCheckMargin"`
	BuildingTypes       []BuildingSpec `mapstructure:"buildingTypes"`

	// Side of a cell in the road/intersection bucket grid.
	CellSize float64 `mapstructure:"cellSize"`

	SpawnX float64 `mapstructure:"spawnX"`
	SpawnY float64 `mapstructure:"spawnY"`
	// Half-extent of the square around the spawn point kept free of buildings.
	SpawnClearance float64 `mapstructure:"spawnClearance"`
}

type DistrictSpec struct {
	Name    string   `mapstructure:"name"`
	X       float64  `mapstructure:"x"`
	Y       float64  `mapstructure:"y"`
	W       float64  `mapstructure:"w"`
	H       float64  `mapstructure:"h"`
	Palette []string `mapstructure:"palette"`
	Density float64  `mapstructure:"density"`
}

type BuildingSpec struct {
	Type string  `mapstructure:"type"`
	W    float64 `mapstructure:"w"`
	H    float64 `mapstructure:"h"`
}

type SpawnTunables struct {
	VehicleCount           int     `mapstructure:"vehicleCount"`
	VehicleMargin          float64 `mapstructure:"vehicleMargin"`
	VehiclePlayerExclusion float64 `mapstructure:"vehiclePlayerExclusion"`
	VehicleCheckW          float64 `mapstructure:"vehicleCheckW"`
	VehicleCheckH          float64 `mapstructure:"vehicleCheckH"`
	VehicleAttempts        int     `mapstructure:"vehicleAttempts"`

	PedestrianCount           int     `mapstructure:"pedestrianCount"`
	PedestrianMinSeparation   float64 `mapstructure:"pedestrianMinSeparation"`
	PedestrianPlayerExclusion float64 `mapstructure:"pedestrianPlayerExclusion"`
	PedestrianAttempts        int     `mapstructure:"pedestrianAttempts"`
}

type PlayerTunables struct {
	Speed  float64 `mapstructure:"speed"`
	Health float64 `mapstructure:"health"`
	Size   float64 `mapstructure:"size"`
	Money  int     `mapstructure:"money"`

	// Linear drag on knockback velocity from being hit.
	KnockbackDrag float64 `mapstructure:"knockbackDrag"`

	EnterRadius   float64 `mapstructure:"enterRadius"`
	ExitDistance  float64 `mapstructure:"exitDistance"`
	ExitAttempts  int     `mapstructure:"exitAttempts"`
	ExitCheckSize float64 `mapstructure:"exitCheckSize"`

	RespawnDelaySeconds float64 `mapstructure:"respawnDelaySeconds"`
	DeathFine           int     `mapstructure:"deathFine"`
}

type VehicleSpec struct {
	Type         string  `mapstructure:"type"`
	MaxSpeed     float64 `mapstructure:"maxSpeed"`
	Acceleration float64 `mapstructure:"acceleration"`
	Health       float64 `mapstructure:"health"`
	// Body size along (W) and across (H) the heading.
	W float64 `mapstructure:"w"`
	H float64 `mapstructure:"h"`
}

type DrivingTunables struct {
	Vehicles      []VehicleSpec `mapstructure:"vehicles"`
	VehicleDrag   float64       `mapstructure:"vehicleDrag"`
	HandbrakeDrag float64       `mapstructure:"handbrakeDrag"`
	ReverseFactor float64       `mapstructure:"reverseFactor"`
	MinTurnSpeed  float64       `mapstructure:"minTurnSpeed"`
	TurnRate      float64       `mapstructure:"turnRate"`
	TurnScale     float64       `mapstructure:"turnScale"`

	CollisionCooldownSeconds float64 `mapstructure:"collisionCooldownSeconds"`
}

type PedestrianTunables struct {
	WalkSpeedMin           float64 `mapstructure:"walkSpeedMin"`
	WalkSpeedMax           float64 `mapstructure:"walkSpeedMax"`
	Size                   float64 `mapstructure:"size"`
	ThinkSeconds           float64 `mapstructure:"thinkSeconds"`
	DirectionChangeSeconds float64 `mapstructure:"directionChangeSeconds"`
	ProjectionSeconds      float64 `mapstructure:"projectionSeconds"`
	EdgeMargin             float64 `mapstructure:"edgeMargin"`

	PanicRadius  float64 `mapstructure:"panicRadius"`
	PanicSeconds float64 `mapstructure:"panicSeconds"`
	PanicSpeed   float64 `mapstructure:"panicSpeed"`
}

type PoliceTunables struct {
	Type           string  `mapstructure:"type"`
	SpawnSeconds   float64 `mapstructure:"spawnSeconds"`
	MinWanted      int     `mapstructure:"minWanted"`
	SpawnAttempts  int     `mapstructure:"spawnAttempts"`
	Health         float64 `mapstructure:"health"`
	MaxSpeed       float64 `mapstructure:"maxSpeed"`
	ChaseSpeed     float64 `mapstructure:"chaseSpeed"`
	IntensityBonus float64 `mapstructure:"intensityBonus"`
	CloseRange     float64 `mapstructure:"closeRange"`
	RamSpeed       float64 `mapstructure:"ramSpeed"`
}

type CrimeTunables struct {
	DecayCheckSeconds   float64 `mapstructure:"decayCheckSeconds"`
	CooldownSeconds     float64 `mapstructure:"cooldownSeconds"`
	GunfireChance       float64 `mapstructure:"gunfireChance"`
	HitPedestrianChance float64 `mapstructure:"hitPedestrianChance"`
	RunOverChance       float64 `mapstructure:"runOverChance"`
	RamPoliceChance     float64 `mapstructure:"ramPoliceChance"`
}

type DamageTunables struct {
	SmokeThreshold     float64 `mapstructure:"smokeThreshold"`
	BuildingBumpDamage float64 `mapstructure:"buildingBumpDamage"`

	CrashSpeed     float64 `mapstructure:"crashSpeed"`
	CrashDivisor   float64 `mapstructure:"crashDivisor"`
	CrashMaxDamage float64 `mapstructure:"crashMaxDamage"`

	BounceFactor          float64 `mapstructure:"bounceFactor"`
	BounceMax             float64 `mapstructure:"bounceMax"`
	RamDamageSpeed        float64 `mapstructure:"ramDamageSpeed"`
	RamDamageDivisor      float64 `mapstructure:"ramDamageDivisor"`
	RamPlayerDivisor      float64 `mapstructure:"ramPlayerDivisor"`
	FootHitSpeed          float64 `mapstructure:"footHitSpeed"`
	FootHitDivisor        float64 `mapstructure:"footHitDivisor"`
	FootPush              float64 `mapstructure:"footPush"`
	PedestrianPush        float64 `mapstructure:"pedestrianPush"`
	VehiclePedestrianPush float64 `mapstructure:"vehiclePedestrianPush"`
	RunOverSpeed          float64 `mapstructure:"runOverSpeed"`

	RunOverReward int `mapstructure:"runOverReward"`
	ShotReward    int `mapstructure:"shotReward"`

	ExplosionRadius        float64 `mapstructure:"explosionRadius"`
	ExplosionVehicleDamage float64 `mapstructure:"explosionVehicleDamage"`
	DriverExplosionDamage  float64 `mapstructure:"driverExplosionDamage"`
}

type ProjectileTunables struct {
	Speed              float64 `mapstructure:"speed"`
	TTLSeconds         float64 `mapstructure:"ttlSeconds"`
	Size               float64 `mapstructure:"size"`
	MuzzleFlashSeconds float64 `mapstructure:"muzzleFlashSeconds"`
}

type WeaponSpec struct {
	Name        string  `mapstructure:"name"`
	Damage      float64 `mapstructure:"damage"`
	MaxAmmo     int     `mapstructure:"maxAmmo"`
	FireSeconds float64 `mapstructure:"fireSeconds"`
	Spread      float64 `mapstructure:"spread"`
	Pellets     int     `mapstructure:"pellets"`
	Automatic   bool    `mapstructure:"automatic"`
}

type MissionSpec struct {
	ID              int     `mapstructure:"id"`
	Name            string  `mapstructure:"name"`
	Description     string  `mapstructure:"description"`
	Kind            string  `mapstructure:"kind"`
	TargetX         float64 `mapstructure:"targetX"`
	TargetY         float64 `mapstructure:"targetY"`
	Radius          float64 `mapstructure:"radius"`
	WantedThreshold int     `mapstructure:"wantedThreshold"`
	Reward          int     `mapstructure:"reward"`
}

// DefaultTunables returns the reference city: a 1920x1920 world with a
// primary cross, four residential corners and two commercial strips.
func DefaultTunables() Tunables {
	const w, h = 1920.0, 1920.0
	return Tunables{
		TickSeconds: DefaultTickSeconds,
		World: WorldTunables{
			Width:  w,
			Height: h,

			PrimaryRoadWidth:   40,
			MedianWidth:        400,
			SecondaryRoadWidth: 35,
			SecondaryStart:     300,
			SecondarySpacing:   450,
			SecondaryGuard:     300,

			MedianStep:    75,
			MedianPalette: []string{"office", "commercial", "apartment"},

			Districts: []DistrictSpec{
				{Name: "residential-nw", X: 50, Y: 50, W: 400, H: 400, Palette: []string{"residential", "house"}, Density: 1},
				{Name: "residential-ne", X: w - 450, Y: 50, W: 400, H: 400, Palette: []string{"residential", "house"}, Density: 1},
				{Name: "residential-sw", X: 50, Y: h - 450, W: 400, H: 400, Palette: []string{"residential", "house"}, Density: 1},
				{Name: "residential-se", X: w - 450, Y: h - 450, W: 400, H: 400, Palette: []string{"residential", "house"}, Density: 1},
				{Name: "commercial-w", X: 100, Y: h/2 - 150, W: 300, H: 300, Palette: []string{"commercial"}, Density: 1},
				{Name: "commercial-e", X: w - 400, Y: h/2 - 150, W: 300, H: 300, Palette: []string{"commercial"}, Density: 1},
			},
			BlockSize:    80,
			BlockSpacing: 5,

			DensityNoise:      0.35,
			DensityNoiseScale: 400,

			MinBuildingDistance: 150,
			BuildingCheckSize:   100,
			BuildingCheckMargin: 25,
			BuildingTypes: []BuildingSpec{
				{Type: "office", W: 32, H: 86},
				{Type: "apartment", W: 32, H: 86},
				{Type: "commercial", W: 86, H: 40},
				{Type: "residential", W: 40, H: 40},
				{Type: "house", W: 40, H: 40},
			},

			CellSize: 120,

			SpawnX:         w / 2,
			SpawnY:         h / 2,
			SpawnClearance: 80,
		},
		Spawn: SpawnTunables{
			VehicleCount:           15,
			VehicleMargin:          100,
			VehiclePlayerExclusion: 200,
			VehicleCheckW:          60,
			VehicleCheckH:          30,
			VehicleAttempts:        100,

			PedestrianCount:           80,
			PedestrianMinSeparation:   30,
			PedestrianPlayerExclusion: 300,
			PedestrianAttempts:        20,
		},
		Player: PlayerTunables{
			Speed:         180,
			Health:        100,
			Size:          20,
			KnockbackDrag: 400,

			EnterRadius:   60,
			ExitDistance:  45,
			ExitAttempts:  10,
			ExitCheckSize: 20,

			RespawnDelaySeconds: 3,
			DeathFine:           500,
		},
		Driving: DrivingTunables{
			Vehicles: []VehicleSpec{
				{Type: "car", MaxSpeed: 280, Acceleration: 250, Health: 100, W: 54, H: 26},
				{Type: "truck", MaxSpeed: 200, Acceleration: 180, Health: 150, W: 64, H: 30},
				{Type: "police", MaxSpeed: 320, Acceleration: 250, Health: 120, W: 54, H: 26},
			},
			VehicleDrag:   150,
			HandbrakeDrag: 800,
			ReverseFactor: 0.7,
			MinTurnSpeed:  20,
			TurnRate:      3.0,
			TurnScale:     0.02,

			CollisionCooldownSeconds: 0.5,
		},
		Pedestrian: PedestrianTunables{
			WalkSpeedMin:           30,
			WalkSpeedMax:           50,
			Size:                   12,
			ThinkSeconds:           0.1,
			DirectionChangeSeconds: 3,
			ProjectionSeconds:      0.016,
			EdgeMargin:             50,

			PanicRadius:  200,
			PanicSeconds: 5,
			PanicSpeed:   120,
		},
		Police: PoliceTunables{
			Type:           "police",
			SpawnSeconds:   4,
			MinWanted:      2,
			SpawnAttempts:  50,
			Health:         120,
			MaxSpeed:       320,
			ChaseSpeed:     200,
			IntensityBonus: 40,
			CloseRange:     100,
			RamSpeed:       300,
		},
		Crime: CrimeTunables{
			DecayCheckSeconds:   8,
			CooldownSeconds:     15,
			GunfireChance:       0.3,
			HitPedestrianChance: 0.1,
			RunOverChance:       0.2,
			RamPoliceChance:     0.5,
		},
		Damage: DamageTunables{
			SmokeThreshold:     30,
			BuildingBumpDamage: 10,

			CrashSpeed:     80,
			CrashDivisor:   15,
			CrashMaxDamage: 25,

			BounceFactor:          0.5,
			BounceMax:             200,
			RamDamageSpeed:        100,
			RamDamageDivisor:      50,
			RamPlayerDivisor:      100,
			FootHitSpeed:          50,
			FootHitDivisor:        20,
			FootPush:              200,
			PedestrianPush:        80,
			VehiclePedestrianPush: 150,
			RunOverSpeed:          50,

			RunOverReward: 15,
			ShotReward:    10,

			ExplosionRadius:        100,
			ExplosionVehicleDamage: 50,
			DriverExplosionDamage:  50,
		},
		Projectile: ProjectileTunables{
			Speed:              800,
			TTLSeconds:         2,
			Size:               4,
			MuzzleFlashSeconds: 0.1,
		},
		Weapons: []WeaponSpec{
			{Name: "Pistol", Damage: 25, MaxAmmo: 50, FireSeconds: 0.4, Spread: 0.05, Pellets: 1},
			{Name: "SMG", Damage: 15, MaxAmmo: 100, FireSeconds: 0.12, Spread: 0.15, Pellets: 1, Automatic: true},
			{Name: "Shotgun", Damage: 35, MaxAmmo: 20, FireSeconds: 0.9, Spread: 0.4, Pellets: 5},
		},
		Missions: []MissionSpec{
			{
				ID: 1, Name: "First Ride", Description: "Steal a car and drive to the marked location",
				Kind: MissionKindReach, TargetX: 1800, TargetY: 800, Radius: 80, Reward: 500,
			},
			{
				ID: 2, Name: "Escape the Heat", Description: "Lose a 3-star wanted level",
				Kind: MissionKindLoseWanted, WantedThreshold: 3, Reward: 1000,
			},
		},
	}
}

// ErrInvalidTunables wraps every Validate failure.
var ErrInvalidTunables = errors.New("invalid tunables")

// Validate checks the tunables for values the core would otherwise treat as
// programmer errors (unknown type tags) or that make the world degenerate.
func (t *Tunables) Validate() error {
	if t.TickSeconds <= 0 {
		return fmt.Errorf("%w: tickSeconds must be > 0", ErrInvalidTunables)
	}
	if t.World.Width <= 0 || t.World.Height <= 0 {
		return fmt.Errorf("%w: world size %gx%g", ErrInvalidTunables, t.World.Width, t.World.Height)
	}
	if t.World.CellSize <= 0 {
		return fmt.Errorf("%w: world.cellSize must be > 0", ErrInvalidTunables)
	}
	known := make(map[string]bool, len(t.World.BuildingTypes))
	for _, b := range t.World.BuildingTypes {
		if b.W <= 0 || b.H <= 0 {
			return fmt.Errorf("%w: building type %q has empty footprint", ErrInvalidTunables, b.Type)
		}
		known[b.Type] = true
	}
	for _, tag := range t.World.MedianPalette {
		if !known[tag] {
			return fmt.Errorf("%w: unknown building type %q in median palette", ErrInvalidTunables, tag)
		}
	}
	for _, d := range t.World.Districts {
		if len(d.Palette) == 0 {
			return fmt.Errorf("%w: district %q has no palette", ErrInvalidTunables, d.Name)
		}
		for _, tag := range d.Palette {
			if !known[tag] {
				return fmt.Errorf("%w: unknown building type %q in district %q", ErrInvalidTunables, tag, d.Name)
			}
		}
	}
	vehicles := make(map[string]bool, len(t.Driving.Vehicles))
	for _, v := range t.Driving.Vehicles {
		vehicles[v.Type] = true
	}
	if !vehicles[t.Police.Type] {
		return fmt.Errorf("%w: unknown police vehicle type %q", ErrInvalidTunables, t.Police.Type)
	}
	if len(t.civilianSpecs()) == 0 {
		return fmt.Errorf("%w: no civilian vehicle types", ErrInvalidTunables)
	}
	if len(t.Weapons) == 0 {
		return fmt.Errorf("%w: weapon list is empty", ErrInvalidTunables)
	}
	for _, m := range t.Missions {
		if m.Kind != MissionKindReach && m.Kind != MissionKindLoseWanted {
			return fmt.Errorf("%w: mission %d has unknown kind %q", ErrInvalidTunables, m.ID, m.Kind)
		}
	}
	return nil
}

// buildingSpec panics on an unknown tag; Validate rejects those up front.
func (w *WorldTunables) buildingSpec(tag string) BuildingSpec {
	for _, b := range w.BuildingTypes {
		if b.Type == tag {
			return b
		}
	}
	panic(fmt.Sprintf("game: unknown building type %q", tag))
}

func (t *Tunables) vehicleSpec(tag string) VehicleSpec {
	for _, v := range t.Driving.Vehicles {
		if v.Type == tag {
			return v
		}
	}
	panic(fmt.Sprintf("game: unknown vehicle type %q", tag))
}

// civilianSpecs lists the vehicle types used for parked traffic.
func (t *Tunables) civilianSpecs() []VehicleSpec {
	out := make([]VehicleSpec, 0, len(t.Driving.Vehicles))
	for _, v := range t.Driving.Vehicles {
		if v.Type != t.Police.Type {
			out = append(out, v)
		}
	}
	return out
}
