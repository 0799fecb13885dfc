package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// Options configures a Simulation beyond its tunables.
type Options struct {
	// Seed drives world generation and every random roll. Equal seeds and
	// equal intent streams give equal runs.
	Seed uint64
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Session tags log lines and recorded events; a random one when zero.
	Session uuid.UUID
	// Meter defaults to the global otel meter.
	Meter metric.Meter
}

// Simulation is the authoritative game state, advanced one fixed tick at a
// time by Step. It is not safe for concurrent use.
type Simulation struct {
	T Tunables

	log     zerolog.Logger
	session uuid.UUID
	seed    uint64

	rng     *Rand
	occ     *Occupancy
	layout  *Layout
	reg     *Registry
	sched   *Scheduler
	bus     *EventBus
	metrics *simMetrics

	player   Player
	arsenal  *Arsenal
	wanted   WantedState
	missions *MissionTracker
	phase    Phase
	tick     uint64

	// per-tick scratch
	buildingHits []buildingHit
	vehScratch   []*Vehicle
	pedScratch   []*Pedestrian
	projScratch  []*Projectile
	vehGrid      bodyGrid
	pedGrid      bodyGrid
	vehReach     float64
}

func New(t Tunables, opts Options) (*Simulation, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	session := opts.Session
	if session == uuid.Nil {
		session = uuid.New()
	}
	base := zerolog.Nop()
	if opts.Logger != nil {
		base = *opts.Logger
	}

	s := &Simulation{
		T:       t,
		session: session,
		seed:    opts.Seed,
		log: base.With().
			Str("component", "sim").
			Str("session", session.String()).
			Uint64("seed", opts.Seed).
			Logger(),
		rng:      NewRand(opts.Seed ^ 0xC17C17),
		reg:      NewRegistry(),
		sched:    NewScheduler(t.TickSeconds),
		bus:      NewEventBus(),
		arsenal:  NewArsenal(t.Weapons),
		missions: NewMissionTracker(t.Missions),
	}

	m, err := newSimMetrics(opts.Meter)
	if err != nil {
		return nil, fmt.Errorf("sim metrics: %w", err)
	}
	s.metrics = m
	s.metrics.attach(s.bus)

	w := &s.T.World
	bounds := NewRect(0, 0, w.Width, w.Height)
	s.occ = NewOccupancy(bounds, w.CellSize)
	// the layout has its own stream so spawns never shift the city
	s.layout = GenerateCity(w, NewRand(splitmix64(opts.Seed)), s.occ)
	s.log.Debug().
		Int("roads", len(s.layout.Roads)).
		Int("intersections", len(s.layout.Intersections)).
		Int("buildings", len(s.layout.Buildings)).
		Int("rejected", s.layout.Rejected).
		Msg("city generated")

	s.vehGrid = newBodyGrid(bounds, w.CellSize)
	s.pedGrid = newBodyGrid(bounds, w.CellSize)

	pt := &s.T.Player
	s.player = Player{
		X:     w.SpawnX,
		Y:     w.SpawnY,
		Size:  pt.Size,
		HP:    NewHealth(pt.Health),
		Money: pt.Money,
	}

	if err := s.populate(); err != nil {
		return nil, err
	}

	s.sched.Every(t.Crime.DecayCheckSeconds, s.decayWanted)
	s.sched.Every(t.Police.SpawnSeconds, s.spawnPoliceTick)
	s.sched.Every(t.Pedestrian.ThinkSeconds, s.thinkPedestrians)

	s.log.Info().
		Int("vehicles", len(s.reg.Vehicles())).
		Int("pedestrians", len(s.reg.Pedestrians())).
		Int("missions", len(s.missions.All())).
		Msg("simulation ready")
	return s, nil
}

// populate places the parked traffic and the crowd. A spot that cannot be
// found is skipped, so the world may end up with fewer of either.
func (s *Simulation) populate() error {
	sp := &s.T.Spawn
	vc := s.vehicleConstraints()
	missed := 0
	for range sp.VehicleCount {
		if _, err := s.Spawn(KindVehicle, vc); err != nil {
			if !errors.Is(err, ErrPlacementFailed) {
				return err
			}
			missed++
		}
	}
	pc := s.pedestrianConstraints()
	for range sp.PedestrianCount {
		if _, err := s.Spawn(KindPedestrian, pc); err != nil {
			if !errors.Is(err, ErrPlacementFailed) {
				return err
			}
			missed++
		}
	}
	if missed > 0 {
		s.log.Warn().Int("missed", missed).Msg("world populated with fewer entities")
	}
	return nil
}

// Step advances the world by one tick.
func (s *Simulation) Step(in Intent) {
	s.tick++
	s.sched.Advance(s.tick)

	if s.phase == PhasePlaying {
		s.applyIntent(in)
	} else {
		s.arsenal.held = false
	}

	s.moveAll(in)
	s.resolveCollisions()
	s.sched.RunDue(s.tick)
	s.updatePolice()
	s.containPedestrians()
	s.updateMissions()
	s.sweepExpired()
}

// moveAll integrates every body for one tick. Intents only steer while the
// player is in control.
func (s *Simulation) moveAll(in Intent) {
	control := s.phase == PhasePlaying
	driven := s.currentVehicle()
	if control {
		if driven != nil {
			s.driveVehicle(driven, in)
		} else {
			s.walk(in)
		}
	}
	for _, v := range s.reg.Vehicles() {
		if v != driven || !control {
			s.coastVehicle(v)
		}
		s.moveVehicle(v)
	}
	for _, p := range s.reg.Pedestrians() {
		s.movePedestrian(p)
	}
	s.moveProjectiles()
	s.syncPlayerToVehicle()
}

// sweepExpired drops rounds and flashes past their deadline. The one-shot
// timers normally get there first.
func (s *Simulation) sweepExpired() {
	s.projScratch = append(s.projScratch[:0], s.reg.Projectiles()...)
	for _, pr := range s.projScratch {
		if pr.Active && pr.ExpiresAt <= s.tick {
			s.reg.Despawn(pr.ID)
		}
	}
	s.reg.ExpireFlashes(s.tick)
}

func (s *Simulation) emit(e Event) {
	e.Tick = s.tick
	s.bus.Emit(e)
}

// despawn removes an entity and keeps the police gauge in step.
// despawn removes id, putting the player back on foot first if it is the
// vehicle they are driving.
func (s *Simulation) despawn(id EntityID) {
	v := s.reg.Vehicle(id)
	if v != nil && s.player.InVehicle && s.player.VehicleID == id {
		s.exitVehicle()
	}
	if !s.reg.Despawn(id) {
		return
	}
	if v != nil && v.Police {
		s.metrics.policeDelta(-1)
	}
}

// Now is the simulation time in seconds.
func (s *Simulation) Now() float64 {
	return float64(s.tick) * s.T.TickSeconds
}

func (s *Simulation) Tick() uint64              { return s.tick }
func (s *Simulation) Seed() uint64              { return s.seed }
func (s *Simulation) Session() uuid.UUID        { return s.session }
func (s *Simulation) Bus() *EventBus            { return s.bus }
func (s *Simulation) Registry() *Registry       { return s.reg }
func (s *Simulation) Occupancy() *Occupancy     { return s.occ }
func (s *Simulation) Layout() *Layout           { return s.layout }
func (s *Simulation) Player() *Player           { return &s.player }
func (s *Simulation) Arsenal() *Arsenal         { return s.arsenal }
func (s *Simulation) Wanted() WantedState       { return s.wanted }
func (s *Simulation) Phase() Phase              { return s.phase }
func (s *Simulation) Missions() *MissionTracker { return s.missions }

// CurrentVehicle is the vehicle the player is driving, or nil.
func (s *Simulation) CurrentVehicle() *Vehicle { return s.currentVehicle() }
