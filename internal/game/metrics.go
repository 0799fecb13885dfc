package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "crimecity/internal/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// simMetrics wraps the instruments fed by the simulation. With no provider
// installed the global meter is a no-op.
type simMetrics struct {
	crimes        metric.Int64Counter
	spawns        metric.Int64Counter
	spawnFailures metric.Int64Counter
	destroyed     metric.Int64Counter
	killed        metric.Int64Counter
	missions      metric.Int64Counter
	police        metric.Int64UpDownCounter
}

func newSimMetrics(m metric.Meter) (*simMetrics, error) {
	if m == nil {
		m = meter()
	}
	sm := &simMetrics{}
	var err error

	sm.crimes, err = m.Int64Counter(
		"crimecity.crimes",
		metric.WithDescription("Crimes committed, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crimes counter: %w", err)
	}

	sm.spawns, err = m.Int64Counter(
		"crimecity.spawns",
		metric.WithDescription("Entities spawned, by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawns counter: %w", err)
	}

	sm.spawnFailures, err = m.Int64Counter(
		"crimecity.spawn.failures",
		metric.WithDescription("Spawn attempts that found no valid location"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating spawn failures counter: %w", err)
	}

	sm.destroyed, err = m.Int64Counter(
		"crimecity.vehicles.destroyed",
		metric.WithDescription("Vehicles destroyed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating destroyed counter: %w", err)
	}

	sm.killed, err = m.Int64Counter(
		"crimecity.pedestrians.killed",
		metric.WithDescription("Pedestrians killed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating killed counter: %w", err)
	}

	sm.missions, err = m.Int64Counter(
		"crimecity.missions.completed",
		metric.WithDescription("Missions completed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating missions counter: %w", err)
	}

	sm.police, err = m.Int64UpDownCounter(
		"crimecity.police.active",
		metric.WithDescription("Police units currently in the world"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating police gauge: %w", err)
	}

	return sm, nil
}

func (sm *simMetrics) crime(r CrimeReason) {
	sm.crimes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", r.String())))
}

func (sm *simMetrics) spawned(k EntityKind) {
	sm.spawns.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", k.String())))
}

func (sm *simMetrics) spawnFailed(k EntityKind) {
	sm.spawnFailures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", k.String())))
}

func (sm *simMetrics) policeDelta(n int64) {
	sm.police.Add(context.Background(), n)
}

// attach subscribes the event-driven counters to the bus.
func (sm *simMetrics) attach(bus *EventBus) {
	bus.Subscribe(EventCrime, func(e Event) { sm.crime(CrimeReason(e.Data)) })
	bus.Subscribe(EventVehicleDestroyed, func(Event) { sm.destroyed.Add(context.Background(), 1) })
	bus.Subscribe(EventPedestrianKilled, func(Event) { sm.killed.Add(context.Background(), 1) })
	bus.Subscribe(EventMissionCompleted, func(Event) { sm.missions.Add(context.Background(), 1) })
}
