// Command crimecity runs the simulation headless under a scripted autopilot
// and logs what happens.
package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"crimecity/internal/config"
	"crimecity/internal/game"
	"crimecity/internal/recorder"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "config file (json, yaml or toml)")
	pflag.Uint64("seed", 1, "world and simulation seed")
	pflag.Int("ticks", 3600, "number of ticks to simulate")
	pflag.String("record", "", "sqlite file to record events into")
	pflag.Parse()

	if err := run(*cfgPath, pflag.CommandLine); err != nil {
		fmt.Fprintln(os.Stderr, "crimecity:", err)
		os.Exit(1)
	}
}

func run(cfgPath string, fs *pflag.FlagSet) error {
	settings, err := config.Load(cfgPath, fs)
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(settings.Level()).With().Timestamp().Logger()

	session := uuid.New()
	sim, err := game.New(settings.Tunables, game.Options{
		Seed:    settings.Seed,
		Logger:  &log,
		Session: session,
	})
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	var rec *recorder.Recorder
	if settings.RecordPath != "" {
		rec, err = recorder.Open(settings.RecordPath, settings.FlushEvery, log)
		if err != nil {
			return err
		}
		if err := rec.Begin(session, settings.Seed); err != nil {
			return errors.Join(err, rec.Close())
		}
		rec.Attach(sim.Bus())
		log.Info().Str("path", settings.RecordPath).Msg("recording events")
	}

	pilot := newAutopilot(settings.Tunables)
	second := uint64(math.Max(1, math.Round(1/settings.Tunables.TickSeconds)))
	started := time.Now()
	for range settings.Ticks {
		sim.Step(pilot.Next(sim.Snapshot()))
		if sim.Tick()%second == 0 {
			progress(log, sim)
		}
	}

	summary(log, sim, time.Since(started))
	if rec != nil {
		n, err := rec.Count()
		if err == nil {
			log.Info().Int64("events", n+int64(rec.Pending())).Msg("recorded")
		}
		if err := rec.Close(); err != nil {
			return fmt.Errorf("closing recorder: %w", err)
		}
	}
	return nil
}

func progress(log zerolog.Logger, sim *game.Simulation) {
	p := sim.Player()
	log.Info().
		Float64("t", sim.Now()).
		Str("phase", sim.Phase().String()).
		Int("wanted", sim.Wanted().Level).
		Int("police", sim.Registry().ActivePolice()).
		Float64("health", p.HP.Current).
		Int("money", p.Money).
		Bool("driving", p.InVehicle).
		Msg("tick")
}

func summary(log zerolog.Logger, sim *game.Simulation, took time.Duration) {
	done := 0
	for _, m := range sim.Missions().All() {
		if m.Completed {
			done++
		}
	}
	crimes := zerolog.Dict()
	for reason, n := range sim.Wanted().Tally {
		if n > 0 {
			crimes.Int(game.CrimeReason(reason).String(), n)
		}
	}
	log.Info().
		Uint64("ticks", sim.Tick()).
		Dur("took", took).
		Int("money", sim.Player().Money).
		Int("wanted", sim.Wanted().Level).
		Int("missions", done).
		Int("missionsTotal", len(sim.Missions().All())).
		Dict("crimes", crimes).
		Msg("run complete")
}
