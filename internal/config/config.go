package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"crimecity/internal/game"
)

// EnvPrefix is prepended to every environment override, e.g. CRIMECITY_SEED
// or CRIMECITY_RECORD_PATH.
const EnvPrefix = "CRIMECITY"

// Settings is everything the runner needs: the simulation tunables plus the
// operational keys around them.
type Settings struct {
	Tunables   game.Tunables
	LogLevel   string
	Seed       uint64
	Ticks      int
	RecordPath string
	FlushEvery int
}

// list-valued tunables replace the defaults wholesale when present in the file
var listKeys = []string{
	"game.weapons",
	"game.missions",
	"game.driving.vehicles",
	"game.world.districts",
	"game.world.buildingTypes",
	"game.world.medianPalette",
}

// flags maps runner flag names onto config keys.
var flags = map[string]string{
	"seed":   "seed",
	"ticks":  "ticks",
	"record": "record.path",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("seed", 1)
	v.SetDefault("ticks", 3600)
	v.SetDefault("record.path", "")
	v.SetDefault("record.flushEvery", 256)
}

// Load builds Settings from the defaults, an optional config file (format
// picked by extension), CRIMECITY_* environment variables and, if fs is not
// nil, the runner flags. Tunables live under the "game" key of the file.
func Load(path string, fs *pflag.FlagSet) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flags {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Settings{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	t := game.DefaultTunables()
	if v.IsSet("game") {
		clearOverriddenLists(v, &t)
		if err := v.UnmarshalKey("game", &t); err != nil {
			return Settings{}, fmt.Errorf("decoding game tunables: %w", err)
		}
	}

	return Settings{
		Tunables:   t,
		LogLevel:   v.GetString("logLevel"),
		Seed:       v.GetUint64("seed"),
		Ticks:      v.GetInt("ticks"),
		RecordPath: v.GetString("record.path"),
		FlushEvery: v.GetInt("record.flushEvery"),
	}, nil
}

func clearOverriddenLists(v *viper.Viper, t *game.Tunables) {
	for _, key := range listKeys {
		if !v.IsSet(key) {
			continue
		}
		switch key {
		case "game.weapons":
			t.Weapons = nil
		case "game.missions":
			t.Missions = nil
		case "game.driving.vehicles":
			t.Driving.Vehicles = nil
		case "game.world.districts":
			t.World.Districts = nil
		case "game.world.buildingTypes":
			t.World.BuildingTypes = nil
		case "game.world.medianPalette":
			t.World.MedianPalette = nil
		}
	}
}

// ErrInvalidSettings wraps operational key failures; tunable failures wrap
// game.ErrInvalidTunables instead.
var ErrInvalidSettings = errors.New("invalid settings")

func (s Settings) Validate() error {
	if err := s.Tunables.Validate(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("%w: logLevel %q", ErrInvalidSettings, s.LogLevel)
	}
	if s.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be > 0", ErrInvalidSettings)
	}
	if s.RecordPath != "" && s.FlushEvery <= 0 {
		return fmt.Errorf("%w: record.flushEvery must be > 0", ErrInvalidSettings)
	}
	return nil
}

// Level is the parsed log level, info when empty or unparseable.
func (s Settings) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
