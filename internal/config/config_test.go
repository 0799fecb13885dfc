package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimecity/internal/game"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, uint64(1), s.Seed)
	assert.Equal(t, 3600, s.Ticks)
	assert.Equal(t, "", s.RecordPath)
	assert.Equal(t, 256, s.FlushEvery)
	assert.Equal(t, game.DefaultTunables(), s.Tunables)
	require.NoError(t, s.Validate())
}

func TestLoad_JSONOverridesKeepOtherDefaults(t *testing.T) {
	path := writeConfig(t, "crimecity.json", `{
		"logLevel": "debug",
		"seed": 99,
		"record": { "path": "run.db", "flushEvery": 10 },
		"game": {
			"world": { "width": 2400 },
			"police": { "minWanted": 2 }
		}
	}`)

	s, err := Load(path, nil)
	require.NoError(t, err)

	def := game.DefaultTunables()
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, uint64(99), s.Seed)
	assert.Equal(t, "run.db", s.RecordPath)
	assert.Equal(t, 10, s.FlushEvery)
	assert.Equal(t, 2400.0, s.Tunables.World.Width)
	assert.Equal(t, def.World.Height, s.Tunables.World.Height)
	assert.Equal(t, 2, s.Tunables.Police.MinWanted)
	assert.Equal(t, def.Police.ChaseSpeed, s.Tunables.Police.ChaseSpeed)
	assert.Equal(t, def.Weapons, s.Tunables.Weapons)
}

func TestLoad_YAMLListsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, "crimecity.yaml", `
game:
  missions:
    - id: 7
      name: Getaway
      kind: loseWanted
      reward: 250
`)

	s, err := Load(path, nil)
	require.NoError(t, err)

	require.Len(t, s.Tunables.Missions, 1)
	m := s.Tunables.Missions[0]
	assert.Equal(t, 7, m.ID)
	assert.Equal(t, "Getaway", m.Name)
	assert.Equal(t, game.MissionKindLoseWanted, m.Kind)
	assert.Equal(t, 250, m.Reward)
	assert.Equal(t, 0, m.WantedThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRIMECITY_SEED", "42")
	t.Setenv("CRIMECITY_RECORD_PATH", "env.db")
	t.Setenv("CRIMECITY_LOGLEVEL", "warn")

	s, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, "env.db", s.RecordPath)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, zerolog.WarnLevel, s.Level())
}

func TestLoad_FlagsWinOverFile(t *testing.T) {
	path := writeConfig(t, "crimecity.json", `{"seed": 5, "ticks": 100}`)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Uint64("seed", 1, "")
	fs.Int("ticks", 3600, "")
	fs.String("record", "", "")
	require.NoError(t, fs.Parse([]string{"--ticks=50", "--record=flag.db"}))

	s, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), s.Seed, "unset flag leaves the file value")
	assert.Equal(t, 50, s.Ticks)
	assert.Equal(t, "flag.db", s.RecordPath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSettings_Validate(t *testing.T) {
	base, err := Load("", nil)
	require.NoError(t, err)

	bad := base
	bad.LogLevel = "loud"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = base
	bad.Ticks = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = base
	bad.RecordPath = "x.db"
	bad.FlushEvery = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = base
	bad.Tunables.World.Width = 0
	assert.ErrorIs(t, bad.Validate(), game.ErrInvalidTunables)
}

func TestSettings_LevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Settings{}.Level())
	assert.Equal(t, zerolog.InfoLevel, Settings{LogLevel: "loud"}.Level())
	assert.Equal(t, zerolog.DebugLevel, Settings{LogLevel: "debug"}.Level())
}
