package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/ministatus/internal/config"
	"codeberg.org/mutker/ministatus/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEBUG", "")
	t.Setenv("MINISTATUS_CONFIG", "")
	t.Setenv("MINISTATUS_HOME", "")

	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ministatus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
interval = "5s"
separator = " :: "
collectors = ["volume", "clock"]
log-level = "debug"

[clock]
layout = "%H:%M"

[weather]
url = "http://localhost:8080"
timeout = "500ms"

[audio]
app-name = "bar"
optional = true
`)

	cfg, err := config.Load(nil, config.WithConfigFile(path))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, " :: ", cfg.Separator)
	assert.Equal(t, []string{"volume", "clock"}, cfg.Collectors)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "%H:%M", cfg.Clock.Layout)
	assert.Equal(t, "http://localhost:8080", cfg.Weather.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Weather.Timeout)
	assert.Equal(t, 4*time.Hour, cfg.Weather.Refresh, "unset keys keep their defaults")
	assert.Equal(t, "bar", cfg.Audio.AppName)
	assert.True(t, cfg.Audio.Optional)
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := config.Load(nil, config.WithSearchPaths(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultSeparator, cfg.Separator)
	assert.Equal(t, config.KnownCollectors, cfg.Collectors)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultClockLayout, cfg.Clock.Layout)
	assert.Equal(t, config.DefaultWeatherURL, cfg.Weather.URL)
	assert.Equal(t, config.DefaultAppName, cfg.Audio.AppName)
	assert.Equal(t, home, cfg.Home)
	assert.False(t, cfg.Console)
	assert.False(t, cfg.Audio.Optional)
}

func TestLoadSearchPath(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ministatus.toml"), []byte(`interval = "15s"`), 0o600))

	cfg, err := config.Load(nil, config.WithSearchPaths(dir))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.Interval)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
This is not a valid TOML file
`)

	_, err := config.Load(nil, config.WithConfigFile(path))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := config.Load(nil, config.WithConfigFile(filepath.Join(t.TempDir(), "nope.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MINISTATUS_INTERVAL", "10s")
	t.Setenv("MINISTATUS_COLLECTORS", "clock,battery")
	t.Setenv("MINISTATUS_WEATHER_URL", "http://example.test")
	t.Setenv("MINISTATUS_HOME", "/srv/user")

	cfg, err := config.Load(nil, config.WithSearchPaths(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, []string{"clock", "battery"}, cfg.Collectors)
	assert.Equal(t, "http://example.test", cfg.Weather.URL)
	assert.Equal(t, "/srv/user", cfg.Home)
}

func TestDebugEnvSelectsConsole(t *testing.T) {
	isolate(t)
	t.Setenv("DEBUG", "1")

	cfg, err := config.Load(nil, config.WithSearchPaths(t.TempDir()))
	require.NoError(t, err)
	assert.True(t, cfg.Console)
}

func TestFlagsOverrideFile(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
interval = "5s"
log-level = "info"
`)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--interval", "3s", "--audio-optional"}))

	cfg, err := config.Load(fs)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, "info", cfg.LogLevel, "file value wins over the flag default")
	assert.True(t, cfg.Audio.Optional)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Interval:   time.Second,
			Collectors: []string{"clock", "weather", "news"},
			LogLevel:   "warn",
			Home:       "/home/user",
			Weather:    config.WeatherConfig{URL: "https://wttr.in"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.ErrorCode
	}{
		{"zero interval", func(c *config.Config) { c.Interval = 0 }, errors.ErrInvalidInterval},
		{"negative interval", func(c *config.Config) { c.Interval = -time.Second }, errors.ErrInvalidInterval},
		{"bad log level", func(c *config.Config) { c.LogLevel = "invalid" }, errors.ErrInvalidLogLevel},
		{"unknown collector", func(c *config.Config) { c.Collectors = append(c.Collectors, "cpu") }, errors.ErrUnknownCollector},
		{"multi-line separator", func(c *config.Config) { c.Separator = " |\n" }, errors.ErrInvalidSeparator},
		{"missing home", func(c *config.Config) { c.Home = "" }, errors.ErrMissingHome},
		{"relative weather url", func(c *config.Config) { c.Weather.URL = "wttr.in" }, errors.ErrInvalidWeatherURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("valid", func(t *testing.T) {
		cfg := valid()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("home not needed without mailbox or news", func(t *testing.T) {
		cfg := valid()
		cfg.Home = ""
		cfg.Collectors = []string{"clock"}
		assert.NoError(t, cfg.Validate())
	})
}
