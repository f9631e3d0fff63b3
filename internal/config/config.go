package config

import (
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"codeberg.org/mutker/ministatus/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval    = time.Second
	DefaultSeparator   = " | "
	DefaultLogLevel    = string(LogLevelWarn)
	DefaultClockLayout = "(KW%V) %m/%d/%Y %I:%M %p"
	DefaultWeatherURL  = "https://wttr.in"
	DefaultAppName     = "ministatus"

	defaultWeatherTimeout = 2 * time.Second
	defaultWeatherRefresh = 4 * time.Hour
	defaultWeatherRetry   = time.Hour
	defaultEnvPrefix      = "MINISTATUS"
	configName            = "ministatus"
	pidFileName           = "ministatus.pid"
)

type Config struct {
	Interval   time.Duration `mapstructure:"interval"`
	Separator  string        `mapstructure:"separator"`
	Collectors []string      `mapstructure:"collectors"`
	LogLevel   string        `mapstructure:"log-level"`
	Console    bool          `mapstructure:"console"`
	Home       string        `mapstructure:"home"`
	PIDFile    string        `mapstructure:"pid-file"`
	Clock      ClockConfig   `mapstructure:"clock"`
	Weather    WeatherConfig `mapstructure:"weather"`
	Audio      AudioConfig   `mapstructure:"audio"`
}

type ClockConfig struct {
	Layout string `mapstructure:"layout"`
}

type WeatherConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Refresh time.Duration `mapstructure:"refresh"`
	Retry   time.Duration `mapstructure:"retry"`
}

type AudioConfig struct {
	AppName string `mapstructure:"app-name"`
	// Optional disables the volume collector instead of aborting when the
	// audio server cannot be reached at startup.
	Optional bool `mapstructure:"optional"`
}

// RegisterFlags defines the command line flags understood by Load
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the configuration file")
	fs.Duration("interval", DefaultInterval, "Interval between status updates")
	fs.String("separator", DefaultSeparator, "Separator placed between collector outputs")
	fs.StringSlice("collectors", KnownCollectors, "Ordered list of collectors to display")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.Bool("console", false, "Print the status line to stdout instead of the X root window")
	fs.String("pid-file", defaultPIDFile(), "Path to the PID file")
	fs.Bool("audio-optional", false, "Continue without the volume collector if the audio server is unreachable")
}

// Load reads configuration from defaults, the config file, the environment and flags,
// in increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: defaultEnvPrefix}
	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && path != "" {
			o.configPath = path
		}
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}
	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}
	if o.searchPaths == nil {
		o.searchPaths = defaultSearchPaths()
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("home", o.envPrefix+"_HOME", "HOME"); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if os.Getenv("DEBUG") == "1" {
		cfg.Console = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("separator", DefaultSeparator)
	v.SetDefault("collectors", KnownCollectors)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("console", false)
	v.SetDefault("pid-file", defaultPIDFile())
	v.SetDefault("clock.layout", DefaultClockLayout)
	v.SetDefault("weather.url", DefaultWeatherURL)
	v.SetDefault("weather.timeout", defaultWeatherTimeout)
	v.SetDefault("weather.refresh", defaultWeatherRefresh)
	v.SetDefault("weather.retry", defaultWeatherRetry)
	v.SetDefault("audio.app-name", DefaultAppName)
	v.SetDefault("audio.optional", false)
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, name := range []string{"interval", "separator", "collectors", "log-level", "console", "pid-file"} {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return err
			}
		}
	}

	if f := fs.Lookup("audio-optional"); f != nil {
		return v.BindPFlag("audio.optional", f)
	}

	return nil
}

func readConfigFile(v *viper.Viper, o options) error {
	errFactory := errors.New()

	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("toml")
	for _, p := range o.searchPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks the loaded configuration for values the daemon cannot run with
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	// the root window name and the console sink both hold a single line
	if strings.ContainsAny(c.Separator, "\r\n") {
		return errFactory.WithData(errors.ErrInvalidSeparator, c.Separator)
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	for _, name := range c.Collectors {
		if !slices.Contains(KnownCollectors, name) {
			return errFactory.WithData(errors.ErrUnknownCollector, name)
		}
	}

	if c.Home == "" && (c.Enabled(CollectorMailbox) || c.Enabled(CollectorNews)) {
		return errFactory.New(errors.ErrMissingHome)
	}

	if c.Enabled(CollectorWeather) {
		u, err := url.Parse(c.Weather.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errFactory.WithData(errors.ErrInvalidWeatherURL, c.Weather.URL)
		}
	}

	return nil
}

// Enabled reports whether the named collector is part of the status line
func (c *Config) Enabled(name string) bool {
	return slices.Contains(c.Collectors, name)
}

func defaultSearchPaths() []string {
	paths := make([]string, 0, 2)
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, configName))
	}

	return append(paths, "/etc")
}

func defaultPIDFile() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}

	return filepath.Join(dir, pidFileName)
}
