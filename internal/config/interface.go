package config

// Option customises how Load locates its sources
type Option func(*options) error

type options struct {
	configPath  string
	envPrefix   string
	searchPaths []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "MINISTATUS"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithSearchPaths replaces the directories searched for ministatus.toml
func WithSearchPaths(paths ...string) Option {
	return func(o *options) error {
		o.searchPaths = paths
		return nil
	}
}

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}

// Collector names accepted in the collectors list
const (
	CollectorNews     = "news"
	CollectorMailbox  = "mailbox"
	CollectorWeather  = "weather"
	CollectorWireless = "wireless"
	CollectorBattery  = "battery"
	CollectorGPU      = "gpu"
	CollectorVolume   = "volume"
	CollectorClock    = "clock"
)

// KnownCollectors lists every collector name in default display order
var KnownCollectors = []string{
	CollectorNews,
	CollectorMailbox,
	CollectorWeather,
	CollectorWireless,
	CollectorBattery,
	CollectorGPU,
	CollectorVolume,
	CollectorClock,
}
