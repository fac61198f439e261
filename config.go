package fleks

import (
	"os"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	DefaultEntityCapacity = 512
	DefaultLogLevel       = "disabled"
)

// Config holds the World settings that can come from the environment.
//
//	FLEKS_ENTITY_CAPACITY=4096
//	FLEKS_LOG_LEVEL=debug
type Config struct {
	LogLevel       string `config:"FLEKS_LOG_LEVEL"`
	EntityCapacity int    `config:"FLEKS_ENTITY_CAPACITY"`
}

// DefaultConfig returns the settings NewWorld uses when no option overrides them.
func DefaultConfig() Config {
	return Config{
		EntityCapacity: DefaultEntityCapacity,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadConfig overlays matching environment variables on DefaultConfig.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "loading config from environment")
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.EntityCapacity < 0 {
		return eris.Errorf("entity capacity must not be negative, got %d", c.EntityCapacity)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}

// newLogger builds the default World logger for the configured level.
func (c Config) newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.Disabled {
		return zerolog.Nop()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// Option configures a World.
type Option func(w *World)

// WithConfig replaces the World configuration.
func WithConfig(cfg Config) Option {
	return func(w *World) {
		w.config = cfg
	}
}

// WithEntityCapacity sets the number of entity slots preallocated.
func WithEntityCapacity(capacity int) Option {
	return func(w *World) {
		w.config.EntityCapacity = capacity
	}
}

// WithLogger injects a logger, ignoring Config.LogLevel.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = &logger
	}
}

// WithPrettyLog writes human readable logs to stderr.
func WithPrettyLog() Option {
	return func(w *World) {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		w.logger = &logger
	}
}
