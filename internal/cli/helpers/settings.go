package helpers

import (
	"github.com/rs/zerolog"

	"github.com/coral-mesh/callprof/internal/config"
	"github.com/coral-mesh/callprof/internal/logging"
	"github.com/coral-mesh/callprof/pkg/callprof"
)

// LoadConfig loads the config file at path, or the default location when
// path is empty.
func LoadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path == "" {
		return loader.Load()
	}
	return loader.LoadFile(path)
}

// NewLogger builds the CLI logger from the logging section.
func NewLogger(cfg config.LoggingConfig) zerolog.Logger {
	lc := logging.DefaultConfig()
	if cfg.Level != "" {
		lc.Level = cfg.Level
	}
	lc.Pretty = cfg.Pretty
	return logging.New(lc)
}

// ProfilerConfig maps the profiler section onto library options.
func ProfilerConfig(cfg config.ProfilerConfig, logger zerolog.Logger) callprof.Config {
	return callprof.Config{
		Enabled:      cfg.Enabled,
		UseTSC:       cfg.ClockUseTSC,
		Policy:       cfg.OnActive,
		MemorySource: cfg.MemorySource,
		RootSymbol:   cfg.RootSymbol,
		Slots:        cfg.Slots,
		MaxFrames:    cfg.MaxFrames,
		MaxBuckets:   cfg.MaxBuckets,
		Logger:       logger,
	}
}

// GlobalFlags holds the persistent flags of the root command.
type GlobalFlags struct {
	ConfigPath string
	LogLevel   string
}

// Load resolves the effective config and the logger configured by it.
// --log-level wins over the config file.
func (g *GlobalFlags) Load() (*config.Config, zerolog.Logger, error) {
	cfg, err := LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	return cfg, NewLogger(cfg.Logging), nil
}
