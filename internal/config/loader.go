package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/callprof/internal/constants"
)

// Loader handles loading and saving configuration files.
type Loader struct {
	baseDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. CALLPROF_CONFIG environment variable.
//  2. ~/.callprof.
//  3. /tmp/callprof-fallback (containers without a home dir).
//
// Config files won't exist in the fallback, so Load returns defaults with env
// overrides applied.
func NewLoader() *Loader {
	if dir := os.Getenv(constants.ConfigDirEnv); dir != "" {
		return &Loader{baseDir: dir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{baseDir: filepath.Join(homeDir, constants.DefaultDir)}
	}

	return &Loader{baseDir: constants.FallbackConfigDir}
}

// NewLoaderAt creates a loader rooted at dir.
func NewLoaderAt(dir string) *Loader {
	return &Loader{baseDir: dir}
}

// ConfigPath returns the path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.baseDir, constants.ConfigFile)
}

// Load reads the config file, or defaults when it does not exist, applies
// environment overrides and validates the result.
func (l *Loader) Load() (*Config, error) {
	return l.LoadFile(l.ConfigPath())
}

// LoadFile is Load for an explicit path.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	//nolint:gosec // G304: Path is from trusted config directory or the command line.
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// Apply environment variable overrides (layered configuration).
	if err := MergeFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Save writes config to the loader's config path.
func (l *Loader) Save(config *Config) error {
	path := l.ConfigPath()

	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	//nolint:gosec // G306: Config file is not sensitive
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
