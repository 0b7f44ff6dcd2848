package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	AppName      = "mediagraph"
	DatabaseName = "mediagraph.sqlite"
)

// Config holds the runtime settings read from the environment
type Config struct {
	DataDir  string `env:"MEDIAGRAPH_DATA_DIR" env-description:"directory holding the database"`
	LogLevel string `env:"MEDIAGRAPH_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	LogFile  string `env:"MEDIAGRAPH_LOG_FILE" env-description:"optional rotated log file"`
	LogJSON  bool   `env:"MEDIAGRAPH_LOG_JSON" env-default:"false" env-description:"emit JSON log lines"`
	FFProbe  string `env:"MEDIAGRAPH_FFPROBE" env-default:"ffprobe" env-description:"ffprobe binary used to inspect media"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}

// ResolveDataDir returns the configured directory, falling back to
// $XDG_DATA_HOME/mediagraph and then ~/.local/share/mediagraph.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return expandHome(c.DataDir)
	}
	return DefaultDataDir()
}

// DatabasePath returns the full path of the database file
func (c *Config) DatabasePath() string {
	return filepath.Join(c.ResolveDataDir(), DatabaseName)
}

// DefaultDataDir returns the platform data directory for the application
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// Usage describes the supported environment variables
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
