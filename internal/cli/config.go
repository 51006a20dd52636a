package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the dagmin.toml settings. Flags override config values,
// which override the built-in defaults.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// SolverConfig controls the search budget.
type SolverConfig struct {
	// TimeoutSeconds is the wall-clock budget per solve. Zero disables it.
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port of the Redis backend.
	RedisAddr string `toml:"redis_addr"`

	// TTLHours bounds how long results stay cached. Zero uses the default.
	TTLHours int `toml:"ttl_hours"`
}

// ServerConfig configures "dagmin serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in settings: 60s solve budget, file
// cache, server on localhost:8080.
func DefaultConfig() Config {
	return Config{
		Solver: SolverConfig{TimeoutSeconds: 60},
		Cache:  CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
		Server: ServerConfig{Addr: "localhost:8080"},
	}
}

// LoadConfig reads a TOML config file, overlaying the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the config from path when given, otherwise
// from the first of ./dagmin.toml and $XDG_CONFIG_HOME/dagmin/dagmin.toml
// that exists. Missing or unreadable files fall back to the defaults.
func LoadConfigOrDefault(path string) Config {
	if path != "" {
		cfg, err := LoadConfig(path)
		if err != nil {
			return DefaultConfig()
		}
		return cfg
	}
	for _, candidate := range configPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if cfg, err := LoadConfig(candidate); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

func configPaths() []string {
	paths := []string{appName + ".toml"}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		paths = append(paths, filepath.Join(configHome, appName, appName+".toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, appName+".toml"))
	}
	return paths
}

// TTL returns the configured cache TTL.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLHours > 0 {
		return time.Duration(c.TTLHours) * time.Hour
	}
	return 0
}

// Timeout returns the configured solve budget as a duration.
func (c SolverConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
