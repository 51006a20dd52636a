package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Solver.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %v, want 60", cfg.Solver.TimeoutSeconds)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != "localhost:8080" {
		t.Errorf("Addr = %q, want localhost:8080", cfg.Server.Addr)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagmin.toml")
	content := `
[solver]
timeout_seconds = 5.5

[cache]
backend = "redis"
redis_addr = "cache.internal:6379"
ttl_hours = 12

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Solver.TimeoutSeconds != 5.5 {
		t.Errorf("TimeoutSeconds = %v, want 5.5", cfg.Solver.TimeoutSeconds)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.RedisAddr != "cache.internal:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dagmin.toml")
	if err := os.WriteFile(path, []byte("[solver]\ntimeout_seconds = 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Solver.TimeoutSeconds != 1 {
		t.Errorf("TimeoutSeconds = %v, want 1", cfg.Solver.TimeoutSeconds)
	}
	// Unset sections keep their defaults.
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want file default", cfg.Cache.Backend)
	}
}

func TestLoadConfigOrDefaultMissing(t *testing.T) {
	cfg := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg != DefaultConfig() {
		t.Error("missing config file should fall back to defaults")
	}
}

func TestCacheTTL(t *testing.T) {
	c := CacheConfig{TTLHours: 12}
	if c.TTL() != 12*time.Hour {
		t.Errorf("TTL = %v, want 12h", c.TTL())
	}

	if (CacheConfig{}).TTL() != 0 {
		t.Error("zero TTLHours should return 0")
	}
}

func TestSolverTimeout(t *testing.T) {
	c := SolverConfig{TimeoutSeconds: 2.5}
	if c.Timeout() != 2500*time.Millisecond {
		t.Errorf("Timeout = %v, want 2.5s", c.Timeout())
	}

	if (SolverConfig{}).Timeout() != 0 {
		t.Error("zero TimeoutSeconds should return 0")
	}
}
