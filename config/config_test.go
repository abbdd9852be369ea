package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tidesql/tidesql/logging"
	"github.com/tidesql/tidesql/src/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tidesql.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: sqlite:///tmp/app.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pool.Size != 5 {
		t.Errorf("Pool.Size = %d, want default 5", cfg.Pool.Size)
	}
	if cfg.Pool.MaxOverflow != 10 {
		t.Errorf("Pool.MaxOverflow = %d, want default 10", cfg.Pool.MaxOverflow)
	}
	if cfg.Pool.CheckoutTimeout != 30*time.Second {
		t.Errorf("Pool.CheckoutTimeout = %v, want default 30s", cfg.Pool.CheckoutTimeout)
	}
	if cfg.Cache.Size != 500 {
		t.Errorf("Cache.Size = %d, want default 500", cfg.Cache.Size)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoadFileValues(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://app@db.internal/orders
pool:
  size: 12
  max_overflow: 3
  checkout_timeout: 5s
  pre_ping: true
cache:
  size: 64
transaction:
  isolation: repeatable read
  join_mode: savepoint
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.URL != "postgres://app@db.internal/orders" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Pool.Size != 12 || cfg.Pool.MaxOverflow != 3 || !cfg.Pool.PrePing {
		t.Errorf("pool config = %+v", cfg.Pool)
	}
	if cfg.Pool.CheckoutTimeout != 5*time.Second {
		t.Errorf("CheckoutTimeout = %v, want 5s", cfg.Pool.CheckoutTimeout)
	}

	ec := cfg.EngineConfig()
	if ec.PoolSize != 12 || ec.CacheSize != 64 {
		t.Errorf("engine config = %+v", ec)
	}
	if ec.JoinMode != engine.JoinSavepoint {
		t.Errorf("JoinMode = %v, want JoinSavepoint", ec.JoinMode)
	}
	if ec.Isolation != "repeatable read" {
		t.Errorf("Isolation = %q", ec.Isolation)
	}
	if ec.Logger == nil {
		t.Error("Logger is nil")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: sqlite:///tmp/app.db
pool:
  size: 2
`)
	t.Setenv("TIDESQL_DATABASE_URL", "mysql://root@localhost/test")
	t.Setenv("TIDESQL_POOL_SIZE", "9")
	t.Setenv("TIDESQL_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Database.URL != "mysql://root@localhost/test" {
		t.Errorf("Database.URL = %q, env override not applied", cfg.Database.URL)
	}
	if cfg.Pool.Size != 9 {
		t.Errorf("Pool.Size = %d, want 9 from env", cfg.Pool.Size)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn from env", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"MissingURL", func(c *Config) { c.Database.URL = "" }, "database.url"},
		{"ZeroPoolSize", func(c *Config) { c.Pool.Size = 0 }, "pool.size"},
		{"NegativeOverflow", func(c *Config) { c.Pool.MaxOverflow = -1 }, "pool.max_overflow"},
		{"NegativeCacheSize", func(c *Config) { c.Cache.Size = -1 }, "cache.size"},
		{"BadIsolation", func(c *Config) { c.Transaction.Isolation = "chaotic" }, "transaction.isolation"},
		{"BadJoinMode", func(c *Config) { c.Transaction.JoinMode = "yolo" }, "transaction.join_mode"},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.URL = "sqlite:///tmp/app.db"
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestWatchReload(t *testing.T) {
	path := writeConfig(t, `
database:
  url: sqlite:///tmp/app.db
pool:
  size: 2
`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reloaded := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.Discard, func(c *Config) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before rewriting.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`
database:
  url: sqlite:///tmp/app.db
pool:
  size: 7
`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Pool.Size != 7 {
			t.Errorf("reloaded Pool.Size = %d, want 7", cfg.Pool.Size)
		}
	case <-ctx.Done():
		t.Fatal("no reload observed before timeout")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Watch returned %v", err)
	}
}

func TestWatchIgnoresBrokenReload(t *testing.T) {
	path := writeConfig(t, `
database:
  url: sqlite:///tmp/app.db
`)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	reloads := make(chan *Config, 4)
	go Watch(ctx, path, logging.Discard, func(c *Config) { reloads <- c })

	time.Sleep(100 * time.Millisecond)
	// Invalid YAML must not reach onChange.
	if err := os.WriteFile(path, []byte(": not yaml ["), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	select {
	case <-reloads:
		t.Fatal("onChange called for a config that failed to load")
	default:
	}
}
