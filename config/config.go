// Package config loads engine configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tidesql/tidesql/logging"
	"github.com/tidesql/tidesql/src/engine"
)

// Config is the root configuration structure.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Pool        PoolConfig        `yaml:"pool"`
	Cache       CacheConfig       `yaml:"cache"`
	Transaction TransactionConfig `yaml:"transaction"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DatabaseConfig identifies the backend to connect to.
type DatabaseConfig struct {
	// URL is a database URL such as postgres://user@host/db,
	// mysql://user@host/db, or sqlite:///path/to/file.db.
	URL string `yaml:"url"`
}

// PoolConfig contains connection pool settings.
type PoolConfig struct {
	Size            int           `yaml:"size"`
	MaxOverflow     int           `yaml:"max_overflow"`
	CheckoutTimeout time.Duration `yaml:"checkout_timeout"`
	PrePing         bool          `yaml:"pre_ping"`
}

// CacheConfig contains statement cache settings.
type CacheConfig struct {
	Size int `yaml:"size"`
}

// TransactionConfig contains transaction defaults.
type TransactionConfig struct {
	// Isolation is the default isolation level for root transactions,
	// e.g. "repeatable read". Empty keeps the backend default.
	Isolation string `yaml:"isolation"`

	// JoinMode controls how connections wrapped around externally
	// managed transactions participate: "take-over", "savepoint", or
	// "conditional".
	JoinMode string `yaml:"join_mode"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides on top.
//
// The loading order is:
//  1. Defaults
//  2. YAML file values
//  3. Environment variables (TIDESQL_SECTION_KEY, e.g. TIDESQL_DATABASE_URL)
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with defaults applied. The database URL has
// no default and must come from the file or the environment.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Size:            5,
			MaxOverflow:     10,
			CheckoutTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Size: 500,
		},
		Transaction: TransactionConfig{
			JoinMode: "take-over",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TIDESQL_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("TIDESQL_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.Size = n
		}
	}
	if v := os.Getenv("TIDESQL_POOL_MAX_OVERFLOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.MaxOverflow = n
		}
	}
	if v := os.Getenv("TIDESQL_POOL_PRE_PING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Pool.PrePing = b
		}
	}
	if v := os.Getenv("TIDESQL_TRANSACTION_ISOLATION"); v != "" {
		cfg.Transaction.Isolation = v
	}
	if v := os.Getenv("TIDESQL_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// isolationLevels mirrors the levels the dialects accept for
// SET TRANSACTION.
var isolationLevels = map[string]bool{
	"read uncommitted": true,
	"read committed":   true,
	"repeatable read":  true,
	"serializable":     true,
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		errs = append(errs, "database.url is required (set TIDESQL_DATABASE_URL)")
	}
	if c.Pool.Size < 1 {
		errs = append(errs, "pool.size must be at least 1")
	}
	if c.Pool.MaxOverflow < 0 {
		errs = append(errs, "pool.max_overflow must not be negative")
	}
	if c.Pool.CheckoutTimeout < 0 {
		errs = append(errs, "pool.checkout_timeout must not be negative")
	}
	if c.Cache.Size < 0 {
		errs = append(errs, "cache.size must not be negative")
	}
	if c.Transaction.Isolation != "" && !isolationLevels[strings.ToLower(c.Transaction.Isolation)] {
		errs = append(errs, fmt.Sprintf("transaction.isolation %q is not a recognized level", c.Transaction.Isolation))
	}
	if _, err := engine.ParseJoinMode(c.Transaction.JoinMode); err != nil {
		errs = append(errs, fmt.Sprintf("transaction.join_mode: %v", err))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// EngineConfig converts the file configuration into an engine.Config.
// Validate must have passed first.
func (c *Config) EngineConfig() engine.Config {
	mode, _ := engine.ParseJoinMode(c.Transaction.JoinMode)
	return engine.Config{
		PoolSize:        c.Pool.Size,
		MaxOverflow:     c.Pool.MaxOverflow,
		CheckoutTimeout: c.Pool.CheckoutTimeout,
		PrePing:         c.Pool.PrePing,
		CacheSize:       c.Cache.Size,
		Isolation:       c.Transaction.Isolation,
		JoinMode:        mode,
		Logger:          c.Logger(),
	}
}

// Logger builds a slog.Logger from the logging settings.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if c.Logging.Pretty {
		return logging.DevLogger
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
