package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/mailbradsimmscom/pi/internal/retention"
)

// Config represents the top-level application config plus the retention
// policy resolved from the tier definitions.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	SignalK   SignalKConfig   `koanf:"signalk"`
	Boat      BoatConfig      `koanf:"boat"`
	Collector CollectorConfig `koanf:"collector"`
	Retention RetentionConfig `koanf:"retention"`
	Log       LogConfig       `koanf:"log"`

	// Policy is populated by Load after parsing the tier definitions.
	Policy retention.Policy `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type SignalKConfig struct {
	URL     string `koanf:"url"`
	Token   string `koanf:"token"`
	Timeout string `koanf:"timeout"`
}

type BoatConfig struct {
	ID string `koanf:"id"`
}

type CollectorConfig struct {
	Enabled      bool   `koanf:"enabled"`
	PollInterval string `koanf:"poll_interval"`
}

type RetentionConfig struct {
	Enabled    bool         `koanf:"enabled"`
	Schedule   string       `koanf:"schedule"` // cron expression
	DryRun     bool         `koanf:"dry_run"`
	Step       string       `koanf:"step"`
	PurgeAfter string       `koanf:"purge_after"`
	Tiers      []TierConfig `koanf:"tiers"`
}

// TierConfig is one downsampling tier as written in config. Spans accept
// Go duration syntax plus an "Xd" days suffix.
type TierConfig struct {
	Name   string `koanf:"name"`
	MinAge string `koanf:"min_age"`
	MaxAge string `koanf:"max_age"`
	Bucket string `koanf:"bucket"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Boat.ID) == "" {
		return fmt.Errorf("boat.id is required")
	}

	if c.Collector.Enabled {
		if strings.TrimSpace(c.SignalK.URL) == "" {
			return fmt.Errorf("signalk.url is required when the collector is enabled")
		}
		if _, err := time.ParseDuration(c.SignalK.Timeout); err != nil {
			return fmt.Errorf("invalid signalk.timeout %q: %w", c.SignalK.Timeout, err)
		}
		interval, err := time.ParseDuration(c.Collector.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid collector.poll_interval %q: %w", c.Collector.PollInterval, err)
		}
		if interval <= 0 {
			return fmt.Errorf("collector.poll_interval must be > 0")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}

	return nil
}

// ParsedTimeout returns the parsed per-request timeout. Validate has already
// checked the string when the collector is enabled.
func (c SignalKConfig) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ParsedPollInterval returns the parsed collector cadence.
func (c CollectorConfig) ParsedPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

// buildPolicy resolves the retention section into a runnable policy.
// An empty tiers list falls back to the built-in defaults.
func (r RetentionConfig) buildPolicy() (retention.Policy, error) {
	if len(r.Tiers) == 0 && r.PurgeAfter == "" && r.Step == "" {
		return retention.DefaultPolicy(), nil
	}

	policy := retention.DefaultPolicy()

	if len(r.Tiers) > 0 {
		policy.Tiers = nil
		for _, tc := range r.Tiers {
			minAge, err := retention.ParseSpan(tc.MinAge)
			if err != nil {
				return retention.Policy{}, fmt.Errorf("tier %q min_age: %w", tc.Name, err)
			}
			maxAge, err := retention.ParseSpan(tc.MaxAge)
			if err != nil {
				return retention.Policy{}, fmt.Errorf("tier %q max_age: %w", tc.Name, err)
			}
			bucket, err := retention.ParseSpan(tc.Bucket)
			if err != nil {
				return retention.Policy{}, fmt.Errorf("tier %q bucket: %w", tc.Name, err)
			}
			policy.Tiers = append(policy.Tiers, retention.Tier{
				Name:        tc.Name,
				MinAge:      minAge,
				MaxAge:      maxAge,
				BucketWidth: bucket,
			})
		}
	}

	if r.PurgeAfter != "" {
		purgeAfter, err := retention.ParseSpan(r.PurgeAfter)
		if err != nil {
			return retention.Policy{}, fmt.Errorf("retention.purge_after: %w", err)
		}
		policy.PurgeAfter = purgeAfter
	}

	if r.Step != "" {
		step, err := retention.ParseSpan(r.Step)
		if err != nil {
			return retention.Policy{}, fmt.Errorf("retention.step: %w", err)
		}
		policy.Step = step
	}

	return policy, nil
}

// Load parses config from file + env, validates it, then resolves the
// retention tier definitions into a policy.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"database.dsn":            "",
		"database.max_open_conns": 10,
		"database.max_idle_conns": 5,
		"database.auto_migrate":   true,
		"signalk.url":             "",
		"signalk.token":           "",
		"signalk.timeout":         "10s",
		"boat.id":                 "",
		"collector.enabled":       true,
		"collector.poll_interval": "10s",
		"retention.enabled":       true,
		"retention.schedule":      "0 3 * * *",
		"retention.dry_run":       false,
		"retention.step":          "",
		"retention.purge_after":   "",
		"log.level":               "info",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("PI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PI_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := cfg.Retention.buildPolicy()
	if err != nil {
		return nil, fmt.Errorf("invalid retention policy: %w", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retention policy: %w", err)
	}
	cfg.Policy = policy

	return &cfg, nil
}
