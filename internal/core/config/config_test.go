package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfigWithDefaultPolicy(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  port: 8080
  host: "127.0.0.1"
  mode: "release"
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
boat:
  id: "sv-meridian"
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if len(cfg.Policy.Tiers) != 2 {
		t.Fatalf("expected 2 default tiers, got %d", len(cfg.Policy.Tiers))
	}
	if cfg.Policy.PurgeAfter != 90*24*time.Hour {
		t.Fatalf("expected default 90d purge cutoff, got %s", cfg.Policy.PurgeAfter)
	}
	if cfg.Retention.Schedule != "0 3 * * *" {
		t.Fatalf("expected default schedule, got %q", cfg.Retention.Schedule)
	}
}

func TestLoad_CustomTiersOverrideDefaults(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
boat:
  id: "sv-meridian"
retention:
  step: "12h"
  purge_after: "30d"
  tiers:
    - name: "5m"
      min_age: "2d"
      max_age: "30d"
      bucket: "5m"
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)

	if len(cfg.Policy.Tiers) != 1 {
		t.Fatalf("expected 1 tier, got %d", len(cfg.Policy.Tiers))
	}
	tier := cfg.Policy.Tiers[0]
	if tier.Name != "5m" || tier.BucketWidth != 5*time.Minute {
		t.Fatalf("unexpected tier %+v", tier)
	}
	if tier.MinAge != 48*time.Hour || tier.MaxAge != 30*24*time.Hour {
		t.Fatalf("unexpected tier ages %s..%s", tier.MinAge, tier.MaxAge)
	}
	if cfg.Policy.Step != 12*time.Hour {
		t.Fatalf("expected 12h step, got %s", cfg.Policy.Step)
	}
	if cfg.Policy.PurgeAfter != 30*24*time.Hour {
		t.Fatalf("expected 30d purge cutoff, got %s", cfg.Policy.PurgeAfter)
	}
}

func TestLoad_InvalidTierSpanFailsStartup(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
boat:
  id: "sv-meridian"
retention:
  tiers:
    - name: "bad"
      min_age: "soon"
      max_age: "30d"
      bucket: "1m"
`)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "invalid retention policy") {
		t.Fatalf("expected retention policy error, got %v", err)
	}
}

func TestLoad_TierPastPurgeCutoffFailsStartup(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
boat:
  id: "sv-meridian"
retention:
  purge_after: "10d"
  tiers:
    - name: "1m"
      min_age: "7d"
      max_age: "30d"
      bucket: "1m"
`)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "extends past purge cutoff") {
		t.Fatalf("expected purge cutoff error, got %v", err)
	}
}

func TestLoad_MissingBoatIDFailsStartup(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
`)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "boat.id is required") {
		t.Fatalf("expected boat.id error, got %v", err)
	}
}

func TestLoad_MissingSignalKURLFailsWhenCollectorEnabled(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
boat:
  id: "sv-meridian"
`)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "signalk.url is required") {
		t.Fatalf("expected signalk.url error, got %v", err)
	}
}

func TestLoad_DisabledCollectorSkipsSignalKValidation(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
boat:
  id: "sv-meridian"
collector:
  enabled: false
`)

	_, err := Load(cfgPath)
	requireNoError(t, err)
}

func TestLoad_InvalidServerPortFailsStartup(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  port: -1
database:
  dsn: "postgres://pi:pi@localhost:5432/pi?sslmode=disable"
signalk:
  url: "http://localhost:3000"
boat:
  id: "sv-meridian"
`)

	_, err := Load(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "invalid server.port") {
		t.Fatalf("expected invalid server.port error, got %v", err)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "pi.yaml")
	requireNoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
