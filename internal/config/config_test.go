package config

import (
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_SERVICE_HOST", "redis.internal")
	t.Setenv("ARCHIVE_BUCKET", "session-archive")

	var cfg Config
	cfg.Database.Port = 5432
	applyEnv(&cfg)

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 6543 {
		t.Fatalf("database overrides not applied: %+v", cfg.Database)
	}
	if cfg.Redis.Addr != "redis.internal:6379" {
		t.Fatalf("unexpected redis addr %q", cfg.Redis.Addr)
	}
	if cfg.Archive.Bucket != "session-archive" {
		t.Fatalf("unexpected bucket %q", cfg.Archive.Bucket)
	}
}

func TestApplyEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	var cfg Config
	cfg.Database.Port = 5432
	applyEnv(&cfg)
	if cfg.Database.Port != 5432 {
		t.Fatalf("expected port to stay 5432, got %d", cfg.Database.Port)
	}
}

func TestDurations(t *testing.T) {
	var cfg Config
	cfg.Reconcile.SaveLockTTLSeconds = 30
	cfg.Reconcile.DraftTTLHours = 2
	cfg.Reconcile.StoreIdleMinutes = 15
	if cfg.SaveLockTTL() != 30*time.Second || cfg.DraftTTL() != 2*time.Hour || cfg.StoreIdle() != 15*time.Minute {
		t.Fatalf("unexpected durations %v %v %v", cfg.SaveLockTTL(), cfg.DraftTTL(), cfg.StoreIdle())
	}
}
