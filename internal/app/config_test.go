package app

import (
	"testing"
	"time"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(testLogger(t))

	if cfg.ReservationTTL != 15*time.Minute {
		t.Fatalf("reservation ttl = %s, want 15m", cfg.ReservationTTL)
	}
	if !cfg.SweepEnabled {
		t.Fatalf("sweeper should be enabled by default")
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("sweep interval = %s, want 1m", cfg.SweepInterval)
	}
	if cfg.SweepBatchSize != 200 || cfg.SweepWorkers != 4 {
		t.Fatalf("sweep tuning = (%d,%d), want (200,4)", cfg.SweepBatchSize, cfg.SweepWorkers)
	}
	if cfg.BulkUpdateLimit != 100 {
		t.Fatalf("bulk limit = %d, want 100", cfg.BulkUpdateLimit)
	}
	if cfg.StatusCacheTTL != 30*time.Second {
		t.Fatalf("status cache ttl = %s, want 30s", cfg.StatusCacheTTL)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SWEEP_ENABLED", "false")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "5")
	t.Setenv("RESERVATION_TTL_SECONDS", "120")

	cfg := LoadConfig(testLogger(t))

	if cfg.SweepEnabled {
		t.Fatalf("SWEEP_ENABLED=false should disable the sweeper")
	}
	if cfg.SweepInterval != 5*time.Second {
		t.Fatalf("sweep interval = %s, want 5s", cfg.SweepInterval)
	}
	if cfg.ReservationTTL != 2*time.Minute {
		t.Fatalf("reservation ttl = %s, want 2m", cfg.ReservationTTL)
	}

	// Unparseable values fall back to the default rather than failing boot.
	t.Setenv("SWEEP_ENABLED", "not-a-bool")
	cfg = LoadConfig(testLogger(t))
	if !cfg.SweepEnabled {
		t.Fatalf("unparseable SWEEP_ENABLED should fall back to enabled")
	}
}
