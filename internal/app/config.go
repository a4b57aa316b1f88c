package app

import (
	"time"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
	"github.com/yungbote/storefront-backend/internal/utils"
)

type Config struct {
	JWTSecretKey string

	ReservationTTL time.Duration
	SweepEnabled   bool
	SweepInterval  time.Duration
	SweepBatchSize int
	SweepWorkers   int

	BulkUpdateLimit int
	StatusCacheTTL  time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	reservationTTLSeconds := utils.GetEnvAsInt("RESERVATION_TTL_SECONDS", 900, log)
	sweepEnabled := utils.GetEnvAsBool("SWEEP_ENABLED", true, log)
	sweepIntervalSeconds := utils.GetEnvAsInt("SWEEP_INTERVAL_SECONDS", 60, log)
	sweepBatchSize := utils.GetEnvAsInt("SWEEP_BATCH_SIZE", 200, log)
	sweepWorkers := utils.GetEnvAsInt("SWEEP_WORKERS", 4, log)
	bulkUpdateLimit := utils.GetEnvAsInt("BULK_UPDATE_LIMIT", 100, log)
	statusCacheTTLSeconds := utils.GetEnvAsInt("STATUS_CACHE_TTL_SECONDS", 30, log)

	return Config{
		JWTSecretKey:    jwtSecretKey,
		ReservationTTL:  time.Duration(reservationTTLSeconds) * time.Second,
		SweepEnabled:    sweepEnabled,
		SweepInterval:   time.Duration(sweepIntervalSeconds) * time.Second,
		SweepBatchSize:  sweepBatchSize,
		SweepWorkers:    sweepWorkers,
		BulkUpdateLimit: bulkUpdateLimit,
		StatusCacheTTL:  time.Duration(statusCacheTTLSeconds) * time.Second,
	}
}
