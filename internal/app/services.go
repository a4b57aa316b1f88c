package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/jobs/sweeper"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

type Services struct {
	Inventory      services.InventoryService
	StockAdmin     services.StockAdminService
	StockStatus    services.StockStatusService
	StockAnalytics services.StockAnalyticsService

	Sweeper *sweeper.Sweeper
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	// The cache is optional: without REDIS_ADDR the read side goes straight
	// to the database.
	statusCache, err := redis.NewStatusCache(log)
	if err != nil {
		log.Warn("Stock status cache disabled", "error", err)
		statusCache = nil
	}

	inventory := services.NewInventoryService(db, log, reposet.Product, reposet.StockRecord, reposet.StockReservation, cfg.ReservationTTL)
	stockAdmin := services.NewStockAdminService(db, log, reposet.Product, reposet.StockRecord, statusCache, cfg.BulkUpdateLimit)
	stockStatus := services.NewStockStatusService(db, log, reposet.StockRecord, statusCache, cfg.StatusCacheTTL)
	stockAnalytics := services.NewStockAnalyticsService(db, log, reposet.StockReservation)

	expirySweeper := sweeper.New(db, log, reposet.StockReservation, inventory, cfg.SweepInterval, cfg.SweepBatchSize, cfg.SweepWorkers)

	return Services{
		Inventory:      inventory,
		StockAdmin:     stockAdmin,
		StockStatus:    stockStatus,
		StockAnalytics: stockAnalytics,
		Sweeper:        expirySweeper,
	}
}
