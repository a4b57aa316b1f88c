package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/http/handlers"
	"github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler      *handlers.HealthHandler
	InventoryHandler   *handlers.InventoryHandler
	StockStatusHandler *handlers.StockStatusHandler
	AdminStockHandler  *handlers.AdminStockHandler

	AdminAuthMiddleware *middleware.AdminAuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS())

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		// Cart/checkout collaborators
		api.POST("/inventory/reserve", cfg.InventoryHandler.Reserve)
		api.POST("/inventory/confirm", cfg.InventoryHandler.Confirm)
		api.POST("/inventory/release", cfg.InventoryHandler.Release)

		// Storefront read side
		api.POST("/stock/status", cfg.StockStatusHandler.GetStockStatus)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AdminAuthMiddleware.RequireAdmin())
	{
		admin.PATCH("/products/:productId/variants/:variantId/stock", cfg.AdminStockHandler.UpdateVariantStock)
		admin.POST("/stock/bulk", cfg.AdminStockHandler.BulkStockUpdate)
		admin.GET("/stock/analytics", cfg.AdminStockHandler.StockAnalytics)
		admin.GET("/stock/low", cfg.AdminStockHandler.LowStock)
	}

	return router
}
