package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
	"github.com/yungbote/storefront-backend/internal/server"
)

func wireRouter(log *logger.Logger, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                 log,
		HealthHandler:       handlerset.Health,
		InventoryHandler:    handlerset.Inventory,
		StockStatusHandler:  handlerset.StockStatus,
		AdminStockHandler:   handlerset.AdminStock,
		AdminAuthMiddleware: middlewareset.AdminAuth,
	})
}
