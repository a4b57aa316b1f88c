package app

import (
	"github.com/yungbote/storefront-backend/internal/http/handlers"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Inventory   *handlers.InventoryHandler
	StockStatus *handlers.StockStatusHandler
	AdminStock  *handlers.AdminStockHandler
}

func wireHandlers(serviceset Services) Handlers {
	return Handlers{
		Health:      handlers.NewHealthHandler(),
		Inventory:   handlers.NewInventoryHandler(serviceset.Inventory),
		StockStatus: handlers.NewStockStatusHandler(serviceset.StockStatus),
		AdminStock:  handlers.NewAdminStockHandler(serviceset.StockAdmin, serviceset.StockAnalytics),
	}
}
