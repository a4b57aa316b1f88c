package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type Repos struct {
	Product          repos.ProductRepo
	StockRecord      repos.StockRecordRepo
	StockReservation repos.StockReservationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Product:          repos.NewProductRepo(db, log),
		StockRecord:      repos.NewStockRecordRepo(db, log),
		StockReservation: repos.NewStockReservationRepo(db, log),
	}
}
