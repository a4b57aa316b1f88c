package repos

import (
	"github.com/yungbote/storefront-backend/internal/data/repos/catalog"
	"github.com/yungbote/storefront-backend/internal/data/repos/inventory"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepo = catalog.ProductRepo

type StockRecordRepo = inventory.StockRecordRepo
type StockReservationRepo = inventory.StockReservationRepo

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, baseLog)
}

func NewStockRecordRepo(db *gorm.DB, baseLog *logger.Logger) StockRecordRepo {
	return inventory.NewStockRecordRepo(db, baseLog)
}

func NewStockReservationRepo(db *gorm.DB, baseLog *logger.Logger) StockReservationRepo {
	return inventory.NewStockReservationRepo(db, baseLog)
}
