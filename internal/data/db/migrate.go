package db

import (
	types "github.com/yungbote/storefront-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog identity
		// =========================
		&types.Product{},
		&types.ProductVariant{},

		// =========================
		// Inventory (counters + holds, same database so counter
		// mutations and reservation transitions commit together)
		// =========================
		&types.StockRecord{},
		&types.StockReservation{},
	)
}
