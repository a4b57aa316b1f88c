package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRecord holds the on-hand/reserved counters for one product, or for one
// variant of a product when VariantID is set. One row exists per sellable
// unit; invariant 0 <= reserved <= on_hand whenever track_quantity is true.
type StockRecord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_stock_product_variant" json:"product_id"`
	VariantID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_stock_product_variant;column:variant_id" json:"variant_id,omitempty"`

	OnHand            int  `gorm:"not null;default:0;column:on_hand" json:"on_hand"`
	Reserved          int  `gorm:"not null;default:0;column:reserved" json:"reserved"`
	LowStockThreshold int  `gorm:"not null;default:5;column:low_stock_threshold" json:"low_stock_threshold"`
	TrackQuantity     bool `gorm:"not null;default:true;column:track_quantity" json:"track_quantity"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StockRecord) TableName() string { return "stock_record" }

func (sr *StockRecord) BeforeCreate(tx *gorm.DB) error {
	if sr.ID == uuid.Nil {
		sr.ID = uuid.New()
	}
	return nil
}

// Available is the quantity sellable right now.
func (sr *StockRecord) Available() int {
	return sr.OnHand - sr.Reserved
}

// Stock status values exposed by the read side.
const (
	StockStatusInStock    = "in-stock"
	StockStatusLowStock   = "low-stock"
	StockStatusOutOfStock = "out-of-stock"
	StockStatusUnlimited  = "unlimited"
)

// Status derives the read-side projection for this record.
func (sr *StockRecord) Status() string {
	if !sr.TrackQuantity {
		return StockStatusUnlimited
	}
	available := sr.Available()
	switch {
	case available <= 0:
		return StockStatusOutOfStock
	case available <= sr.LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
