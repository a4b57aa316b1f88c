package domain

import (
	"github.com/yungbote/storefront-backend/internal/domain/catalog"
	"github.com/yungbote/storefront-backend/internal/domain/inventory"
)

type Product = catalog.Product
type ProductVariant = catalog.ProductVariant

type StockRecord = inventory.StockRecord
type StockReservation = inventory.StockReservation

const (
	ReservationStatusActive    = inventory.ReservationStatusActive
	ReservationStatusConfirmed = inventory.ReservationStatusConfirmed
	ReservationStatusReleased  = inventory.ReservationStatusReleased
	ReservationStatusExpired   = inventory.ReservationStatusExpired

	ReleaseReasonManual        = inventory.ReleaseReasonManual
	ReleaseReasonPaymentFailed = inventory.ReleaseReasonPaymentFailed
	ReleaseReasonCartAbandoned = inventory.ReleaseReasonCartAbandoned
	ReleaseReasonExpired       = inventory.ReleaseReasonExpired
	ReleaseReasonBatchRollback = inventory.ReleaseReasonBatchRollback

	StockStatusInStock    = inventory.StockStatusInStock
	StockStatusLowStock   = inventory.StockStatusLowStock
	StockStatusOutOfStock = inventory.StockStatusOutOfStock
	StockStatusUnlimited  = inventory.StockStatusUnlimited
)
