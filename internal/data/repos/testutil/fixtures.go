package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, sku string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:     uuid.New(),
		SKU:    sku,
		Name:   "product " + sku,
		Active: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedVariant(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, sku string) *types.ProductVariant {
	tb.Helper()
	v := &types.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		SKU:       sku,
		Name:      "variant " + sku,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed variant: %v", err)
	}
	return v
}

func SeedStockRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID, onHand int) *types.StockRecord {
	tb.Helper()
	rec := &types.StockRecord{
		ID:                uuid.New(),
		ProductID:         productID,
		VariantID:         variantID,
		OnHand:            onHand,
		Reserved:          0,
		LowStockThreshold: 5,
		TrackQuantity:     true,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed stock record: %v", err)
	}
	return rec
}

func SeedUntrackedStockRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID) *types.StockRecord {
	tb.Helper()
	rec := &types.StockRecord{
		ID:            uuid.New(),
		ProductID:     productID,
		TrackQuantity: false,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed untracked stock record: %v", err)
	}
	// Create omits the zero-valued track_quantity because the column has a
	// default tag, so the DB default (true) wins; write false explicitly.
	if err := tx.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ?", rec.ID).
		Update("track_quantity", false).Error; err != nil {
		tb.Fatalf("seed untracked stock record: %v", err)
	}
	return rec
}

func SeedReservation(tb testing.TB, ctx context.Context, tx *gorm.DB, rec *types.StockRecord, holderID string, quantity int, expiresAt time.Time) *types.StockReservation {
	tb.Helper()
	r := &types.StockReservation{
		ID:            uuid.New(),
		StockRecordID: rec.ID,
		ProductID:     rec.ProductID,
		VariantID:     rec.VariantID,
		Quantity:      quantity,
		HolderID:      holderID,
		Status:        types.ReservationStatusActive,
		ExpiresAt:     expiresAt,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reservation: %v", err)
	}
	// Keep the counters consistent with the outstanding hold.
	if rec.TrackQuantity {
		if err := tx.WithContext(ctx).
			Model(&types.StockRecord{}).
			Where("id = ?", rec.ID).
			Update("reserved", gorm.Expr("reserved + ?", quantity)).Error; err != nil {
			tb.Fatalf("seed reservation counters: %v", err)
		}
	}
	return r
}
