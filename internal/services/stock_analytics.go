package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type StockDistribution struct {
	InStock    int64 `json:"in_stock"`
	LowStock   int64 `json:"low_stock"`
	OutOfStock int64 `json:"out_of_stock"`
	Untracked  int64 `json:"untracked"`
}

type LowStockItem struct {
	ProductID         uuid.UUID  `json:"product_id"`
	VariantID         *uuid.UUID `json:"variant_id,omitempty"`
	OnHand            int        `json:"on_hand"`
	Reserved          int        `json:"reserved"`
	Available         int        `json:"available"`
	LowStockThreshold int        `json:"low_stock_threshold"`
}

type ReservationTotals struct {
	ActiveCount    int64 `json:"active_count"`
	ActiveQuantity int64 `json:"active_quantity"`
}

// StockAnalyticsService serves aggregate admin views over the stock record
// collection. Read-only, not concurrency-critical.
type StockAnalyticsService interface {
	Distribution(ctx context.Context) (*StockDistribution, error)
	LowStock(ctx context.Context, limit int) ([]LowStockItem, error)
	ReservationTotals(ctx context.Context) (*ReservationTotals, error)
}

type stockAnalyticsService struct {
	db              *gorm.DB
	log             *logger.Logger
	reservationRepo repos.StockReservationRepo
}

func NewStockAnalyticsService(db *gorm.DB, log *logger.Logger, reservationRepo repos.StockReservationRepo) StockAnalyticsService {
	serviceLog := log.With("service", "StockAnalyticsService")
	return &stockAnalyticsService{
		db:              db,
		log:             serviceLog,
		reservationRepo: reservationRepo,
	}
}

func (sa *stockAnalyticsService) Distribution(ctx context.Context) (*StockDistribution, error) {
	var dist StockDistribution
	err := sa.db.WithContext(ctx).
		Model(&types.StockRecord{}).
		Select(`
			COALESCE(SUM(CASE WHEN NOT track_quantity THEN 1 ELSE 0 END), 0) AS untracked,
			COALESCE(SUM(CASE WHEN track_quantity AND on_hand - reserved <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN track_quantity AND on_hand - reserved > 0 AND on_hand - reserved <= low_stock_threshold THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN track_quantity AND on_hand - reserved > low_stock_threshold THEN 1 ELSE 0 END), 0) AS in_stock`).
		Scan(&dist).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

func (sa *stockAnalyticsService) LowStock(ctx context.Context, limit int) ([]LowStockItem, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []*types.StockRecord
	err := sa.db.WithContext(ctx).
		Where("track_quantity = ? AND on_hand - reserved > 0 AND on_hand - reserved <= low_stock_threshold", true).
		Order("on_hand - reserved ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(records))
	for _, rec := range records {
		items = append(items, LowStockItem{
			ProductID:         rec.ProductID,
			VariantID:         rec.VariantID,
			OnHand:            rec.OnHand,
			Reserved:          rec.Reserved,
			Available:         rec.Available(),
			LowStockThreshold: rec.LowStockThreshold,
		})
	}
	return items, nil
}

func (sa *stockAnalyticsService) ReservationTotals(ctx context.Context) (*ReservationTotals, error) {
	count, quantity, err := sa.reservationRepo.ActiveTotals(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &ReservationTotals{
		ActiveCount:    count,
		ActiveQuantity: quantity,
	}, nil
}
