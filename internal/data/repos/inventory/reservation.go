package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// StockReservationRepo persists holds and their status transitions. The two
// Claim methods are conditional single-statement UPDATEs keyed on
// status='active': whichever caller's statement lands first wins the
// transition, everyone else sees false. That is what makes confirm, release
// and expiry safe to race against each other.
type StockReservationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *types.StockReservation) (*types.StockReservation, error)
	GetByID(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) (*types.StockReservation, error)

	// FindActiveMatch returns the oldest active reservation matching the
	// item line, or nil when none exists. holderID == "" matches any holder.
	FindActiveMatch(ctx context.Context, tx *gorm.DB, holderID string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*types.StockReservation, error)

	// FindConfirmedForOrder is the confirm idempotency lookup: the oldest
	// reservation already confirmed for this order and item shape, excluding
	// excludeIDs. The exclusion keeps duplicate item lines in one confirm
	// call from all re-acknowledging the same confirmed reservation.
	FindConfirmedForOrder(ctx context.Context, tx *gorm.DB, orderID string, productID uuid.UUID, variantID *uuid.UUID, quantity int, excludeIDs []uuid.UUID) (*types.StockReservation, error)

	ClaimConfirm(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, orderID string) (bool, error)
	ClaimRelease(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, status, reason string) (bool, error)

	FindExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*types.StockReservation, error)
	ActiveTotals(ctx context.Context, tx *gorm.DB) (count int64, quantity int64, err error)
}

type stockReservationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStockReservationRepo(db *gorm.DB, baseLog *logger.Logger) StockReservationRepo {
	repoLog := baseLog.With("repo", "StockReservationRepo")
	return &stockReservationRepo{db: db, log: repoLog}
}

func (rr *stockReservationRepo) Create(ctx context.Context, tx *gorm.DB, reservation *types.StockReservation) (*types.StockReservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if reservation == nil {
		return nil, errors.New("reservation required")
	}

	if err := transaction.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, err
	}
	return reservation, nil
}

func (rr *stockReservationRepo) GetByID(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) (*types.StockReservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.StockReservation
	if err := transaction.WithContext(ctx).
		Where("id = ?", reservationID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *stockReservationRepo) FindActiveMatch(ctx context.Context, tx *gorm.DB, holderID string, productID uuid.UUID, variantID *uuid.UUID, quantity int) (*types.StockReservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	q := transaction.WithContext(ctx).
		Where("status = ? AND product_id = ? AND quantity = ?", types.ReservationStatusActive, productID, quantity)
	if holderID != "" {
		q = q.Where("holder_id = ?", holderID)
	}
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}

	var result types.StockReservation
	err := q.Order("created_at ASC").First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *stockReservationRepo) FindConfirmedForOrder(ctx context.Context, tx *gorm.DB, orderID string, productID uuid.UUID, variantID *uuid.UUID, quantity int, excludeIDs []uuid.UUID) (*types.StockReservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	q := transaction.WithContext(ctx).
		Where("status = ? AND order_id = ? AND product_id = ? AND quantity = ?",
			types.ReservationStatusConfirmed, orderID, productID, quantity)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}

	var result types.StockReservation
	err := q.Order("created_at ASC").First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *stockReservationRepo) ClaimConfirm(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, orderID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockReservation{}).
		Where("id = ? AND status = ?", reservationID, types.ReservationStatusActive).
		Updates(map[string]any{
			"status":   types.ReservationStatusConfirmed,
			"order_id": orderID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (rr *stockReservationRepo) ClaimRelease(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, status, reason string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if status != types.ReservationStatusReleased && status != types.ReservationStatusExpired {
		return false, errors.New("release status must be released or expired")
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockReservation{}).
		Where("id = ? AND status = ?", reservationID, types.ReservationStatusActive).
		Updates(map[string]any{
			"status": status,
			"reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (rr *stockReservationRepo) FindExpired(ctx context.Context, tx *gorm.DB, cutoff time.Time, limit int) ([]*types.StockReservation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.StockReservation
	q := transaction.WithContext(ctx).
		Where("status = ? AND expires_at < ?", types.ReservationStatusActive, cutoff).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *stockReservationRepo) ActiveTotals(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var row struct {
		Count    int64
		Quantity int64
	}
	err := transaction.WithContext(ctx).
		Model(&types.StockReservation{}).
		Select("COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity").
		Where("status = ?", types.ReservationStatusActive).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Quantity, nil
}
