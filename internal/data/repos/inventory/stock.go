package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// StockRecordRepo owns every mutation of the on_hand/reserved counters. Each
// mutating method is one conditionally-guarded UPDATE: the availability check
// and the increment happen in the same statement, so two racing callers can
// never both pass the check before either commits. A false return means the
// guard rejected the update (the row exists but the condition failed); the
// caller distinguishes that from a missing row with GetForItem/GetByID.
type StockRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.StockRecord) ([]*types.StockRecord, error)
	GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.StockRecord, error)
	GetForItem(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (*types.StockRecord, error)
	GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.StockRecord, error)

	Reserve(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error)
	ConfirmDeduct(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error)
	Release(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error)
	AdjustOnHand(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, delta int) (bool, error)
	SetOnHand(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error)
}

type stockRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStockRecordRepo(db *gorm.DB, baseLog *logger.Logger) StockRecordRepo {
	repoLog := baseLog.With("repo", "StockRecordRepo")
	return &stockRecordRepo{db: db, log: repoLog}
}

func (sr *stockRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.StockRecord) ([]*types.StockRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(records) == 0 {
		return []*types.StockRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (sr *stockRecordRepo) GetByID(ctx context.Context, tx *gorm.DB, recordID uuid.UUID) (*types.StockRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.StockRecord
	if err := transaction.WithContext(ctx).
		Where("id = ?", recordID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *stockRecordRepo) GetForItem(ctx context.Context, tx *gorm.DB, productID uuid.UUID, variantID *uuid.UUID) (*types.StockRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := transaction.WithContext(ctx).Where("product_id = ?", productID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}

	var result types.StockRecord
	if err := q.First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *stockRecordRepo) GetByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []uuid.UUID) ([]*types.StockRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.StockRecord
	if len(productIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Reserve increments reserved by quantity iff the record tracks quantity and
// has at least quantity units available.
func (sr *stockRecordRepo) Reserve(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ? AND track_quantity = ? AND on_hand - reserved >= ?", recordID, true, quantity).
		Update("reserved", gorm.Expr("reserved + ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ConfirmDeduct converts a hold into a permanent deduction: on_hand and
// reserved both drop by quantity, so available is unchanged.
func (sr *stockRecordRepo) ConfirmDeduct(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ? AND reserved >= ? AND on_hand >= ?", recordID, quantity, quantity).
		Updates(map[string]any{
			"on_hand":  gorm.Expr("on_hand - ?", quantity),
			"reserved": gorm.Expr("reserved - ?", quantity),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release returns quantity units from reserved to available. on_hand is never
// touched here.
func (sr *stockRecordRepo) Release(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ? AND reserved >= ?", recordID, quantity).
		Update("reserved", gorm.Expr("reserved - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AdjustOnHand applies a signed delta to on_hand. The guard refuses any result
// where on_hand would drop below reserved or below zero; active holds take
// precedence over manual corrections.
func (sr *stockRecordRepo) AdjustOnHand(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, delta int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ? AND on_hand + ? >= reserved AND on_hand + ? >= 0", recordID, delta, delta).
		Update("on_hand", gorm.Expr("on_hand + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetOnHand replaces on_hand with an absolute target, refused when the target
// would undercut outstanding holds.
func (sr *stockRecordRepo) SetOnHand(ctx context.Context, tx *gorm.DB, recordID uuid.UUID, quantity int) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if quantity < 0 {
		return false, errors.New("on_hand target must be >= 0")
	}

	res := transaction.WithContext(ctx).
		Model(&types.StockRecord{}).
		Where("id = ? AND reserved <= ?", recordID, quantity).
		Update("on_hand", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
