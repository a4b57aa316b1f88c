package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	apperrors "github.com/yungbote/storefront-backend/internal/pkg/errors"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// DefaultBulkUpdateLimit caps how many entries one bulk call may carry.
const DefaultBulkUpdateLimit = 100

type VariantStockUpdate struct {
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	OnHand    int       `json:"on_hand"`
	Available int       `json:"available"`
	Reason    string    `json:"reason"`
}

// BulkStockEntry carries an absolute on_hand target, not a delta. This is the
// one admin operation with replace semantics; UpdateVariantStock is the
// delta-based one.
type BulkStockEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason,omitempty"`
}

type BulkSuccessEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	OnHand    int       `json:"on_hand"`
	Available int       `json:"available"`
}

type BulkFailedEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

type BulkStockResult struct {
	Total      int                `json:"total"`
	Successful []BulkSuccessEntry `json:"successful"`
	Failed     []BulkFailedEntry  `json:"failed"`
}

// StockAdminService is the direct-mutation surface for administrators. It
// bypasses the reservation lifecycle but never its invariants: any change
// that would leave on_hand below the outstanding holds is rejected, not
// clamped.
type StockAdminService interface {
	// UpdateVariantStock applies a signed quantityChange to a variant's
	// on_hand. It fails with INVARIANT_VIOLATION when the result would
	// undercut active holds; release or confirm those holds first.
	UpdateVariantStock(ctx context.Context, productID, variantID uuid.UUID, quantityChange int, reason string) (*VariantStockUpdate, error)

	// BulkStockUpdate applies absolute on_hand targets per product. Entries
	// are processed independently: one entry's failure never rolls back
	// another entry's success, and failures come back per entry so the
	// caller can retry only the failed subset.
	BulkStockUpdate(ctx context.Context, updates []BulkStockEntry, performedBy string) (*BulkStockResult, error)
}

type stockAdminService struct {
	db          *gorm.DB
	log         *logger.Logger
	productRepo repos.ProductRepo
	stockRepo   repos.StockRecordRepo
	statusCache redis.StatusCache
	bulkLimit   int
}

func NewStockAdminService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, stockRepo repos.StockRecordRepo, statusCache redis.StatusCache, bulkLimit int) StockAdminService {
	serviceLog := log.With("service", "StockAdminService")
	if bulkLimit <= 0 {
		bulkLimit = DefaultBulkUpdateLimit
	}
	return &stockAdminService{
		db:          db,
		log:         serviceLog,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		statusCache: statusCache,
		bulkLimit:   bulkLimit,
	}
}

func (sa *stockAdminService) UpdateVariantStock(ctx context.Context, productID, variantID uuid.UUID, quantityChange int, reason string) (*VariantStockUpdate, error) {
	if quantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity change must be non-zero", apperrors.ErrInvalidArgument)
	}

	var result *VariantStockUpdate
	err := sa.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := sa.stockRepo.GetForItem(ctx, tx, productID, &variantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			exists, lookupErr := sa.productRepo.Exists(ctx, tx, productID)
			if lookupErr == nil && !exists {
				return &apperrors.StockError{
					Code:      apperrors.CodeProductNotFound,
					ProductID: productID.String(),
					VariantID: variantID.String(),
				}
			}
			return &apperrors.StockError{
				Code:      apperrors.CodeVariantNotFound,
				ProductID: productID.String(),
				VariantID: variantID.String(),
			}
		}
		if err != nil {
			return err
		}

		ok, err := sa.stockRepo.AdjustOnHand(ctx, tx, rec.ID, quantityChange)
		if err != nil {
			return err
		}
		if !ok {
			return &apperrors.StockError{
				Code:      apperrors.CodeInvariantViolation,
				ProductID: productID.String(),
				VariantID: variantID.String(),
				Requested: quantityChange,
				Available: rec.Available(),
			}
		}

		updated, err := sa.stockRepo.GetByID(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		result = &VariantStockUpdate{
			ProductID: productID,
			VariantID: variantID,
			OnHand:    updated.OnHand,
			Available: updated.Available(),
			Reason:    reason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sa.invalidateStatus(ctx, productID)
	sa.log.Info("Adjusted variant stock",
		"product_id", productID,
		"variant_id", variantID,
		"quantity_change", quantityChange,
		"on_hand", result.OnHand,
		"reason", reason,
	)
	return result, nil
}

func (sa *stockAdminService) BulkStockUpdate(ctx context.Context, updates []BulkStockEntry, performedBy string) (*BulkStockResult, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no updates", apperrors.ErrInvalidArgument)
	}
	if len(updates) > sa.bulkLimit {
		return nil, fmt.Errorf("%w: at most %d updates per call", apperrors.ErrInvalidArgument, sa.bulkLimit)
	}

	result := &BulkStockResult{Total: len(updates)}

	for _, entry := range updates {
		success, failReason := sa.applyBulkEntry(ctx, entry)
		if success != nil {
			result.Successful = append(result.Successful, *success)
			sa.invalidateStatus(ctx, entry.ProductID)
		} else {
			result.Failed = append(result.Failed, BulkFailedEntry{
				ProductID: entry.ProductID,
				Reason:    failReason,
			})
		}
	}

	sa.log.Info("Bulk stock update",
		"performed_by", performedBy,
		"total", result.Total,
		"successful", len(result.Successful),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (sa *stockAdminService) applyBulkEntry(ctx context.Context, entry BulkStockEntry) (*BulkSuccessEntry, string) {
	if entry.Quantity < 0 {
		return nil, "quantity must be >= 0"
	}

	var success *BulkSuccessEntry
	err := sa.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := sa.stockRepo.GetForItem(ctx, tx, entry.ProductID, nil)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperrors.StockError{
				Code:      apperrors.CodeProductNotFound,
				ProductID: entry.ProductID.String(),
			}
		}
		if err != nil {
			return err
		}

		ok, err := sa.stockRepo.SetOnHand(ctx, tx, rec.ID, entry.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return &apperrors.StockError{
				Code:      apperrors.CodeInvariantViolation,
				ProductID: entry.ProductID.String(),
				Requested: entry.Quantity,
			}
		}

		updated, err := sa.stockRepo.GetByID(ctx, tx, rec.ID)
		if err != nil {
			return err
		}
		success = &BulkSuccessEntry{
			ProductID: entry.ProductID,
			OnHand:    updated.OnHand,
			Available: updated.Available(),
		}
		return nil
	})
	if err != nil {
		if se := apperrors.AsStockError(err); se != nil {
			switch se.Code {
			case apperrors.CodeProductNotFound:
				return nil, "product not found"
			case apperrors.CodeInvariantViolation:
				return nil, "target on_hand is below outstanding reservations"
			}
		}
		return nil, err.Error()
	}
	return success, ""
}

func (sa *stockAdminService) invalidateStatus(ctx context.Context, productID uuid.UUID) {
	if sa.statusCache == nil {
		return
	}
	sa.statusCache.Invalidate(ctx, StockStatusCacheKey(productID))
}
