package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	apperrors "github.com/yungbote/storefront-backend/internal/pkg/errors"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// txMaxRetries bounds local retries of a transaction that failed for a
// transient reason (e.g. serialization). Retries never leak to callers.
const txMaxRetries = 3

type ReserveItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
}

type ReservedItem struct {
	ReservationID uuid.UUID  `json:"reservation_id"`
	ProductID     uuid.UUID  `json:"product_id"`
	VariantID     *uuid.UUID `json:"variant_id,omitempty"`
	Available     int        `json:"available"`
	Unlimited     bool       `json:"unlimited,omitempty"`
}

type ReserveResult struct {
	ReservationIDs []uuid.UUID    `json:"reservation_ids"`
	Items          []ReservedItem `json:"per_item"`
}

type ConfirmFailedItem struct {
	ProductID uuid.UUID      `json:"product_id"`
	VariantID *uuid.UUID     `json:"variant_id,omitempty"`
	Requested int            `json:"requested"`
	Code      apperrors.Code `json:"code"`
}

type ConfirmResult struct {
	Confirmed []uuid.UUID         `json:"confirmed"`
	Failed    []ConfirmFailedItem `json:"failed"`
}

type ReleaseItem struct {
	ProductID uuid.UUID  `json:"product_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity"`
	HolderID  string     `json:"holder_id,omitempty"`
}

type ReleaseResult struct {
	Released int `json:"released"`
	Skipped  int `json:"skipped"`
}

// InventoryService is the reservation manager: the only writer of the
// reservation lifecycle. Every counter mutation it performs is coupled with
// the reservation transition that caused it inside one database transaction.
type InventoryService interface {
	// Reserve places one hold per item, all-or-nothing: if any item fails,
	// every hold already placed in the same call is released synchronously
	// before the error returns.
	Reserve(ctx context.Context, items []ReserveItem, holderID, sessionID string) (*ReserveResult, error)

	// ConfirmStockReservation converts the holder's matching active holds
	// into permanent deductions stamped with orderID. Idempotent per
	// orderID: items already confirmed for the same order are reported as
	// confirmed again with no further effect. Duplicate item lines in one
	// call each claim a distinct reservation. Items with no matching active
	// hold are reported in Failed and the call returns a
	// RESERVATION_NOT_FOUND error alongside the partial result.
	ConfirmStockReservation(ctx context.Context, orderID string, items []ReserveItem, holderID string) (*ConfirmResult, error)

	// ReleaseReservations releases matching active holds. Entries with no
	// matching active hold are counted as skipped, not errors, so retrying
	// callers are tolerated.
	ReleaseReservations(ctx context.Context, items []ReleaseItem, reason string) (*ReleaseResult, error)

	// ReleaseReservationByID transitions a single reservation out of
	// active (status is released or expired). claimed reports whether this
	// call performed the transition; returned is the quantity put back
	// into availability (0 for an untracked record). A reservation already
	// terminal yields claimed=false with no error. Shared by manual
	// release compensation and the expiry sweeper.
	ReleaseReservationByID(ctx context.Context, reservationID uuid.UUID, status, reason string) (returned int, claimed bool, err error)
}

type inventoryService struct {
	db              *gorm.DB
	log             *logger.Logger
	productRepo     repos.ProductRepo
	stockRepo       repos.StockRecordRepo
	reservationRepo repos.StockReservationRepo
	reservationTTL  time.Duration
}

func NewInventoryService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, stockRepo repos.StockRecordRepo, reservationRepo repos.StockReservationRepo, reservationTTL time.Duration) InventoryService {
	serviceLog := log.With("service", "InventoryService")
	if reservationTTL <= 0 {
		reservationTTL = 15 * time.Minute
	}
	return &inventoryService{
		db:              db,
		log:             serviceLog,
		productRepo:     productRepo,
		stockRepo:       stockRepo,
		reservationRepo: reservationRepo,
		reservationTTL:  reservationTTL,
	}
}

// runInTx runs fn in a transaction, retrying a bounded number of times on
// transient errors. Domain errors and missing rows are never retried.
func (is *inventoryService) runInTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txMaxRetries; attempt++ {
		err = is.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if apperrors.AsStockError(err) != nil || errors.Is(err, gorm.ErrRecordNotFound) || ctx.Err() != nil {
			return err
		}
		is.log.Warn("Transaction failed, retrying", "attempt", attempt+1, "error", err)
	}
	return err
}

func (is *inventoryService) Reserve(ctx context.Context, items []ReserveItem, holderID, sessionID string) (*ReserveResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to reserve", apperrors.ErrInvalidArgument)
	}
	if holderID == "" {
		return nil, fmt.Errorf("%w: holder id required", apperrors.ErrInvalidArgument)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", apperrors.ErrInvalidArgument)
		}
	}

	result := &ReserveResult{}
	var created []*types.StockReservation

	for _, item := range items {
		resv, available, unlimited, err := is.reserveOne(ctx, item, holderID, sessionID)
		if err != nil {
			// The caller must never observe a partially-reserved cart:
			// undo earlier holds before surfacing the failure.
			is.rollbackBatch(ctx, created)
			return nil, err
		}
		created = append(created, resv)
		result.ReservationIDs = append(result.ReservationIDs, resv.ID)
		result.Items = append(result.Items, ReservedItem{
			ReservationID: resv.ID,
			ProductID:     item.ProductID,
			VariantID:     item.VariantID,
			Available:     available,
			Unlimited:     unlimited,
		})
	}

	is.log.Info("Reserved stock",
		"holder_id", holderID,
		"session_id", sessionID,
		"items", len(items),
	)
	return result, nil
}

func (is *inventoryService) reserveOne(ctx context.Context, item ReserveItem, holderID, sessionID string) (*types.StockReservation, int, bool, error) {
	var (
		resv      *types.StockReservation
		available int
		unlimited bool
	)

	err := is.runInTx(ctx, func(tx *gorm.DB) error {
		rec, err := is.stockRepo.GetForItem(ctx, tx, item.ProductID, item.VariantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return is.itemNotFoundError(ctx, tx, item)
		}
		if err != nil {
			return err
		}

		if rec.TrackQuantity {
			ok, err := is.stockRepo.Reserve(ctx, tx, rec.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Lost the guard: report the quantity actually left so the
				// caller can offer to adjust the cart.
				current, err := is.stockRepo.GetByID(ctx, tx, rec.ID)
				if err != nil {
					return err
				}
				return &apperrors.StockError{
					Code:      apperrors.CodeInsufficientStock,
					ProductID: item.ProductID.String(),
					VariantID: variantIDString(item.VariantID),
					Requested: item.Quantity,
					Available: current.Available(),
				}
			}
			current, err := is.stockRepo.GetByID(ctx, tx, rec.ID)
			if err != nil {
				return err
			}
			available = current.Available()
		} else {
			unlimited = true
		}

		now := time.Now().UTC()
		resv, err = is.reservationRepo.Create(ctx, tx, &types.StockReservation{
			StockRecordID: rec.ID,
			ProductID:     item.ProductID,
			VariantID:     item.VariantID,
			Quantity:      item.Quantity,
			HolderID:      holderID,
			SessionID:     sessionID,
			Status:        types.ReservationStatusActive,
			CreatedAt:     now,
			ExpiresAt:     now.Add(is.reservationTTL),
		})
		return err
	})
	if err != nil {
		return nil, 0, false, err
	}
	return resv, available, unlimited, nil
}

func (is *inventoryService) rollbackBatch(ctx context.Context, created []*types.StockReservation) {
	for _, r := range created {
		if _, _, err := is.ReleaseReservationByID(ctx, r.ID, types.ReservationStatusReleased, types.ReleaseReasonBatchRollback); err != nil {
			is.log.Error("Failed to roll back reservation from aborted batch",
				"reservation_id", r.ID,
				"error", err,
			)
		}
	}
}

func (is *inventoryService) ConfirmStockReservation(ctx context.Context, orderID string, items []ReserveItem, holderID string) (*ConfirmResult, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id required", apperrors.ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items to confirm", apperrors.ErrInvalidArgument)
	}

	result := &ConfirmResult{}
	var firstErr *apperrors.StockError

	for _, item := range items {
		var confirmedID uuid.UUID
		err := is.runInTx(ctx, func(tx *gorm.DB) error {
			// Idempotency: an order that already confirmed this item line is
			// acknowledged without touching anything. Reservations already
			// acknowledged earlier in this call are excluded so duplicate
			// item lines each convert their own hold.
			existing, err := is.reservationRepo.FindConfirmedForOrder(ctx, tx, orderID, item.ProductID, item.VariantID, item.Quantity, result.Confirmed)
			if err != nil {
				return err
			}
			if existing != nil {
				confirmedID = existing.ID
				return nil
			}

			resv, err := is.reservationRepo.FindActiveMatch(ctx, tx, holderID, item.ProductID, item.VariantID, item.Quantity)
			if err != nil {
				return err
			}
			if resv == nil {
				return &apperrors.StockError{
					Code:      apperrors.CodeReservationNotFound,
					ProductID: item.ProductID.String(),
					VariantID: variantIDString(item.VariantID),
					Requested: item.Quantity,
				}
			}

			claimed, err := is.reservationRepo.ClaimConfirm(ctx, tx, resv.ID, orderID)
			if err != nil {
				return err
			}
			if !claimed {
				// Lost the transition race to a release or an expiry sweep.
				return &apperrors.StockError{
					Code:      apperrors.CodeReservationNotFound,
					ProductID: item.ProductID.String(),
					VariantID: variantIDString(item.VariantID),
					Requested: item.Quantity,
				}
			}

			rec, err := is.stockRepo.GetByID(ctx, tx, resv.StockRecordID)
			if err != nil {
				return err
			}
			if rec.TrackQuantity {
				ok, err := is.stockRepo.ConfirmDeduct(ctx, tx, rec.ID, resv.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					return &apperrors.StockError{
						Code:      apperrors.CodeInvariantViolation,
						ProductID: item.ProductID.String(),
						VariantID: variantIDString(item.VariantID),
						Requested: resv.Quantity,
					}
				}
			}
			confirmedID = resv.ID
			return nil
		})
		if err != nil {
			se := apperrors.AsStockError(err)
			if se == nil {
				return nil, err
			}
			if firstErr == nil {
				firstErr = se
			}
			result.Failed = append(result.Failed, ConfirmFailedItem{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Requested: item.Quantity,
				Code:      se.Code,
			})
			continue
		}
		result.Confirmed = append(result.Confirmed, confirmedID)
	}

	if firstErr != nil {
		// Never silently complete an order against stock that went back to
		// the pool; the checkout flow decides re-reserve vs abort.
		return result, firstErr
	}

	is.log.Info("Confirmed stock reservations",
		"order_id", orderID,
		"holder_id", holderID,
		"items", len(items),
	)
	return result, nil
}

func (is *inventoryService) ReleaseReservations(ctx context.Context, items []ReleaseItem, reason string) (*ReleaseResult, error) {
	if len(items) == 0 {
		return &ReleaseResult{}, nil
	}
	if reason == "" {
		reason = types.ReleaseReasonManual
	}

	result := &ReleaseResult{}
	for _, item := range items {
		released := false
		err := is.runInTx(ctx, func(tx *gorm.DB) error {
			released = false
			resv, err := is.reservationRepo.FindActiveMatch(ctx, tx, item.HolderID, item.ProductID, item.VariantID, item.Quantity)
			if err != nil {
				return err
			}
			if resv == nil {
				// Already terminal or never existed: duplicate release
				// calls are a no-op, not an error.
				return nil
			}
			returned, err := is.releaseInTx(ctx, tx, resv.ID, types.ReservationStatusReleased, reason)
			if err != nil {
				return err
			}
			released = returned >= 0
			return nil
		})
		if err != nil {
			return result, err
		}
		if released {
			result.Released++
		} else {
			result.Skipped++
		}
	}

	is.log.Info("Released stock reservations",
		"reason", reason,
		"released", result.Released,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (is *inventoryService) ReleaseReservationByID(ctx context.Context, reservationID uuid.UUID, status, reason string) (int, bool, error) {
	returned := 0
	claimed := false
	err := is.runInTx(ctx, func(tx *gorm.DB) error {
		returned, claimed = 0, false
		n, err := is.releaseInTx(ctx, tx, reservationID, status, reason)
		if err != nil {
			return err
		}
		if n >= 0 {
			returned = n
			claimed = true
		}
		return nil
	})
	return returned, claimed, err
}

// releaseInTx performs the shared claim-then-decrement step used by manual
// release, batch rollback and expiry. Returns the quantity returned to
// availability, or -1 when the reservation had already left active.
func (is *inventoryService) releaseInTx(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, status, reason string) (int, error) {
	claimed, err := is.reservationRepo.ClaimRelease(ctx, tx, reservationID, status, reason)
	if err != nil {
		return 0, err
	}
	if !claimed {
		return -1, nil
	}

	resv, err := is.reservationRepo.GetByID(ctx, tx, reservationID)
	if err != nil {
		return 0, err
	}
	rec, err := is.stockRepo.GetByID(ctx, tx, resv.StockRecordID)
	if err != nil {
		return 0, err
	}
	if !rec.TrackQuantity {
		return 0, nil
	}

	ok, err := is.stockRepo.Release(ctx, tx, rec.ID, resv.Quantity)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("reserved counter underflow releasing reservation %s", reservationID)
	}
	return resv.Quantity, nil
}

// itemNotFoundError distinguishes a missing product from a missing variant.
// A variant that exists in the catalog but has no stock record is still
// surfaced as the variant-level miss.
func (is *inventoryService) itemNotFoundError(ctx context.Context, tx *gorm.DB, item ReserveItem) error {
	if item.VariantID != nil {
		known, err := is.productRepo.VariantExists(ctx, tx, item.ProductID, *item.VariantID)
		if err != nil || !known {
			exists, existsErr := is.productRepo.Exists(ctx, tx, item.ProductID)
			known = existsErr == nil && exists
		}
		if known {
			return &apperrors.StockError{
				Code:      apperrors.CodeVariantNotFound,
				ProductID: item.ProductID.String(),
				VariantID: item.VariantID.String(),
				Requested: item.Quantity,
			}
		}
	}
	return &apperrors.StockError{
		Code:      apperrors.CodeProductNotFound,
		ProductID: item.ProductID.String(),
		VariantID: variantIDString(item.VariantID),
		Requested: item.Quantity,
	}
}

func variantIDString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
