package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type StockStatus struct {
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
	Status    string    `json:"status"`
	Unlimited bool      `json:"unlimited,omitempty"`
}

// StockStatusCacheKey is the cache key for one product's status projection.
func StockStatusCacheKey(productID uuid.UUID) string {
	return "stock_status:" + productID.String()
}

// StockStatusService is the read side: no locking, plain reads. Unknown
// product ids are omitted from the result rather than failing the batch.
type StockStatusService interface {
	GetStockStatus(ctx context.Context, productIDs []uuid.UUID) ([]StockStatus, error)
}

type stockStatusService struct {
	db          *gorm.DB
	log         *logger.Logger
	stockRepo   repos.StockRecordRepo
	statusCache redis.StatusCache
	cacheTTL    time.Duration
}

func NewStockStatusService(db *gorm.DB, log *logger.Logger, stockRepo repos.StockRecordRepo, statusCache redis.StatusCache, cacheTTL time.Duration) StockStatusService {
	serviceLog := log.With("service", "StockStatusService")
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &stockStatusService{
		db:          db,
		log:         serviceLog,
		stockRepo:   stockRepo,
		statusCache: statusCache,
		cacheTTL:    cacheTTL,
	}
}

func (ss *stockStatusService) GetStockStatus(ctx context.Context, productIDs []uuid.UUID) ([]StockStatus, error) {
	results := make([]StockStatus, 0, len(productIDs))
	if len(productIDs) == 0 {
		return results, nil
	}

	seen := make(map[uuid.UUID]bool, len(productIDs))
	var misses []uuid.UUID
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if cached, ok := ss.cachedStatus(ctx, id); ok {
			results = append(results, *cached)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return results, nil
	}

	records, err := ss.stockRepo.GetByProductIDs(ctx, nil, misses)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]*types.StockRecord)
	for _, rec := range records {
		byProduct[rec.ProductID] = append(byProduct[rec.ProductID], rec)
	}

	for _, id := range misses {
		recs := byProduct[id]
		if len(recs) == 0 {
			// Unknown id: omitted, never an error for the whole batch.
			continue
		}
		status := aggregateStatus(id, recs)
		results = append(results, status)
		ss.storeStatus(ctx, status)
	}
	return results, nil
}

// aggregateStatus folds a product's stock records (base plus any variants)
// into one projection. Any untracked record makes the product unlimited;
// otherwise availability sums across records and the strictest threshold
// decides low-stock.
func aggregateStatus(productID uuid.UUID, recs []*types.StockRecord) StockStatus {
	available := 0
	threshold := 0
	for _, rec := range recs {
		if !rec.TrackQuantity {
			return StockStatus{
				ProductID: productID,
				Available: 0,
				Status:    types.StockStatusUnlimited,
				Unlimited: true,
			}
		}
		available += rec.Available()
		if rec.LowStockThreshold > threshold {
			threshold = rec.LowStockThreshold
		}
	}

	status := types.StockStatusInStock
	switch {
	case available <= 0:
		status = types.StockStatusOutOfStock
	case available <= threshold:
		status = types.StockStatusLowStock
	}
	return StockStatus{
		ProductID: productID,
		Available: available,
		Status:    status,
	}
}

func (ss *stockStatusService) cachedStatus(ctx context.Context, productID uuid.UUID) (*StockStatus, bool) {
	if ss.statusCache == nil {
		return nil, false
	}
	payload, ok := ss.statusCache.Get(ctx, StockStatusCacheKey(productID))
	if !ok {
		return nil, false
	}
	var status StockStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		ss.log.Warn("Dropping undecodable cached status", "product_id", productID, "error", err)
		return nil, false
	}
	return &status, true
}

func (ss *stockStatusService) storeStatus(ctx context.Context, status StockStatus) {
	if ss.statusCache == nil {
		return
	}
	payload, err := json.Marshal(status)
	if err != nil {
		return
	}
	ss.statusCache.Set(ctx, StockStatusCacheKey(status.ProductID), payload, ss.cacheTTL)
}
