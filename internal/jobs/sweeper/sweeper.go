package sweeper

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

// Summary reports one sweep cycle.
type Summary struct {
	Scanned          int
	Reclaimed        int
	QuantityReturned int
}

// Sweeper reclaims expired reservations on a fixed interval, independent of
// request activity. It shares the claim-then-release path with manual
// release, so a reservation confirmed or released while a sweep is in flight
// is skipped, never double-decremented. That also makes overlapping sweeps
// (or multiple service instances) safe.
type Sweeper struct {
	db              *gorm.DB
	log             *logger.Logger
	reservationRepo repos.StockReservationRepo
	inventory       services.InventoryService

	interval    time.Duration
	batchSize   int
	concurrency int
}

func New(db *gorm.DB, baseLog *logger.Logger, reservationRepo repos.StockReservationRepo, inventory services.InventoryService, interval time.Duration, batchSize, concurrency int) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Sweeper{
		db:              db,
		log:             baseLog.With("component", "ExpirySweeper"),
		reservationRepo: reservationRepo,
		inventory:       inventory,
		interval:        interval,
		batchSize:       batchSize,
		concurrency:     concurrency,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Starting expiry sweeper",
		"interval", s.interval,
		"batch_size", s.batchSize,
		"concurrency", s.concurrency,
	)
	go s.runLoop(ctx)
}

func (s *Sweeper) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper loop stopped")
			return
		case <-ticker.C:
			summary, err := s.SweepOnce(ctx)
			if err != nil {
				s.log.Warn("Sweep cycle failed", "error", err)
				continue
			}
			if summary.Scanned > 0 {
				s.log.Info("Sweep cycle complete",
					"scanned", summary.Scanned,
					"reclaimed", summary.Reclaimed,
					"quantity_returned", summary.QuantityReturned,
				)
			}
		}
	}
}

// SweepOnce scans for expired active reservations and reclaims each exactly
// once. Per-record failures are logged and skipped; they never abort the
// cycle.
func (s *Sweeper) SweepOnce(ctx context.Context) (Summary, error) {
	expired, err := s.reservationRepo.FindExpired(ctx, nil, time.Now().UTC(), s.batchSize)
	if err != nil {
		return Summary{}, err
	}

	var reclaimed, returned atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, resv := range expired {
		r := resv
		g.Go(func() error {
			qty, claimed, err := s.inventory.ReleaseReservationByID(gctx, r.ID, types.ReservationStatusExpired, types.ReleaseReasonExpired)
			if err != nil {
				s.log.Warn("Failed to reclaim expired reservation",
					"reservation_id", r.ID,
					"error", err,
				)
				return nil
			}
			if claimed {
				reclaimed.Add(1)
				returned.Add(int64(qty))
			}
			return nil
		})
	}
	_ = g.Wait()

	return Summary{
		Scanned:          len(expired),
		Reclaimed:        int(reclaimed.Load()),
		QuantityReturned: int(returned.Load()),
	}, nil
}
