package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	"github.com/yungbote/storefront-backend/internal/data/repos/testutil"
)

func newAnalyticsFixture(t *testing.T, gdb *gorm.DB) StockAnalyticsService {
	t.Helper()
	log := testutil.Logger(t)
	reservationRepo := repos.NewStockReservationRepo(gdb, log)
	return NewStockAnalyticsService(gdb, log, reservationRepo)
}

func TestDistribution(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAnalyticsFixture(t, tx)

	// Distribution scans the whole table; assert on deltas so rows committed
	// by other runs don't matter.
	before, err := svc.Distribution(ctx)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}

	in := testutil.SeedProduct(t, ctx, tx, "dist-in")
	testutil.SeedStockRecord(t, ctx, tx, in.ID, nil, 10)
	low := testutil.SeedProduct(t, ctx, tx, "dist-low")
	testutil.SeedStockRecord(t, ctx, tx, low.ID, nil, 2)
	out := testutil.SeedProduct(t, ctx, tx, "dist-out")
	testutil.SeedStockRecord(t, ctx, tx, out.ID, nil, 0)
	un := testutil.SeedProduct(t, ctx, tx, "dist-untracked")
	testutil.SeedUntrackedStockRecord(t, ctx, tx, un.ID)

	after, err := svc.Distribution(ctx)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}

	if d := after.InStock - before.InStock; d != 1 {
		t.Fatalf("in_stock delta = %d, want 1", d)
	}
	if d := after.LowStock - before.LowStock; d != 1 {
		t.Fatalf("low_stock delta = %d, want 1", d)
	}
	if d := after.OutOfStock - before.OutOfStock; d != 1 {
		t.Fatalf("out_of_stock delta = %d, want 1", d)
	}
	if d := after.Untracked - before.Untracked; d != 1 {
		t.Fatalf("untracked delta = %d, want 1", d)
	}
}

func TestLowStockOrdering(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAnalyticsFixture(t, tx)

	a := testutil.SeedProduct(t, ctx, tx, "lowstock-a")
	testutil.SeedStockRecord(t, ctx, tx, a.ID, nil, 4)
	b := testutil.SeedProduct(t, ctx, tx, "lowstock-b")
	testutil.SeedStockRecord(t, ctx, tx, b.ID, nil, 1)
	healthy := testutil.SeedProduct(t, ctx, tx, "lowstock-healthy")
	testutil.SeedStockRecord(t, ctx, tx, healthy.ID, nil, 50)

	items, err := svc.LowStock(ctx, 10)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}

	var seen []int
	for _, item := range items {
		if item.ProductID == healthy.ID {
			t.Fatalf("healthy product reported as low stock")
		}
		if item.ProductID == a.ID || item.ProductID == b.ID {
			seen = append(seen, item.Available)
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected both low-stock products, got %d", len(seen))
	}
	// Scarcest first.
	if seen[0] != 1 || seen[1] != 4 {
		t.Fatalf("ordering = %v, want [1 4]", seen)
	}
}

func TestReservationTotalsView(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	svc := newAnalyticsFixture(t, tx)

	before, err := svc.ReservationTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}

	p := testutil.SeedProduct(t, ctx, tx, "totals-p")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 20)
	testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))
	testutil.SeedReservation(t, ctx, tx, rec, "cart-2", 3, time.Now().Add(time.Hour))

	after, err := svc.ReservationTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if d := after.ActiveCount - before.ActiveCount; d != 2 {
		t.Fatalf("active count delta = %d, want 2", d)
	}
	if d := after.ActiveQuantity - before.ActiveQuantity; d != 5 {
		t.Fatalf("active quantity delta = %d, want 5", d)
	}
}
