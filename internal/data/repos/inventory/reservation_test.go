package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/data/repos/testutil"
	types "github.com/yungbote/storefront-backend/internal/domain"
)

func TestClaimConfirmExactlyOnce(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-claim-confirm")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 10)
	resv := testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))

	claimed, err := repo.ClaimConfirm(ctx, tx, resv.ID, "order-1")
	if err != nil {
		t.Fatalf("claim confirm: %v", err)
	}
	if !claimed {
		t.Fatalf("expected first claim to win")
	}

	claimed, err = repo.ClaimConfirm(ctx, tx, resv.ID, "order-2")
	if err != nil {
		t.Fatalf("claim confirm: %v", err)
	}
	if claimed {
		t.Fatalf("second claim must lose")
	}

	got, err := repo.GetByID(ctx, tx, resv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.ReservationStatusConfirmed || got.OrderID != "order-1" {
		t.Fatalf("reservation = (%s, %q), want (confirmed, order-1)", got.Status, got.OrderID)
	}
}

func TestClaimReleaseStatusRules(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-claim-release")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 10)
	resv := testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))

	if _, err := repo.ClaimRelease(ctx, tx, resv.ID, types.ReservationStatusConfirmed, "nope"); err == nil {
		t.Fatalf("claim release must reject non-terminal-release statuses")
	}

	claimed, err := repo.ClaimRelease(ctx, tx, resv.ID, types.ReservationStatusExpired, types.ReleaseReasonExpired)
	if err != nil {
		t.Fatalf("claim release: %v", err)
	}
	if !claimed {
		t.Fatalf("expected claim on active reservation to win")
	}

	claimed, err = repo.ClaimRelease(ctx, tx, resv.ID, types.ReservationStatusReleased, types.ReleaseReasonManual)
	if err != nil {
		t.Fatalf("claim release: %v", err)
	}
	if claimed {
		t.Fatalf("reservation already terminal, claim must lose")
	}

	got, err := repo.GetByID(ctx, tx, resv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != types.ReservationStatusExpired || got.Reason != types.ReleaseReasonExpired {
		t.Fatalf("reservation = (%s, %q), want (expired, %q)", got.Status, got.Reason, types.ReleaseReasonExpired)
	}
}

func TestFindActiveMatchOldestFirst(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-active-match")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 10)

	now := time.Now().UTC()
	older, err := repo.Create(ctx, tx, &types.StockReservation{
		StockRecordID: rec.ID,
		ProductID:     p.ID,
		Quantity:      2,
		HolderID:      "cart-1",
		Status:        types.ReservationStatusActive,
		CreatedAt:     now.Add(-2 * time.Minute),
		ExpiresAt:     now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, tx, &types.StockReservation{
		StockRecordID: rec.ID,
		ProductID:     p.ID,
		Quantity:      2,
		HolderID:      "cart-1",
		Status:        types.ReservationStatusActive,
		CreatedAt:     now.Add(-1 * time.Minute),
		ExpiresAt:     now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindActiveMatch(ctx, tx, "cart-1", p.ID, nil, 2)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != older.ID {
		t.Fatalf("expected oldest matching reservation %s, got %+v", older.ID, got)
	}

	// Wrong holder, wrong quantity, wrong variant: all miss.
	if got, _ := repo.FindActiveMatch(ctx, tx, "cart-2", p.ID, nil, 2); got != nil {
		t.Fatalf("holder mismatch must not match")
	}
	if got, _ := repo.FindActiveMatch(ctx, tx, "cart-1", p.ID, nil, 3); got != nil {
		t.Fatalf("quantity mismatch must not match")
	}
	other := uuid.New()
	if got, _ := repo.FindActiveMatch(ctx, tx, "cart-1", p.ID, &other, 2); got != nil {
		t.Fatalf("variant mismatch must not match")
	}

	// Empty holder matches any holder.
	if got, err := repo.FindActiveMatch(ctx, tx, "", p.ID, nil, 2); err != nil || got == nil {
		t.Fatalf("empty holder should match any: got=%v err=%v", got, err)
	}
}

func TestFindConfirmedForOrder(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-confirmed-order")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 10)
	resv := testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))

	if got, err := repo.FindConfirmedForOrder(ctx, tx, "order-1", p.ID, nil, 2, nil); err != nil || got != nil {
		t.Fatalf("nothing confirmed yet: got=%v err=%v", got, err)
	}

	if claimed, err := repo.ClaimConfirm(ctx, tx, resv.ID, "order-1"); err != nil || !claimed {
		t.Fatalf("claim confirm: claimed=%v err=%v", claimed, err)
	}

	got, err := repo.FindConfirmedForOrder(ctx, tx, "order-1", p.ID, nil, 2, nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != resv.ID {
		t.Fatalf("expected confirmed reservation %s, got %+v", resv.ID, got)
	}

	if got, _ := repo.FindConfirmedForOrder(ctx, tx, "order-2", p.ID, nil, 2, nil); got != nil {
		t.Fatalf("different order id must not match")
	}

	// Excluding the only confirmed reservation leaves nothing to find.
	if got, _ := repo.FindConfirmedForOrder(ctx, tx, "order-1", p.ID, nil, 2, []uuid.UUID{resv.ID}); got != nil {
		t.Fatalf("excluded reservation must not match, got %+v", got)
	}

	// With two confirmed twins, exclusion yields the other one.
	twin := testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))
	if claimed, err := repo.ClaimConfirm(ctx, tx, twin.ID, "order-1"); err != nil || !claimed {
		t.Fatalf("claim twin: claimed=%v err=%v", claimed, err)
	}
	got, err = repo.FindConfirmedForOrder(ctx, tx, "order-1", p.ID, nil, 2, []uuid.UUID{resv.ID})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != twin.ID {
		t.Fatalf("expected twin %s after exclusion, got %+v", twin.ID, got)
	}
}

func TestFindExpired(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-find-expired")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 10)

	now := time.Now().UTC()
	first := testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 1, now.Add(-2*time.Minute))
	second := testutil.SeedReservation(t, ctx, tx, rec, "cart-2", 1, now.Add(-1*time.Minute))
	testutil.SeedReservation(t, ctx, tx, rec, "cart-3", 1, now.Add(time.Hour))

	released := testutil.SeedReservation(t, ctx, tx, rec, "cart-4", 1, now.Add(-3*time.Minute))
	if claimed, err := repo.ClaimRelease(ctx, tx, released.ID, types.ReservationStatusReleased, types.ReleaseReasonManual); err != nil || !claimed {
		t.Fatalf("claim release: claimed=%v err=%v", claimed, err)
	}

	expired, err := repo.FindExpired(ctx, tx, now, 10)
	if err != nil {
		t.Fatalf("find expired: %v", err)
	}
	if len(expired) != 2 {
		t.Fatalf("expired = %d, want 2 (active past-expiry only)", len(expired))
	}
	if expired[0].ID != first.ID || expired[1].ID != second.ID {
		t.Fatalf("expected expiry-ordered results, got %s then %s", expired[0].ID, expired[1].ID)
	}

	limited, err := repo.FindExpired(ctx, tx, now, 1)
	if err != nil {
		t.Fatalf("find expired: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != first.ID {
		t.Fatalf("limit 1 should return the soonest-expired reservation")
	}
}

func TestActiveTotals(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	repo := NewStockReservationRepo(tx, testutil.Logger(t))

	p := testutil.SeedProduct(t, ctx, tx, "sku-active-totals")
	rec := testutil.SeedStockRecord(t, ctx, tx, p.ID, nil, 20)

	testutil.SeedReservation(t, ctx, tx, rec, "cart-1", 2, time.Now().Add(time.Hour))
	testutil.SeedReservation(t, ctx, tx, rec, "cart-2", 3, time.Now().Add(time.Hour))
	confirmed := testutil.SeedReservation(t, ctx, tx, rec, "cart-3", 5, time.Now().Add(time.Hour))
	if claimed, err := repo.ClaimConfirm(ctx, tx, confirmed.ID, "order-1"); err != nil || !claimed {
		t.Fatalf("claim confirm: claimed=%v err=%v", claimed, err)
	}

	count, quantity, err := repo.ActiveTotals(ctx, tx)
	if err != nil {
		t.Fatalf("active totals: %v", err)
	}
	if count != 2 || quantity != 5 {
		t.Fatalf("totals = (%d,%d), want (2,5)", count, quantity)
	}
}
