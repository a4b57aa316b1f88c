package inventory

import "testing"

func TestStockRecordStatus(t *testing.T) {
	cases := []struct {
		name string
		rec  StockRecord
		want string
	}{
		{"untracked", StockRecord{TrackQuantity: false, OnHand: 0}, StockStatusUnlimited},
		{"plenty", StockRecord{TrackQuantity: true, OnHand: 20, LowStockThreshold: 5}, StockStatusInStock},
		{"at threshold", StockRecord{TrackQuantity: true, OnHand: 5, LowStockThreshold: 5}, StockStatusLowStock},
		{"held down to zero", StockRecord{TrackQuantity: true, OnHand: 5, Reserved: 5, LowStockThreshold: 5}, StockStatusOutOfStock},
		{"empty", StockRecord{TrackQuantity: true, OnHand: 0, LowStockThreshold: 5}, StockStatusOutOfStock},
	}
	for _, tc := range cases {
		if got := tc.rec.Status(); got != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestAvailableCountsHolds(t *testing.T) {
	rec := StockRecord{TrackQuantity: true, OnHand: 10, Reserved: 4}
	if got := rec.Available(); got != 6 {
		t.Fatalf("available = %d, want 6", got)
	}
}

func TestReservationIsTerminal(t *testing.T) {
	for _, status := range []string{ReservationStatusConfirmed, ReservationStatusReleased, ReservationStatusExpired} {
		r := StockReservation{Status: status}
		if !r.IsTerminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	active := StockReservation{Status: ReservationStatusActive}
	if active.IsTerminal() {
		t.Errorf("active is not terminal")
	}
}
