package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation lifecycle. Active is the only non-terminal state; a reservation
// is never resurrected once it leaves it.
const (
	ReservationStatusActive    = "active"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusReleased  = "released"
	ReservationStatusExpired   = "expired"
)

// Release reasons recorded on the reservation for audit context.
const (
	ReleaseReasonManual        = "manual_release"
	ReleaseReasonPaymentFailed = "payment_failed"
	ReleaseReasonCartAbandoned = "cart_abandoned"
	ReleaseReasonExpired       = "reservation_expired"
	ReleaseReasonBatchRollback = "batch_rollback"
)

// StockReservation is a time-bounded hold against one StockRecord. It lives
// in the same database as the counters it affects so that a counter mutation
// and its status transition always commit together.
type StockReservation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StockRecordID uuid.UUID  `gorm:"type:uuid;not null;index;column:stock_record_id" json:"stock_record_id"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	VariantID     *uuid.UUID `gorm:"type:uuid;column:variant_id" json:"variant_id,omitempty"`

	Quantity int `gorm:"not null;column:quantity" json:"quantity"`

	// HolderID is a user id or an anonymous session id; the holds of one
	// reserve call share a SessionID.
	HolderID  string `gorm:"not null;index;column:holder_id" json:"holder_id"`
	SessionID string `gorm:"index;column:session_id" json:"session_id"`

	// OrderID is empty until the reservation is confirmed.
	OrderID string `gorm:"index;column:order_id" json:"order_id,omitempty"`

	Status string `gorm:"not null;default:'active';index;column:status" json:"status"`
	Reason string `gorm:"column:reason" json:"reason,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at" json:"expires_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StockReservation) TableName() string { return "stock_reservation" }

func (r *StockReservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsTerminal reports whether the reservation can no longer transition.
func (r *StockReservation) IsTerminal() bool {
	return r.Status != ReservationStatusActive
}
