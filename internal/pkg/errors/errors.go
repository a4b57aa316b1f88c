package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Code identifies a stock-domain failure in a way collaborators can branch on.
type Code string

const (
	CodeInsufficientStock   Code = "INSUFFICIENT_STOCK"
	CodeReservationNotFound Code = "RESERVATION_NOT_FOUND"
	CodeProductNotFound     Code = "PRODUCT_NOT_FOUND"
	CodeVariantNotFound     Code = "VARIANT_NOT_FOUND"
	CodeInvariantViolation  Code = "INVARIANT_VIOLATION"
)

// StockError carries the failing item's identity plus the quantities the
// caller needs to recover (e.g. offer the shopper the available amount).
type StockError struct {
	Code      Code
	ProductID string
	VariantID string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	switch e.Code {
	case CodeInsufficientStock:
		return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
	case CodeReservationNotFound:
		return fmt.Sprintf("no active reservation for product %s quantity %d", e.ProductID, e.Requested)
	case CodeProductNotFound:
		return fmt.Sprintf("product %s not found", e.ProductID)
	case CodeVariantNotFound:
		return fmt.Sprintf("variant %s of product %s not found", e.VariantID, e.ProductID)
	case CodeInvariantViolation:
		return fmt.Sprintf("stock invariant violation for product %s: on_hand would drop below reserved", e.ProductID)
	default:
		return fmt.Sprintf("stock error %s for product %s", e.Code, e.ProductID)
	}
}

// CodeOf extracts the domain code from err, or "" if err is not a StockError.
func CodeOf(err error) Code {
	var se *StockError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// AsStockError unwraps err into a StockError, or nil.
func AsStockError(err error) *StockError {
	var se *StockError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
