package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")

	// loyalty
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrAccountNotFound = errors.New("loyalty account not found")
	ErrNotEligible     = errors.New("loyalty account is not eligible")
	ErrNotConfirmed    = errors.New("action is not confirmed")
	ErrPersistence     = errors.New("persistence error")

	// orders
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderNotPending        = errors.New("order is not pending")
	ErrLoyaltyNotRecorded     = errors.New("order approved but loyalty points were not recorded")
	ErrLoyaltyAlreadyRecorded = errors.New("loyalty points already recorded for order")
	ErrOrderNotApproved       = errors.New("order is not approved")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrUnknownProduct         = errors.New("unknown product")
	ErrMissingCustomer        = errors.New("customer name and phone are required")
	ErrMissingDelivery        = errors.New("delivery address is incomplete")
	ErrInvalidDeliveryOption  = errors.New("invalid delivery option")
)

// PersistenceError is returned when the backing store fails
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps storage error err raised by operation op
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports ErrPersistence as matching, so callers don't need errors.As
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
