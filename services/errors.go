package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized: missing caller identity")
	ErrConflict     = errors.New("conflict: concurrent update lost, retry")
)

// NotFoundError covers unknown SKUs, branches and transfers.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// InvalidInputError covers bad quantities, same source/destination,
// min > max and the like.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

// InsufficientStockError names the SKU and what was available so the
// caller can render a precise message.
type InsufficientStockError struct {
	ItemCode  string
	BranchID  uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s at branch %d: requested %d, available %d",
		e.ItemCode, e.BranchID, e.Requested, e.Available)
}

// InvalidTransitionError reports a transfer state machine violation.
type InvalidTransitionError struct {
	TransferNo string
	Current    string
	Attempted  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transfer %s is %s, cannot %s", e.TransferNo, e.Current, e.Attempted)
}
