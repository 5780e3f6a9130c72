package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrStateConflict covers one-way transitions attempted twice, e.g.
	// resolving an already-resolved request or closing a closed session.
	ErrStateConflict = errors.New("state_conflict")

	ErrSessionInactive   = errors.New("session_inactive")
	ErrAlreadyRegistered = errors.New("already_registered")

	ErrNotAvailable    = errors.New("nft_not_available")
	ErrSelfPurchase    = errors.New("self_purchase")
	ErrHasTransactions = errors.New("nft_has_transactions")

	// ErrMovementApplied means a ledger movement with the same
	// (kind, ref_type, ref_id) was already recorded; the retried
	// operation must not apply its effects a second time.
	ErrMovementApplied = errors.New("movement_already_applied")
)

// InsufficientBalanceError reports how much the operation needed so the
// caller can prompt a top-up.
type InsufficientBalanceError struct {
	RequiredUnits  int64
	AvailableUnits int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, available %d", e.RequiredUnits, e.AvailableUnits)
}

// IsInsufficientBalance unwraps err into an InsufficientBalanceError.
func IsInsufficientBalance(err error) (*InsufficientBalanceError, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib, true
	}
	return nil, false
}
