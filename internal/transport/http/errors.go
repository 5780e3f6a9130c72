package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

// writeDomainError maps store errors onto HTTP statuses. Anything
// unrecognized is reported as a 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, err error) {
	if ib, ok := store.IsInsufficientBalance(err); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":     "insufficient_balance",
			"required":  smp.Format(ib.RequiredUnits),
			"available": smp.Format(ib.AvailableUnits),
		})
		return
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrNotAvailable):
		WriteHTTPError(w, http.StatusConflict, "nft_not_available")
	case errors.Is(err, store.ErrSelfPurchase):
		WriteHTTPError(w, http.StatusConflict, "self_purchase")
	case errors.Is(err, store.ErrAlreadyRegistered):
		WriteHTTPError(w, http.StatusConflict, "already_registered")
	case errors.Is(err, store.ErrSessionInactive):
		WriteHTTPError(w, http.StatusConflict, "session_inactive")
	case errors.Is(err, store.ErrHasTransactions):
		WriteHTTPError(w, http.StatusConflict, "nft_has_transactions")
	case errors.Is(err, store.ErrStateConflict), errors.Is(err, store.ErrMovementApplied):
		WriteHTTPError(w, http.StatusConflict, "state_conflict")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
