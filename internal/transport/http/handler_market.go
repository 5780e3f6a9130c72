package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appmarket "smp-market/internal/app/market"

	"github.com/go-chi/chi/v5"
)

type MarketHandlers struct {
	svc *appmarket.Service
}

func NewMarketHandlers(svc *appmarket.Service) *MarketHandlers {
	return &MarketHandlers{svc: svc}
}

func (h *MarketHandlers) Buy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body struct {
			Deferred bool `json:"deferred"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
		}
		resp, err := h.svc.Buy(r.Context(), acc.ID, chi.URLParam(r, "nft_id"), body.Deferred)
		if err != nil {
			metricPurchaseErrors.Add(1)
			if errors.Is(err, appmarket.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		metricPurchaseTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *MarketHandlers) Pay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp, err := h.svc.Pay(r.Context(), acc.ID, chi.URLParam(r, "nft_id"))
		if err != nil {
			if errors.Is(err, appmarket.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *MarketHandlers) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp, err := h.svc.Checkout(r.Context(), acc.ID)
		if err != nil {
			metricCheckoutErrors.Add(1)
			writeDomainError(w, err)
			return
		}
		metricCheckoutTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *MarketHandlers) Pending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp, err := h.svc.Pending(r.Context(), acc.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *MarketHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		limit, offset := ParsePagination(r)
		resp, err := h.svc.Transactions(r.Context(), acc.ID, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
