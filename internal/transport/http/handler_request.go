package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	apprequest "smp-market/internal/app/request"
	"smp-market/internal/store"
)

type RequestHandlers struct {
	svc *apprequest.Service
}

func NewRequestHandlers(svc *apprequest.Service) *RequestHandlers {
	return &RequestHandlers{svc: svc}
}

func (h *RequestHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body apprequest.CreateParams
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Create(r.Context(), acc.ID, body)
		if err != nil {
			metricRequestCreateErrors.Add(1)
			switch {
			case errors.Is(err, apprequest.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, apprequest.ErrInvalidAmount):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_amount")
			case errors.Is(err, apprequest.ErrInvalidWallet):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_wallet_address")
			default:
				writeDomainError(w, err)
			}
			return
		}
		metricRequestCreateTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *RequestHandlers) Mine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		limit, offset := ParsePagination(r)
		f := store.RequestFilter{
			AccountID: acc.ID,
			Status:    store.RequestStatus(r.URL.Query().Get("status")),
		}
		resp, err := h.svc.List(r.Context(), f, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
