package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	apppublic "smp-market/internal/app/public"
	appsession "smp-market/internal/app/session"

	"github.com/go-chi/chi/v5"
)

type PublicHandlers struct {
	svc        *apppublic.Service
	sessionSvc *appsession.Service
}

func NewPublicHandlers(svc *apppublic.Service, sessionSvc *appsession.Service) *PublicHandlers {
	return &PublicHandlers{svc: svc, sessionSvc: sessionSvc}
}

func (h *PublicHandlers) NFTs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.svc.Catalog(r.Context(), r.URL.Query().Get("status"), limit, offset)
		if err != nil {
			if errors.Is(err, apppublic.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) NFT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Item(r.Context(), chi.URLParam(r, "nft_id"))
		if err != nil {
			if errors.Is(err, apppublic.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *PublicHandlers) ActiveSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.sessionSvc.Active(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			if errors.Is(err, appsession.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// Ledger serves the authenticated account's own movement history.
func (h *PublicHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		limit, offset := ParsePagination(r)
		resp, err := h.svc.Ledger(r.Context(), acc.ID, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
