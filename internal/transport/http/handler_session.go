package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appsession "smp-market/internal/app/session"

	"github.com/go-chi/chi/v5"
)

type SessionHandlers struct {
	svc *appsession.Service
}

func NewSessionHandlers(svc *appsession.Service) *SessionHandlers {
	return &SessionHandlers{svc: svc}
}

func (h *SessionHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp, err := h.svc.Register(r.Context(), acc.ID, chi.URLParam(r, "session_id"))
		if err != nil {
			metricSessionRegisterErrors.Add(1)
			if errors.Is(err, appsession.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		metricSessionRegisterTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *SessionHandlers) Registered() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		registered, err := h.svc.IsRegistered(r.Context(), acc.ID, chi.URLParam(r, "session_id"))
		if err != nil {
			if errors.Is(err, appsession.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"registered": registered})
	}
}
