package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appmarket "smp-market/internal/app/market"
	apprequest "smp-market/internal/app/request"
	appsession "smp-market/internal/app/session"
	"smp-market/internal/store"

	"github.com/go-chi/chi/v5"
)

type AdminHandlers struct {
	store      *store.Store
	marketSvc  *appmarket.Service
	sessionSvc *appsession.Service
	requestSvc *apprequest.Service
}

func NewAdminHandlers(st *store.Store, marketSvc *appmarket.Service, sessionSvc *appsession.Service, requestSvc *apprequest.Service) *AdminHandlers {
	return &AdminHandlers{store: st, marketSvc: marketSvc, sessionSvc: sessionSvc, requestSvc: requestSvc}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) CreateNFT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name    string `json:"name"`
			OwnerID string `json:"owner_id"`
			Price   string `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.marketSvc.CreateNFT(r.Context(), body.Name, body.OwnerID, body.Price)
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

// UpdateNFT patches price and/or status of a listing. Only fields
// present in the body are touched.
func (h *AdminHandlers) UpdateNFT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "nft_id")
		var body struct {
			Price  *string `json:"price"`
			Status *string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.Price == nil && body.Status == nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var resp *appmarket.NFTItem
		var err error
		if body.Price != nil {
			resp, err = h.marketSvc.UpdatePrice(r.Context(), nftID, *body.Price)
			if err != nil {
				if errors.Is(err, appmarket.ErrInvalidRequest) {
					WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
					return
				}
				writeDomainError(w, err)
				return
			}
		}
		if body.Status != nil {
			resp, err = h.marketSvc.UpdateStatus(r.Context(), nftID, *body.Status)
			if err != nil {
				if errors.Is(err, appmarket.ErrInvalidRequest) {
					WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
					return
				}
				writeDomainError(w, err)
				return
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AdminHandlers) DeleteNFT() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.marketSvc.Delete(r.Context(), chi.URLParam(r, "nft_id")); err != nil {
			if errors.Is(err, appmarket.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Date      string     `json:"date"`
			StartTime *time.Time `json:"start_time"`
			Fee       string     `json:"registration_fee"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		start := time.Time{}
		if body.StartTime != nil {
			start = *body.StartTime
		}
		resp, err := h.sessionSvc.Ensure(r.Context(), body.Date, start, body.Fee)
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

func (h *AdminHandlers) CloseSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessionSvc.Close(r.Context(), chi.URLParam(r, "session_id")); err != nil {
			if errors.Is(err, appsession.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) SessionRegistrations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.sessionSvc.Registrations(r.Context(), chi.URLParam(r, "session_id"), limit, offset)
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

func (h *AdminHandlers) ResolveRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.requestSvc.Resolve(r.Context(), chi.URLParam(r, "request_id"), body.Status)
		if err != nil {
			metricRequestResolveErrors.Add(1)
			if errors.Is(err, apprequest.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeDomainError(w, err)
			return
		}
		metricRequestResolveTotal.Add(1)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *AdminHandlers) Accounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.store.ListAccounts(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := make([]map[string]any, 0, len(items))
		for _, a := range items {
			out = append(out, map[string]any{
				"id":             a.ID,
				"name":           a.Name,
				"wallet_address": a.WalletAddress,
				"balance_units":  a.BalanceUnits,
				"status":         a.Status,
				"created_at":     a.CreatedAt,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": out, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.LedgerFilter{
			AccountID: r.URL.Query().Get("account_id"),
			RefType:   r.URL.Query().Get("ref_type"),
			RefID:     r.URL.Query().Get("ref_id"),
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &t
			}
		}
		items, err := h.store.ListLedgerEntries(r.Context(), f, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		out := make([]map[string]any, 0, len(items))
		for _, e := range items {
			entry := map[string]any{
				"id":           e.ID,
				"amount_units": e.AmountUnits,
				"kind":         e.Kind,
				"description":  e.Description,
				"ref_type":     e.RefType,
				"ref_id":       e.RefID,
				"created_at":   e.CreatedAt,
			}
			if !e.From.IsSystem() {
				entry["from_account_id"] = e.From.AccountID
			}
			if !e.To.IsSystem() {
				entry["to_account_id"] = e.To.AccountID
			}
			out = append(out, entry)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": out, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Requests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.RequestFilter{
			AccountID: r.URL.Query().Get("account_id"),
			Status:    store.RequestStatus(r.URL.Query().Get("status")),
		}
		resp, err := h.requestSvc.List(r.Context(), f, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
