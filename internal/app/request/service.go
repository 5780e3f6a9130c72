// Package request handles user-initiated deposit and withdrawal requests
// awaiting operator resolution.
package request

import (
	"context"
	"time"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

const minWalletAddressLen = 10

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type RequestView struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	Kind          string     `json:"kind"`
	SMPAmount     string     `json:"smp_amount"`
	USDTAmount    string     `json:"usdt_amount"`
	WalletAddress string     `json:"wallet_address"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

func requestView(r *store.Request) RequestView {
	return RequestView{
		ID:            r.ID,
		AccountID:     r.AccountID,
		Kind:          string(r.Kind),
		SMPAmount:     smp.Format(r.SMPUnits),
		USDTAmount:    smp.Format(r.USDTUnits),
		WalletAddress: r.WalletAddress,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		ResolvedAt:    r.ResolvedAt,
	}
}

type CreateParams struct {
	Kind          string `json:"kind"`
	SMPAmount     string `json:"smp_amount"`
	USDTAmount    string `json:"usdt_amount"`
	WalletAddress string `json:"wallet_address"`
}

func (s *Service) Create(ctx context.Context, accountID string, p CreateParams) (*RequestView, error) {
	kind := store.RequestKind(p.Kind)
	if accountID == "" || !kind.Valid() {
		return nil, ErrInvalidRequest
	}
	smpUnits, err := smp.Parse(p.SMPAmount)
	if err != nil || smpUnits <= 0 {
		return nil, ErrInvalidAmount
	}
	usdtUnits, err := smp.Parse(p.USDTAmount)
	if err != nil || usdtUnits <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(p.WalletAddress) < minWalletAddressLen {
		return nil, ErrInvalidWallet
	}
	req, err := s.store.CreateRequest(ctx, accountID, kind, smpUnits, usdtUnits, p.WalletAddress)
	if err != nil {
		return nil, err
	}
	view := requestView(req)
	return &view, nil
}

// Resolve is the operator action: Pending -> Success|Failed, one-way.
// Approving a deposit credits the account in the same atomic unit.
func (s *Service) Resolve(ctx context.Context, requestID, newStatus string) (*RequestView, error) {
	status := store.RequestStatus(newStatus)
	if requestID == "" || !status.ValidResolution() {
		return nil, ErrInvalidRequest
	}
	req, err := s.store.ResolveRequest(ctx, requestID, status)
	if err != nil {
		return nil, err
	}
	view := requestView(req)
	return &view, nil
}

type ListResponse struct {
	Items  []RequestView `json:"items"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *Service) List(ctx context.Context, f store.RequestFilter, limit, offset int) (*ListResponse, error) {
	reqs, err := s.store.ListRequests(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]RequestView, 0, len(reqs))
	for i := range reqs {
		items = append(items, requestView(&reqs[i]))
	}
	return &ListResponse{Items: items, Limit: limit, Offset: offset}, nil
}
