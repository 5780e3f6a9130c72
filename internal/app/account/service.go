package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

type AccountView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"wallet_address"`
	Balance       string    `json:"balance"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func accountView(a *store.Account) AccountView {
	return AccountView{
		ID:            a.ID,
		Name:          a.Name,
		WalletAddress: a.WalletAddress,
		Balance:       smp.Format(a.BalanceUnits),
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
	}
}

type RegisterResponse struct {
	Account AccountView `json:"account"`
	// APIKey is returned exactly once, at registration.
	APIKey string `json:"api_key"`
}

func (s *Service) Register(ctx context.Context, name, walletAddress string) (*RegisterResponse, error) {
	if name == "" {
		return nil, ErrInvalidRequest
	}
	apiKey, err := newAPIKey()
	if err != nil {
		return nil, err
	}
	a, err := s.store.CreateAccount(ctx, name, apiKey, walletAddress)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{Account: accountView(a), APIKey: apiKey}, nil
}

func (s *Service) Me(ctx context.Context, accountID string) (*AccountView, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	a, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	view := accountView(a)
	return &view, nil
}

func newAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "smp_" + hex.EncodeToString(buf), nil
}
