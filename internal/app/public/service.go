package public

import (
	"context"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

type Service struct {
	store *store.Store
}

const maxPageLimit = 100

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Catalog lists NFTs, optionally filtered by status. An empty status
// returns every listing regardless of state.
func (s *Service) Catalog(ctx context.Context, status string, limit, offset int) (*CatalogResponse, error) {
	if status != "" && !store.NFTStatus(status).Valid() {
		return nil, ErrInvalidRequest
	}
	limit = clampPageLimit(limit)
	items, err := s.store.ListNFTs(ctx, store.NFTStatus(status), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]CatalogItem, 0, len(items))
	for _, it := range items {
		out = append(out, catalogItem(&it))
	}
	return &CatalogResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func (s *Service) Item(ctx context.Context, nftID string) (*CatalogItem, error) {
	if nftID == "" {
		return nil, ErrInvalidRequest
	}
	n, err := s.store.GetNFT(ctx, nftID)
	if err != nil {
		return nil, err
	}
	item := catalogItem(n)
	return &item, nil
}

// Ledger returns the movement history touching the given account,
// newest first.
func (s *Service) Ledger(ctx context.Context, accountID string, limit, offset int) (*LedgerResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	limit = clampPageLimit(limit)
	entries, err := s.store.ListLedgerEntries(ctx, store.LedgerFilter{AccountID: accountID}, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerItem{
			ID:          e.ID,
			From:        partyLabel(e.From),
			To:          partyLabel(e.To),
			Amount:      smp.Format(e.AmountUnits),
			Kind:        string(e.Kind),
			Description: e.Description,
			RefType:     e.RefType,
			RefID:       e.RefID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return &LedgerResponse{Items: out, Limit: limit, Offset: offset}, nil
}

func catalogItem(n *store.NFT) CatalogItem {
	return CatalogItem{
		ID:            n.ID,
		Name:          n.Name,
		OwnerID:       n.OwnerID,
		Price:         smp.Format(n.PriceUnits),
		Status:        string(n.Status),
		PaymentStatus: string(n.PaymentStatus),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func partyLabel(p store.Party) string {
	if p.IsSystem() {
		return "system"
	}
	return p.AccountID
}

func clampPageLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
