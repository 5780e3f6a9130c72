package market

import (
	"context"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Buy purchases an available NFT for the buyer. Deferred purchases take
// ownership now and settle later via Pay or Checkout.
func (s *Service) Buy(ctx context.Context, buyerID, nftID string, deferred bool) (*BuyResponse, error) {
	if buyerID == "" || nftID == "" {
		return nil, ErrInvalidRequest
	}
	var res *store.PurchaseResult
	var err error
	if deferred {
		res, err = s.store.BuyDeferred(ctx, nftID, buyerID)
	} else {
		res, err = s.store.BuyImmediate(ctx, nftID, buyerID)
	}
	if err != nil {
		return nil, err
	}
	out := &BuyResponse{
		NFT:           nftItem(res.NFT),
		TransactionID: res.TransactionID,
		Deferred:      deferred,
	}
	if !deferred {
		out.NewBalance = smp.Format(res.NewBalanceUnits)
	}
	return out, nil
}

func (s *Service) Pay(ctx context.Context, buyerID, nftID string) (*PayResponse, error) {
	if buyerID == "" || nftID == "" {
		return nil, ErrInvalidRequest
	}
	res, err := s.store.PayPending(ctx, nftID, buyerID)
	if err != nil {
		return nil, err
	}
	return &PayResponse{
		NFT:           nftItem(res.NFT),
		TransactionID: res.TransactionID,
		NewBalance:    smp.Format(res.NewBalanceUnits),
	}, nil
}

func (s *Service) Checkout(ctx context.Context, buyerID string) (*CheckoutResponse, error) {
	if buyerID == "" {
		return nil, ErrInvalidRequest
	}
	res, err := s.store.Checkout(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResponse{
		ProcessedCount: res.ProcessedCount,
		TotalAmount:    smp.Format(res.TotalUnits),
		NewBalance:     smp.Format(res.NewBalanceUnits),
	}, nil
}

func (s *Service) Pending(ctx context.Context, buyerID string) (*PendingResponse, error) {
	if buyerID == "" {
		return nil, ErrInvalidRequest
	}
	txns, total, err := s.store.ListPendingByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	items := make([]PendingItem, 0, len(txns))
	for _, t := range txns {
		items = append(items, PendingItem{
			TransactionID: t.ID,
			NFTID:         t.NFTID,
			SellerID:      t.SellerID,
			Price:         smp.Format(t.PriceUnits),
			CreatedAt:     t.CreatedAt,
		})
	}
	return &PendingResponse{Items: items, TotalAmount: smp.Format(total)}, nil
}

func (s *Service) Transactions(ctx context.Context, accountID string, limit, offset int) (*TransactionsResponse, error) {
	if accountID == "" {
		return nil, ErrInvalidRequest
	}
	txns, err := s.store.ListTransactionsByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]TransactionItem, 0, len(txns))
	for _, t := range txns {
		items = append(items, TransactionItem{
			ID:        t.ID,
			NFTID:     t.NFTID,
			BuyerID:   t.BuyerID,
			SellerID:  t.SellerID,
			Price:     smp.Format(t.PriceUnits),
			Kind:      string(t.Kind),
			Status:    string(t.Status),
			CreatedAt: t.CreatedAt,
		})
	}
	return &TransactionsResponse{Items: items, Limit: limit, Offset: offset}, nil
}

// CreateNFT lists a new item owned by the given seller.
func (s *Service) CreateNFT(ctx context.Context, name, ownerID, price string) (*NFTItem, error) {
	units, err := smp.Parse(price)
	if err != nil || units <= 0 || name == "" || ownerID == "" {
		return nil, ErrInvalidRequest
	}
	n, err := s.store.CreateNFT(ctx, name, ownerID, units)
	if err != nil {
		return nil, err
	}
	item := nftItem(n)
	return &item, nil
}

func (s *Service) UpdatePrice(ctx context.Context, nftID, price string) (*NFTItem, error) {
	units, err := smp.Parse(price)
	if err != nil || units <= 0 || nftID == "" {
		return nil, ErrInvalidRequest
	}
	n, err := s.store.UpdateNFTPrice(ctx, nftID, units)
	if err != nil {
		return nil, err
	}
	item := nftItem(n)
	return &item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, nftID, status string) (*NFTItem, error) {
	st := store.NFTStatus(status)
	if nftID == "" || !st.Valid() {
		return nil, ErrInvalidRequest
	}
	n, err := s.store.UpdateNFTStatus(ctx, nftID, st)
	if err != nil {
		return nil, err
	}
	item := nftItem(n)
	return &item, nil
}

func (s *Service) Delete(ctx context.Context, nftID string) error {
	if nftID == "" {
		return ErrInvalidRequest
	}
	return s.store.DeleteNFT(ctx, nftID)
}
