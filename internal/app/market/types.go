package market

import (
	"time"

	"smp-market/internal/smp"
	"smp-market/internal/store"
)

type NFTItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	OwnerID       string    `json:"owner_id"`
	Price         string    `json:"price"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func nftItem(n *store.NFT) NFTItem {
	return NFTItem{
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

type BuyResponse struct {
	NFT           NFTItem `json:"nft"`
	TransactionID string  `json:"transaction_id"`
	Deferred      bool    `json:"deferred"`
	NewBalance    string  `json:"new_balance,omitempty"`
}

type PayResponse struct {
	NFT           NFTItem `json:"nft"`
	TransactionID string  `json:"transaction_id"`
	NewBalance    string  `json:"new_balance"`
}

type CheckoutResponse struct {
	ProcessedCount int    `json:"processed_count"`
	TotalAmount    string `json:"total_amount"`
	NewBalance     string `json:"new_balance"`
}

type PendingItem struct {
	TransactionID string    `json:"transaction_id"`
	NFTID         string    `json:"nft_id"`
	SellerID      string    `json:"seller_id"`
	Price         string    `json:"price"`
	CreatedAt     time.Time `json:"created_at"`
}

type PendingResponse struct {
	Items       []PendingItem `json:"items"`
	TotalAmount string        `json:"total_amount"`
}

type TransactionItem struct {
	ID        string    `json:"id"`
	NFTID     string    `json:"nft_id"`
	BuyerID   string    `json:"buyer_id"`
	SellerID  string    `json:"seller_id"`
	Price     string    `json:"price"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type TransactionsResponse struct {
	Items  []TransactionItem `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}
