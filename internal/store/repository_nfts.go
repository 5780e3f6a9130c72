package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const nftColumns = `id, name, owner_id, price_units, status, payment_status, created_at, updated_at`

func scanNFT(row pgx.Row) (*NFT, error) {
	var n NFT
	err := row.Scan(&n.ID, &n.Name, &n.OwnerID, &n.PriceUnits, &n.Status, &n.PaymentStatus, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &n, nil
}

func (s *Store) CreateNFT(ctx context.Context, name, ownerID string, priceUnits int64) (*NFT, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO nfts (id, name, owner_id, price_units)
		VALUES ($1, $2, $3, $4)
		RETURNING `+nftColumns,
		NewID(), name, ownerID, priceUnits)
	return scanNFT(row)
}

func (s *Store) GetNFT(ctx context.Context, id string) (*NFT, error) {
	return scanNFT(s.Pool.QueryRow(ctx, `SELECT `+nftColumns+` FROM nfts WHERE id = $1`, id))
}

func (s *Store) ListNFTs(ctx context.Context, status NFTStatus, limit, offset int) ([]NFT, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = s.Pool.Query(ctx, `SELECT `+nftColumns+` FROM nfts ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		rows, err = s.Pool.Query(ctx, `SELECT `+nftColumns+` FROM nfts WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []NFT{}
	for rows.Next() {
		var n NFT
		if err := rows.Scan(&n.ID, &n.Name, &n.OwnerID, &n.PriceUnits, &n.Status, &n.PaymentStatus, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateNFTPrice applies only while the item is still available.
func (s *Store) UpdateNFTPrice(ctx context.Context, id string, priceUnits int64) (*NFT, error) {
	nft, err := scanNFT(s.Pool.QueryRow(ctx, `
		UPDATE nfts SET price_units = $1, updated_at = now()
		WHERE id = $2 AND status = 'available'
		RETURNING `+nftColumns, priceUnits, id))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := s.GetNFT(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStateConflict
	}
	return nft, err
}

// UpdateNFTStatus toggles between available and cancelled. Sold items are
// owned by marketplace operations only.
func (s *Store) UpdateNFTStatus(ctx context.Context, id string, status NFTStatus) (*NFT, error) {
	if status != NFTAvailable && status != NFTCancelled {
		return nil, ErrStateConflict
	}
	nft, err := scanNFT(s.Pool.QueryRow(ctx, `
		UPDATE nfts SET status = $1, updated_at = now()
		WHERE id = $2 AND status IN ('available', 'cancelled')
		RETURNING `+nftColumns, status, id))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := s.GetNFT(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStateConflict
	}
	return nft, err
}

// DeleteNFT refuses whenever any transaction references the item, so the
// audit trail can always resolve the rows it points at.
func (s *Store) DeleteNFT(ctx context.Context, id string) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := scanNFT(tx.QueryRow(ctx, `SELECT `+nftColumns+` FROM nfts WHERE id = $1 FOR UPDATE`, id)); err != nil {
		return err
	}
	var refs int
	if err := tx.QueryRow(ctx, `SELECT COUNT(1) FROM nft_transactions WHERE nft_id = $1`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrHasTransactions
	}
	if _, err := tx.Exec(ctx, `DELETE FROM nfts WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type PurchaseResult struct {
	NFT             *NFT
	TransactionID   string
	NewBalanceUnits int64
}

// BuyImmediate settles an available item in one transaction: buyer debit,
// seller credit, ownership transfer, buy/sell transaction rows and the
// buyer->seller ledger movement.
func (s *Store) BuyImmediate(ctx context.Context, nftID, buyerID string) (*PurchaseResult, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	nft, err := lockAvailableNFT(ctx, tx, nftID, buyerID)
	if err != nil {
		return nil, err
	}
	sellerID := nft.OwnerID

	balances, err := lockBalances(ctx, tx, []string{buyerID, sellerID})
	if err != nil {
		return nil, err
	}
	newBal, err := adjustBalance(ctx, tx, buyerID, balances[buyerID], -nft.PriceUnits)
	if err != nil {
		return nil, err
	}
	if _, err := adjustBalance(ctx, tx, sellerID, balances[sellerID], nft.PriceUnits); err != nil {
		return nil, err
	}

	updated, err := transferNFT(ctx, tx, nftID, buyerID, PaymentCompleted)
	if err != nil {
		return nil, err
	}
	buyTxnID, err := insertNFTTxn(ctx, tx, nftID, buyerID, sellerID, nft.PriceUnits, TxnBuy, TxnCompleted)
	if err != nil {
		return nil, err
	}
	if _, err := insertNFTTxn(ctx, tx, nftID, buyerID, sellerID, nft.PriceUnits, TxnSell, TxnCompleted); err != nil {
		return nil, err
	}
	if _, err := recordMovement(ctx, tx, AccountParty(buyerID), AccountParty(sellerID), nft.PriceUnits,
		EntryNFTPurchase, "nft purchase: "+nft.Name, "nft_transaction", buyTxnID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &PurchaseResult{NFT: updated, TransactionID: buyTxnID, NewBalanceUnits: newBal}, nil
}

// BuyDeferred transfers ownership now and leaves payment pending; no funds
// move and no ledger entry is written until settlement.
func (s *Store) BuyDeferred(ctx context.Context, nftID, buyerID string) (*PurchaseResult, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	nft, err := lockAvailableNFT(ctx, tx, nftID, buyerID)
	if err != nil {
		return nil, err
	}
	if _, err := lockBalances(ctx, tx, []string{buyerID}); err != nil {
		return nil, err
	}

	updated, err := transferNFT(ctx, tx, nftID, buyerID, PaymentPending)
	if err != nil {
		return nil, err
	}
	buyTxnID, err := insertNFTTxn(ctx, tx, nftID, buyerID, nft.OwnerID, nft.PriceUnits, TxnBuy, TxnPending)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &PurchaseResult{NFT: updated, TransactionID: buyTxnID}, nil
}

// PayPending settles the deferred purchase of a single item.
func (s *Store) PayPending(ctx context.Context, nftID, buyerID string) (*PurchaseResult, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	txn, err := lockPendingTxn(ctx, tx, `nft_id = $1 AND buyer_id = $2`, nftID, buyerID)
	if err != nil {
		return nil, err
	}
	balances, err := lockBalances(ctx, tx, []string{txn.BuyerID, txn.SellerID})
	if err != nil {
		return nil, err
	}
	newBal, err := settleTxn(ctx, tx, txn, balances)
	if err != nil {
		return nil, err
	}
	nft, err := scanNFT(tx.QueryRow(ctx, `SELECT `+nftColumns+` FROM nfts WHERE id = $1`, nftID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &PurchaseResult{NFT: nft, TransactionID: txn.ID, NewBalanceUnits: newBal}, nil
}

type CheckoutResult struct {
	ProcessedCount  int
	TotalUnits      int64
	NewBalanceUnits int64
}

// Checkout settles every pending purchase of the buyer, oldest first,
// all-or-nothing: if the balance cannot cover the total, nothing settles.
// Locking the pending transaction rows serializes concurrent settlement
// attempts for the same buyer.
func (s *Store) Checkout(ctx context.Context, buyerID string) (*CheckoutResult, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	txns, err := lockPendingTxns(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		var bal int64
		if err := tx.QueryRow(ctx, `SELECT balance_units FROM accounts WHERE id = $1`, buyerID).Scan(&bal); err != nil {
			return nil, mapNotFound(err)
		}
		return &CheckoutResult{NewBalanceUnits: bal}, nil
	}

	var total int64
	ids := []string{buyerID}
	for _, t := range txns {
		total += t.PriceUnits
		ids = append(ids, t.SellerID)
	}
	balances, err := lockBalances(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if balances[buyerID] < total {
		return nil, &InsufficientBalanceError{RequiredUnits: total, AvailableUnits: balances[buyerID]}
	}

	newBal := balances[buyerID]
	for _, t := range txns {
		bal, err := settleTxn(ctx, tx, &t, balances)
		if err != nil {
			return nil, err
		}
		newBal = bal
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &CheckoutResult{ProcessedCount: len(txns), TotalUnits: total, NewBalanceUnits: newBal}, nil
}

// settleTxn moves the funds for one pending buy transaction and marks it
// and its NFT completed. balances carries the locked row values and is
// updated in place so multi-item checkout applies deltas cumulatively.
func settleTxn(ctx context.Context, tx pgx.Tx, txn *NFTTransaction, balances map[string]int64) (int64, error) {
	newBuyerBal, err := adjustBalance(ctx, tx, txn.BuyerID, balances[txn.BuyerID], -txn.PriceUnits)
	if err != nil {
		return 0, err
	}
	balances[txn.BuyerID] = newBuyerBal
	newSellerBal, err := adjustBalance(ctx, tx, txn.SellerID, balances[txn.SellerID], txn.PriceUnits)
	if err != nil {
		return 0, err
	}
	balances[txn.SellerID] = newSellerBal

	if _, err := tx.Exec(ctx, `UPDATE nft_transactions SET status = 'completed' WHERE id = $1`, txn.ID); err != nil {
		return 0, err
	}
	if _, err := insertNFTTxn(ctx, tx, txn.NFTID, txn.BuyerID, txn.SellerID, txn.PriceUnits, TxnSell, TxnCompleted); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `UPDATE nfts SET payment_status = 'completed', updated_at = now() WHERE id = $1`, txn.NFTID); err != nil {
		return 0, err
	}
	if _, err := recordMovement(ctx, tx, AccountParty(txn.BuyerID), AccountParty(txn.SellerID), txn.PriceUnits,
		EntryNFTPurchase, "nft purchase settlement", "nft_transaction", txn.ID); err != nil {
		return 0, err
	}
	return newBuyerBal, nil
}

func lockAvailableNFT(ctx context.Context, tx pgx.Tx, nftID, buyerID string) (*NFT, error) {
	nft, err := scanNFT(tx.QueryRow(ctx, `SELECT `+nftColumns+` FROM nfts WHERE id = $1 FOR UPDATE`, nftID))
	if err != nil {
		return nil, err
	}
	if nft.Status != NFTAvailable {
		return nil, ErrNotAvailable
	}
	if nft.OwnerID == buyerID {
		return nil, ErrSelfPurchase
	}
	return nft, nil
}

func transferNFT(ctx context.Context, tx pgx.Tx, nftID, newOwnerID string, payment PaymentStatus) (*NFT, error) {
	return scanNFT(tx.QueryRow(ctx, `
		UPDATE nfts SET owner_id = $1, status = 'sold', payment_status = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+nftColumns, newOwnerID, payment, nftID))
}

func insertNFTTxn(ctx context.Context, tx pgx.Tx, nftID, buyerID, sellerID string, priceUnits int64, kind TxnKind, status TxnStatus) (string, error) {
	id := NewID()
	_, err := tx.Exec(ctx, `
		INSERT INTO nft_transactions (id, nft_id, buyer_id, seller_id, price_units, kind, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, nftID, buyerID, sellerID, priceUnits, kind, status)
	return id, err
}

const txnColumns = `id, nft_id, buyer_id, seller_id, price_units, kind, status, created_at`

func lockPendingTxn(ctx context.Context, tx pgx.Tx, where string, args ...any) (*NFTTransaction, error) {
	row := tx.QueryRow(ctx, `SELECT `+txnColumns+` FROM nft_transactions
		WHERE kind = 'buy' AND status = 'pending' AND `+where+`
		ORDER BY created_at ASC LIMIT 1 FOR UPDATE`, args...)
	var t NFTTransaction
	if err := row.Scan(&t.ID, &t.NFTID, &t.BuyerID, &t.SellerID, &t.PriceUnits, &t.Kind, &t.Status, &t.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

func lockPendingTxns(ctx context.Context, tx pgx.Tx, buyerID string) ([]NFTTransaction, error) {
	rows, err := tx.Query(ctx, `SELECT `+txnColumns+` FROM nft_transactions
		WHERE kind = 'buy' AND status = 'pending' AND buyer_id = $1
		ORDER BY created_at ASC, id ASC FOR UPDATE`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []NFTTransaction{}
	for rows.Next() {
		var t NFTTransaction
		if err := rows.Scan(&t.ID, &t.NFTID, &t.BuyerID, &t.SellerID, &t.PriceUnits, &t.Kind, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListPendingByBuyer is the read side of checkout: the items awaiting
// settlement and their total.
func (s *Store) ListPendingByBuyer(ctx context.Context, buyerID string) ([]NFTTransaction, int64, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+txnColumns+` FROM nft_transactions
		WHERE kind = 'buy' AND status = 'pending' AND buyer_id = $1
		ORDER BY created_at ASC, id ASC`, buyerID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := []NFTTransaction{}
	var total int64
	for rows.Next() {
		var t NFTTransaction
		if err := rows.Scan(&t.ID, &t.NFTID, &t.BuyerID, &t.SellerID, &t.PriceUnits, &t.Kind, &t.Status, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		total += t.PriceUnits
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]NFTTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+txnColumns+` FROM nft_transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []NFTTransaction{}
	for rows.Next() {
		var t NFTTransaction
		if err := rows.Scan(&t.ID, &t.NFTID, &t.BuyerID, &t.SellerID, &t.PriceUnits, &t.Kind, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
