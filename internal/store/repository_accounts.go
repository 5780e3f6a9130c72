package store

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, name, api_key_hash, wallet_address, balance_units, status, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.APIKeyHash, &a.WalletAddress, &a.BalanceUnits, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, name, apiKey, walletAddress string) (*Account, error) {
	id := NewID()
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO accounts (id, name, api_key_hash, wallet_address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+accountColumns,
		id, name, HashAPIKey(apiKey), walletAddress)
	return scanAccount(row)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*Account, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (s *Store) GetAccountByAPIKey(ctx context.Context, apiKey string) (*Account, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE api_key_hash = $1`, HashAPIKey(apiKey))
	return scanAccount(row)
}

func (s *Store) GetAccountBalance(ctx context.Context, id string) (int64, error) {
	var bal int64
	if err := s.Pool.QueryRow(ctx, `SELECT balance_units FROM accounts WHERE id = $1`, id).Scan(&bal); err != nil {
		return 0, mapNotFound(err)
	}
	return bal, nil
}

func (s *Store) ListAccounts(ctx context.Context, limit, offset int) ([]Account, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Account{}
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.APIKeyHash, &a.WalletAddress, &a.BalanceUnits, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// lockBalances locks the given account rows in ascending id order and
// returns their balances. Acquiring multi-account locks through this one
// helper keeps the lock order canonical across every operation, so a
// buyer/seller pair can never deadlock. A missing account yields
// ErrNotFound.
func lockBalances(ctx context.Context, tx pgx.Tx, ids []string) (map[string]int64, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Strings(uniq)

	rows, err := tx.Query(ctx, `SELECT id, balance_units FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`, uniq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	balances := make(map[string]int64, len(uniq))
	for rows.Next() {
		var id string
		var bal int64
		if err := rows.Scan(&id, &bal); err != nil {
			return nil, err
		}
		balances[id] = bal
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(balances) != len(uniq) {
		return nil, ErrNotFound
	}
	return balances, nil
}

// adjustBalance applies a delta to an already-locked account row. The
// caller must hold the row lock via lockBalances and pass the balance it
// observed; a negative result fails without touching the row.
func adjustBalance(ctx context.Context, tx pgx.Tx, accountID string, current, delta int64) (int64, error) {
	newBal := current + delta
	if newBal < 0 {
		return 0, &InsufficientBalanceError{RequiredUnits: -delta, AvailableUnits: current}
	}
	_, err := tx.Exec(ctx, `UPDATE accounts SET balance_units = $1, updated_at = now() WHERE id = $2`, newBal, accountID)
	if err != nil {
		return 0, err
	}
	return newBal, nil
}
