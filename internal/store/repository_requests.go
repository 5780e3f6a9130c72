package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, account_id, kind, smp_amount_units, usdt_amount_units, wallet_address, status, created_at, resolved_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.AccountID, &r.Kind, &r.SMPUnits, &r.USDTUnits, &r.WalletAddress, &r.Status, &r.CreatedAt, &r.ResolvedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

func (s *Store) CreateRequest(ctx context.Context, accountID string, kind RequestKind, smpUnits, usdtUnits int64, walletAddress string) (*Request, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO requests (id, account_id, kind, smp_amount_units, usdt_amount_units, wallet_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+requestColumns,
		NewID(), accountID, kind, smpUnits, usdtUnits, walletAddress)
	return scanRequest(row)
}

func (s *Store) GetRequest(ctx context.Context, id string) (*Request, error) {
	return scanRequest(s.Pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
}

// ResolveRequest moves a pending request to its terminal state. Resolving
// a deposit as success credits the account, a withdrawal debits it; the
// status flip, the balance change and the ledger entry commit as one unit,
// so an approved-but-uncredited request cannot exist. A second resolve
// sees a non-pending row and fails ErrStateConflict.
func (s *Store) ResolveRequest(ctx context.Context, requestID string, newStatus RequestStatus) (*Request, error) {
	if !newStatus.ValidResolution() {
		return nil, ErrStateConflict
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req, err := scanRequest(tx.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, requestID))
	if err != nil {
		return nil, err
	}
	if req.Status != RequestPending {
		return nil, ErrStateConflict
	}

	if newStatus == RequestSuccess {
		balances, err := lockBalances(ctx, tx, []string{req.AccountID})
		if err != nil {
			return nil, err
		}
		switch req.Kind {
		case RequestDeposit:
			if _, err := adjustBalance(ctx, tx, req.AccountID, balances[req.AccountID], req.SMPUnits); err != nil {
				return nil, err
			}
			if _, err := recordMovement(ctx, tx, System, AccountParty(req.AccountID), req.SMPUnits,
				EntryDeposit, "deposit request approved", "request", req.ID); err != nil {
				return nil, err
			}
		case RequestWithdraw:
			if _, err := adjustBalance(ctx, tx, req.AccountID, balances[req.AccountID], -req.SMPUnits); err != nil {
				return nil, err
			}
			if _, err := recordMovement(ctx, tx, AccountParty(req.AccountID), System, req.SMPUnits,
				EntryWithdrawal, "withdrawal request approved", "request", req.ID); err != nil {
				return nil, err
			}
		}
	}

	resolved, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE requests SET status = $1, resolved_at = now()
		WHERE id = $2 AND status = 'pending'
		RETURNING `+requestColumns, newStatus, requestID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return resolved, nil
}

type RequestFilter struct {
	AccountID string
	Status    RequestStatus
}

func (s *Store) ListRequests(ctx context.Context, f RequestFilter, limit, offset int) ([]Request, error) {
	if limit <= 0 {
		limit = 50
	}
	where := `WHERE 1=1`
	args := []any{}
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		where += ` AND account_id = $1`
	}
	if f.Status != "" {
		args = append(args, f.Status)
		if len(args) == 1 {
			where += ` AND status = $1`
		} else {
			where += ` AND status = $2`
		}
	}
	args = append(args, limit, offset)
	lim := len(args) - 1
	q := `SELECT ` + requestColumns + ` FROM requests ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(lim) + ` OFFSET $` + strconv.Itoa(lim+1)

	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Request{}
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Kind, &r.SMPUnits, &r.USDTUnits, &r.WalletAddress, &r.Status, &r.CreatedAt, &r.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
