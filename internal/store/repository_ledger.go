package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

// recordMovement appends a ledger entry inside an open transaction and
// returns its id. The unique index on (kind, ref_type, ref_id) makes a
// retried movement fail with ErrMovementApplied instead of re-crediting;
// the surrounding transaction then rolls back, leaving the first
// application as the only one.
func recordMovement(ctx context.Context, tx pgx.Tx, from, to Party, amount int64, kind EntryKind, description, refType, refID string) (string, error) {
	id := NewID()
	tag, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (id, from_account_id, to_account_id, amount_units, kind, description, ref_type, ref_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'completed')
		ON CONFLICT (kind, ref_type, ref_id) DO NOTHING`,
		id, from.column(), to.column(), amount, kind, description, refType, refID)
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", ErrMovementApplied
	}
	return id, nil
}

type LedgerFilter struct {
	AccountID string
	RefType   string
	RefID     string
	From      *time.Time
	To        *time.Time
}

func (s *Store) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	where := `WHERE 1=1`
	args := []any{}
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		where += ` AND (from_account_id = $1 OR to_account_id = $1)`
	}
	if f.RefType != "" {
		args = append(args, f.RefType)
		where += ` AND ref_type = $` + strconv.Itoa(len(args))
	}
	if f.RefID != "" {
		args = append(args, f.RefID)
		where += ` AND ref_id = $` + strconv.Itoa(len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, from_account_id, to_account_id, amount_units, kind, description, ref_type, ref_id, status, created_at
		FROM ledger_entries ` + where + `
		ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*LedgerEntry, error) {
	var e LedgerEntry
	var from, to *string
	err := row.Scan(&e.ID, &from, &to, &e.AmountUnits, &e.Kind, &e.Description, &e.RefType, &e.RefID, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	e.From = partyFromColumn(from)
	e.To = partyFromColumn(to)
	return &e, nil
}

// AccountNet sums the account's ledger movements: credits minus debits.
// Used by reconciliation checks against the stored balance.
func (s *Store) AccountNet(ctx context.Context, accountID string) (int64, error) {
	var net int64
	err := s.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN to_account_id = $1 THEN amount_units ELSE -amount_units END), 0)
		FROM ledger_entries
		WHERE from_account_id = $1 OR to_account_id = $1`, accountID).Scan(&net)
	return net, err
}

