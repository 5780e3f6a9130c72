package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, session_date, start_time, registration_fee_units, status, created_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.Date, &s.StartTime, &s.FeeUnits, &s.Status, &s.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &s, nil
}

// CreateSessionIfMissing inserts the session for the given date unless one
// already exists. Safe for a periodic scheduler to call repeatedly; the
// returned bool reports whether this call created it.
func (s *Store) CreateSessionIfMissing(ctx context.Context, date, startTime time.Time, feeUnits int64) (*Session, bool, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	tag, err := s.Pool.Exec(ctx, `
		INSERT INTO sessions (id, session_date, start_time, registration_fee_units)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_date) DO NOTHING`,
		NewID(), day, startTime, feeUnits)
	if err != nil {
		return nil, false, err
	}
	sess, err := scanSession(s.Pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE session_date = $1`, day))
	if err != nil {
		return nil, false, err
	}
	return sess, tag.RowsAffected() > 0, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	return scanSession(s.Pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
}

func (s *Store) GetActiveSession(ctx context.Context, date time.Time) (*Session, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	return scanSession(s.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE session_date = $1 AND status = 'active'`, day))
}

// CloseSession is one-way: a closed session stays closed.
func (s *Store) CloseSession(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE sessions SET status = 'closed' WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.GetSession(ctx, id); err != nil {
			return err
		}
		return ErrStateConflict
	}
	return nil
}

func (s *Store) IsRegistered(ctx context.Context, accountID, sessionID string) (bool, error) {
	var exists bool
	err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM session_registrations WHERE session_id = $1 AND account_id = $2)`,
		sessionID, accountID).Scan(&exists)
	return exists, err
}

// RegisterForSession charges the fee and records the registration as one
// atomic unit: fee debit, account->System ledger entry and registration
// row commit together or not at all. The (session_id, account_id) unique
// constraint backstops concurrent duplicate registrations.
func (s *Store) RegisterForSession(ctx context.Context, accountID, sessionID string) (*SessionRegistration, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	sess, err := scanSession(tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, sessionID))
	if err != nil {
		return nil, err
	}
	if sess.Status != SessionActive {
		return nil, ErrSessionInactive
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM session_registrations WHERE session_id = $1 AND account_id = $2)`,
		sessionID, accountID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	balances, err := lockBalances(ctx, tx, []string{accountID})
	if err != nil {
		return nil, err
	}
	if _, err := adjustBalance(ctx, tx, accountID, balances[accountID], -sess.FeeUnits); err != nil {
		return nil, err
	}

	reg := &SessionRegistration{
		ID:        NewID(),
		SessionID: sessionID,
		AccountID: accountID,
		FeeUnits:  sess.FeeUnits,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO session_registrations (id, session_id, account_id, fee_units)
		VALUES ($1, $2, $3, $4)
		RETURNING registered_at`,
		reg.ID, reg.SessionID, reg.AccountID, reg.FeeUnits).Scan(&reg.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err, "session_registrations_session_id_account_id_key") {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	if sess.FeeUnits > 0 {
		if _, err := recordMovement(ctx, tx, AccountParty(accountID), System, sess.FeeUnits,
			EntrySessionFee, "session registration fee", "registration", reg.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Store) ListRegistrationsBySession(ctx context.Context, sessionID string, limit, offset int) ([]SessionRegistration, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, session_id, account_id, fee_units, registered_at
		FROM session_registrations WHERE session_id = $1
		ORDER BY registered_at ASC LIMIT $2 OFFSET $3`, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SessionRegistration{}
	for rows.Next() {
		var r SessionRegistration
		if err := rows.Scan(&r.ID, &r.SessionID, &r.AccountID, &r.FeeUnits, &r.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
