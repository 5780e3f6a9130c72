package session

import (
	"context"
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

type SessionView struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	StartTime       time.Time `json:"start_time"`
	RegistrationFee string    `json:"registration_fee"`
	Status          string    `json:"status"`
}

func sessionView(s *store.Session) SessionView {
	return SessionView{
		ID:              s.ID,
		Date:            s.Date.Format("2006-01-02"),
		StartTime:       s.StartTime,
		RegistrationFee: smp.Format(s.FeeUnits),
		Status:          string(s.Status),
	}
}

type RegisterResponse struct {
	RegistrationID string    `json:"registration_id"`
	SessionID      string    `json:"session_id"`
	FeeCharged     string    `json:"fee_charged"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// Register charges the session fee and records the registration.
func (s *Service) Register(ctx context.Context, accountID, sessionID string) (*RegisterResponse, error) {
	if accountID == "" || sessionID == "" {
		return nil, ErrInvalidRequest
	}
	reg, err := s.store.RegisterForSession(ctx, accountID, sessionID)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{
		RegistrationID: reg.ID,
		SessionID:      reg.SessionID,
		FeeCharged:     smp.Format(reg.FeeUnits),
		RegisteredAt:   reg.RegisteredAt,
	}, nil
}

// Active returns the active session for the given date, today when the
// date string is empty.
func (s *Service) Active(ctx context.Context, date string) (*SessionView, error) {
	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		day = parsed
	}
	sess, err := s.store.GetActiveSession(ctx, day)
	if err != nil {
		return nil, err
	}
	view := sessionView(sess)
	return &view, nil
}

type EnsureResponse struct {
	Session SessionView `json:"session"`
	Created bool        `json:"created"`
}

// Ensure creates the session for the date unless it already exists.
// Idempotent: the scheduler and the admin endpoint both call it freely.
func (s *Service) Ensure(ctx context.Context, date string, startTime time.Time, fee string) (*EnsureResponse, error) {
	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		day = parsed
	}
	feeUnits, err := smp.Parse(fee)
	if err != nil || feeUnits < 0 {
		return nil, ErrInvalidRequest
	}
	if startTime.IsZero() {
		startTime = day
	}
	sess, created, err := s.store.CreateSessionIfMissing(ctx, day, startTime, feeUnits)
	if err != nil {
		return nil, err
	}
	return &EnsureResponse{Session: sessionView(sess), Created: created}, nil
}

func (s *Service) Close(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidRequest
	}
	return s.store.CloseSession(ctx, sessionID)
}

func (s *Service) IsRegistered(ctx context.Context, accountID, sessionID string) (bool, error) {
	if accountID == "" || sessionID == "" {
		return false, ErrInvalidRequest
	}
	return s.store.IsRegistered(ctx, accountID, sessionID)
}

type RegistrationItem struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Fee          string    `json:"fee"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RegistrationsResponse struct {
	Items  []RegistrationItem `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

func (s *Service) Registrations(ctx context.Context, sessionID string, limit, offset int) (*RegistrationsResponse, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}
	regs, err := s.store.ListRegistrationsBySession(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]RegistrationItem, 0, len(regs))
	for _, reg := range regs {
		items = append(items, RegistrationItem{
			ID:           reg.ID,
			AccountID:    reg.AccountID,
			Fee:          smp.Format(reg.FeeUnits),
			RegisteredAt: reg.RegisteredAt,
		})
	}
	return &RegistrationsResponse{Items: items, Limit: limit, Offset: offset}, nil
}
