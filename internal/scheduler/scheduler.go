package scheduler

import (
	"context"
	"time"

	appsession "smp-market/internal/app/session"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionScheduler opens the daily session on a cron schedule. Creation
// is idempotent, so overlapping runs and manual admin creation are safe.
type SessionScheduler struct {
	cron *cron.Cron
	svc  *appsession.Service
	fee  string
}

func NewSessionScheduler(svc *appsession.Service, spec, fee string) (*SessionScheduler, error) {
	s := &SessionScheduler{cron: cron.New(), svc: svc, fee: fee}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionScheduler) Start() {
	s.cron.Start()
}

func (s *SessionScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *SessionScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.EnsureToday(ctx)
}

// EnsureToday creates today's session unless it already exists. Also
// called once at startup so a restart mid-day still opens the session.
func (s *SessionScheduler) EnsureToday(ctx context.Context) {
	resp, err := s.svc.Ensure(ctx, "", time.Time{}, s.fee)
	if err != nil {
		log.Error().Err(err).Msg("ensure daily session failed")
		return
	}
	if resp.Created {
		log.Info().
			Str("session_id", resp.Session.ID).
			Str("date", resp.Session.Date).
			Str("fee", resp.Session.RegistrationFee).
			Msg("daily session created")
	}
}
