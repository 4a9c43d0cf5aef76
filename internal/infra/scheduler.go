package infra

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionPurger deletes expired login sessions
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// FormSweeper drops idle form controllers
type FormSweeper interface {
	Sweep(idle time.Duration) int
}

// Scheduler manages housekeeping jobs
type Scheduler struct {
	cron        *cron.Cron
	sessions    SessionPurger
	forms       FormSweeper
	formIdleTTL time.Duration
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler. sessions may be nil when the
// provider keeps no local sessions.
func NewScheduler(sessions SessionPurger, forms FormSweeper, formIdleTTL time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		sessions:    sessions,
		forms:       forms,
		formIdleTTL: formIdleTTL,
		logger:      logger,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if s.sessions != nil {
		if _, err := s.cron.AddFunc("@every 10m", func() {
			s.PurgeSessions(context.Background())
		}); err != nil {
			return err
		}
	}

	if _, err := s.cron.AddFunc("@every 1m", s.SweepForms); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// PurgeSessions runs one expired-session purge
func (s *Scheduler) PurgeSessions(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := s.sessions.PurgeExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("session purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired sessions purged", zap.Int64("count", n))
	}
}

// SweepForms runs one idle-form sweep
func (s *Scheduler) SweepForms() {
	if n := s.forms.Sweep(s.formIdleTTL); n > 0 {
		s.logger.Debug("idle forms dropped", zap.Int("count", n))
	}
}
