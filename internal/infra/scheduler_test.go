package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingPurger struct {
	calls int
	n     int64
	err   error
}

func (p *countingPurger) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	p.calls++
	return p.n, p.err
}

type recordingSweeper struct {
	idle []time.Duration
}

func (s *recordingSweeper) Sweep(idle time.Duration) int {
	s.idle = append(s.idle, idle)
	return 1
}

func TestScheduler_Jobs(t *testing.T) {
	purger := &countingPurger{n: 3}
	sweeper := &recordingSweeper{}
	s := NewScheduler(purger, sweeper, 15*time.Minute, zap.NewNop())

	s.PurgeSessions(context.Background())
	s.SweepForms()

	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, []time.Duration{15 * time.Minute}, sweeper.idle)
}

func TestScheduler_PurgeErrorIsLogged(t *testing.T) {
	purger := &countingPurger{err: errors.New("db down")}
	s := NewScheduler(purger, &recordingSweeper{}, time.Minute, zap.NewNop())

	assert.NotPanics(t, func() { s.PurgeSessions(context.Background()) })
	assert.Equal(t, 1, purger.calls)
}

func TestScheduler_StartRegistersJobs(t *testing.T) {
	withSessions := NewScheduler(&countingPurger{}, &recordingSweeper{}, time.Minute, zap.NewNop())
	require.NoError(t, withSessions.Start())
	assert.Len(t, withSessions.cron.Entries(), 2)
	withSessions.Stop()

	formsOnly := NewScheduler(nil, &recordingSweeper{}, time.Minute, zap.NewNop())
	require.NoError(t, formsOnly.Start())
	assert.Len(t, formsOnly.cron.Entries(), 1)
	formsOnly.Stop()
}
