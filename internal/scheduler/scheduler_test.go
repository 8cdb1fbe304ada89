package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/innkeep/innkeep/internal/clock"
	appconfig "github.com/innkeep/innkeep/internal/config"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type auditStub struct {
	lastOpts nightauditdomain.RunOptions
	runs     int
	err      error
}

func (s *auditStub) Run(_ context.Context, opts nightauditdomain.RunOptions) (nightauditdomain.RunResult, error) {
	s.lastOpts = opts
	s.runs++
	if s.err != nil {
		return nightauditdomain.RunResult{}, s.err
	}
	return nightauditdomain.RunResult{
		Summary: nightauditdomain.Summary{BusinessDay: "2025-03-10"},
	}, nil
}

func (s *auditStub) GetRunLog(context.Context, string) (nightauditdomain.RunLog, error) {
	return nightauditdomain.RunLog{}, nightauditdomain.ErrRunLogNotFound
}

func (s *auditStub) AcknowledgeIssue(context.Context, string) (nightauditdomain.Issue, error) {
	return nightauditdomain.Issue{}, nightauditdomain.ErrIssueNotFound
}

func newScheduler(t *testing.T, stub *auditStub) *Scheduler {
	t.Helper()
	sched, err := New(Params{
		Log:           zap.NewNop(),
		AppCfg:        appconfig.Config{AuditTZOffsetHours: 7, SchedulerInterval: time.Minute},
		Clock:         clock.NewFakeClock(time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)),
		NightAuditSvc: stub,
	})
	require.NoError(t, err)
	return sched
}

func TestRunOnce_RunsPreviewWithConfiguredOffset(t *testing.T) {
	stub := &auditStub{}
	sched := newScheduler(t, stub)

	require.NoError(t, sched.RunOnce(context.Background()))

	assert.Equal(t, 1, stub.runs)
	assert.Equal(t, "scheduler", stub.lastOpts.RunBy)
	assert.False(t, stub.lastOpts.Finalize)
	assert.Equal(t, 7, stub.lastOpts.TZOffsetHours)
}

func TestRunOnce_PropagatesFailure(t *testing.T) {
	stub := &auditStub{err: errors.New("load failed")}
	sched := newScheduler(t, stub)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "night_audit")
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
