// Package scheduler runs the recurring night-audit preview. Finalizing a
// business day stays an operator action through the HTTP API; the scheduled
// run keeps issue counts and metrics fresh between finalizations.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/innkeep/innkeep/internal/clock"
	appconfig "github.com/innkeep/innkeep/internal/config"
	nightauditdomain "github.com/innkeep/innkeep/internal/nightaudit/domain"
	obsmetrics "github.com/innkeep/innkeep/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log           *zap.Logger
	AppCfg        appconfig.Config
	Clock         clock.Clock
	NightAuditSvc nightauditdomain.Service
	Config        Config `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	clock         clock.Clock
	nightAuditSvc nightauditdomain.Service
	tzOffsetHours int
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.NightAuditSvc == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config
	if cfg.RunInterval <= 0 {
		cfg.RunInterval = p.AppCfg.SchedulerInterval
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler"),
		cfg:           cfg.withDefaults(),
		clock:         p.Clock,
		nightAuditSvc: p.NightAuditSvc,
		tzOffsetHours: p.AppCfg.AuditTZOffsetHours,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		log.Debug("job finished", zap.Duration("took", time.Since(start)))
		return nil
	}

	schedMetrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out", zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, "night_audit", s.cfg.JobTimeout, s.NightAuditJob)
}

// NightAuditJob runs a non-finalizing audit pass and logs the headline
// numbers.
func (s *Scheduler) NightAuditJob(ctx context.Context) error {
	result, err := s.nightAuditSvc.Run(ctx, nightauditdomain.RunOptions{
		RunBy:         "scheduler",
		Finalize:      false,
		TZOffsetHours: s.tzOffsetHours,
	})
	if err != nil {
		return err
	}

	s.log.Info("night audit preview complete",
		zap.String("business_day", result.Summary.BusinessDay),
		zap.Int("issues", len(result.Issues)),
		zap.Float64("occupancy_pct", result.Summary.OccupancyPct),
	)
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
