package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innkeep/innkeep/internal/clock"
	"github.com/innkeep/innkeep/internal/nightaudit/domain"
	"github.com/innkeep/innkeep/internal/nightaudit/engine"
	obsmetrics "github.com/innkeep/innkeep/internal/observability/metrics"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("nightaudit.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Run executes one audit: load, reconcile, de-duplicate, and optionally
// finalize. Load failures abort the run; findings never do.
func (s *Service) Run(ctx context.Context, opts domain.RunOptions) (domain.RunResult, error) {
	start := time.Now()
	auditMetrics := obsmetrics.Audit()

	runBy := strings.TrimSpace(opts.RunBy)
	if runBy == "" {
		runBy = "system"
	}

	runAt := s.clock.Now()
	businessDay := domain.BusinessDay(runAt, opts.TZOffsetHours)
	dayKey := domain.BusinessDayKey(businessDay)

	log := s.log.With(
		zap.String("business_day", dayKey),
		zap.String("run_by", runBy),
		zap.Bool("finalize", opts.Finalize),
	)

	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		auditMetrics.IncRun(obsmetrics.RunOutcomeLoadError, opts.Finalize)
		log.Error("audit load failed", zap.Error(err))
		return domain.RunResult{}, err
	}

	issues, summary := engine.Reconcile(snap, businessDay, runAt)
	issues = engine.Dedupe(issues, snap.NoticedKeys)
	summary.IssuesCount = len(issues)

	for _, issue := range issues {
		auditMetrics.IncIssue(string(issue.Type), 1)
	}

	if opts.Finalize {
		if err := s.finalize(ctx, log, runBy, runAt, dayKey, snap, issues, summary); err != nil {
			auditMetrics.IncRun(obsmetrics.RunOutcomeWriteErr, true)
			return domain.RunResult{}, err
		}
	}

	auditMetrics.IncRun(obsmetrics.RunOutcomeOK, opts.Finalize)
	auditMetrics.ObserveRunDuration(time.Since(start))
	log.Info("audit run complete",
		zap.Int("issues", len(issues)),
		zap.Int("rooms_occupied", summary.RoomsOccupied),
		zap.Float64("occupancy_pct", summary.OccupancyPct),
	)

	return domain.RunResult{Issues: issues, Summary: summary}, nil
}

func (s *Service) finalize(
	ctx context.Context,
	log *zap.Logger,
	runBy string,
	runAt time.Time,
	dayKey string,
	snap *domain.LoadedSnapshot,
	issues []domain.Issue,
	summary domain.Summary,
) error {
	artifacts, err := buildArtifacts(runBy, runAt, dayKey, snap, issues, summary)
	if err != nil {
		return err
	}

	atomicErr := s.repo.WriteRunAtomic(ctx, artifacts)
	if atomicErr == nil {
		return nil
	}

	// Fall back to per-document writes: a partly recorded audit beats a
	// lost one.
	obsmetrics.Audit().IncFinalizeFallback()
	log.Warn("atomic finalize failed, falling back to sequential writes", zap.Error(atomicErr))

	report := s.repo.WriteRunSequential(ctx, artifacts)
	if report.Partial() {
		for _, failure := range report.Failed {
			log.Error("sequential finalize write failed",
				zap.String("document", failure.Document),
				zap.Error(failure.Err),
			)
		}
		return fmt.Errorf("finalize wrote %d documents, %d failed", report.Succeeded, len(report.Failed))
	}
	return nil
}

func buildArtifacts(
	runBy string,
	runAt time.Time,
	dayKey string,
	snap *domain.LoadedSnapshot,
	issues []domain.Issue,
	summary domain.Summary,
) (domain.RunArtifacts, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return domain.RunArtifacts{}, fmt.Errorf("encode summary: %w", err)
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return domain.RunArtifacts{}, fmt.Errorf("encode issues: %w", err)
	}

	staysOpen := 0
	for _, stay := range snap.Stays {
		if stay.Status == staydomain.StayStatusOpen {
			staysOpen++
		}
	}
	roomsOccupied := 0
	for _, room := range snap.Rooms {
		if room.Status == roomdomain.RoomStatusOccupied {
			roomsOccupied++
		}
	}

	now := runAt.UTC()
	persisted := make([]domain.Issue, len(issues))
	copy(persisted, issues)
	for i := range persisted {
		persisted[i].Noticed = false
		persisted[i].CreatedAt = now
		persisted[i].UpdatedAt = now
	}

	return domain.RunArtifacts{
		Log: domain.RunLog{
			BusinessDay: dayKey,
			RunAt:       now,
			RunBy:       runBy,
			RunID:       uuid.NewString(),
			Summary:     summaryJSON,
			Issues:      issuesJSON,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		Snapshot: domain.Snapshot{
			BusinessDay:       dayKey,
			RoomsTotal:        len(snap.Rooms),
			RoomsOccupied:     roomsOccupied,
			ReservationsTotal: len(snap.Reservations),
			StaysTotal:        len(snap.Stays),
			StaysOpen:         staysOpen,
			PostingsTotal:     len(snap.Postings),
			PaymentsTotal:     len(snap.Payments),
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		Issues: persisted,
	}, nil
}

func (s *Service) GetRunLog(ctx context.Context, businessDay string) (domain.RunLog, error) {
	log, err := s.repo.FindRunLog(ctx, strings.TrimSpace(businessDay))
	if err != nil {
		return domain.RunLog{}, err
	}
	if log == nil {
		return domain.RunLog{}, domain.ErrRunLogNotFound
	}
	return *log, nil
}

func (s *Service) AcknowledgeIssue(ctx context.Context, issueKey string) (domain.Issue, error) {
	issueKey = strings.TrimSpace(issueKey)
	if err := s.repo.AcknowledgeIssue(ctx, issueKey); err != nil {
		return domain.Issue{}, err
	}

	issue, err := s.repo.FindIssue(ctx, issueKey)
	if err != nil {
		return domain.Issue{}, err
	}
	if issue == nil {
		return domain.Issue{}, domain.ErrIssueNotFound
	}
	return *issue, nil
}
