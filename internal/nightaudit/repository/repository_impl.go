package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/innkeep/innkeep/internal/nightaudit/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

// LoadSnapshot reads the five source collections plus the acknowledged
// issue keys. Reads run concurrently and all must succeed; the first
// failure cancels the rest and aborts the load, because reconciling a
// partial snapshot is worse than not reconciling at all.
func (r *repo) LoadSnapshot(ctx context.Context) (*domain.LoadedSnapshot, error) {
	snap := &domain.LoadedSnapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.db.WithContext(gctx).Order("room_number asc").Find(&snap.Rooms).Error; err != nil {
			return fmt.Errorf("load rooms: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		err := r.db.WithContext(gctx).
			Where("status IN ?", reservationdomain.AuditedStatuses).
			Find(&snap.Reservations).Error
		if err != nil {
			return fmt.Errorf("load reservations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Find(&snap.Stays).Error; err != nil {
			return fmt.Errorf("load stays: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Find(&snap.Postings).Error; err != nil {
			return fmt.Errorf("load postings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.WithContext(gctx).Find(&snap.Payments).Error; err != nil {
			return fmt.Errorf("load payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var keys []string
		err := r.db.WithContext(gctx).Model(&domain.Issue{}).
			Where("noticed = ?", true).
			Pluck("issue_key", &keys).Error
		if err != nil {
			return fmt.Errorf("load noticed issues: %w", err)
		}
		snap.NoticedKeys = make(map[string]bool, len(keys))
		for _, key := range keys {
			snap.NoticedKeys[key] = true
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Join(domain.ErrLoadFailed, err)
	}
	return snap, nil
}

// WriteRunAtomic persists the run log, the snapshot, and every new issue
// in one transaction: either the whole run is recorded or none of it.
func (r *repo) WriteRunAtomic(ctx context.Context, artifacts domain.RunArtifacts) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertRunLog(ctx, tx, artifacts.Log); err != nil {
			return err
		}
		if err := upsertSnapshot(ctx, tx, artifacts.Snapshot); err != nil {
			return err
		}
		for i := range artifacts.Issues {
			if err := upsertIssue(ctx, tx, &artifacts.Issues[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRunSequential writes the same documents one by one, each
// independently. A failed document is recorded and skipped; the rest still
// get their chance. This trades atomicity for "better partial than none".
func (r *repo) WriteRunSequential(ctx context.Context, artifacts domain.RunArtifacts) domain.WriteReport {
	var report domain.WriteReport
	record := func(document string, err error) {
		if err != nil {
			report.Failed = append(report.Failed, domain.WriteFailure{Document: document, Err: err})
			return
		}
		report.Succeeded++
	}

	record("run_log:"+artifacts.Log.BusinessDay, upsertRunLog(ctx, r.db, artifacts.Log))
	record("snapshot:"+artifacts.Snapshot.BusinessDay, upsertSnapshot(ctx, r.db, artifacts.Snapshot))
	for i := range artifacts.Issues {
		record("issue:"+artifacts.Issues[i].IssueKey, upsertIssue(ctx, r.db, &artifacts.Issues[i]))
	}
	return report
}

func (r *repo) FindRunLog(ctx context.Context, businessDay string) (*domain.RunLog, error) {
	var log domain.RunLog
	err := r.db.WithContext(ctx).First(&log, "business_day = ?", businessDay).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *repo) FindIssue(ctx context.Context, issueKey string) (*domain.Issue, error) {
	var issue domain.Issue
	err := r.db.WithContext(ctx).First(&issue, "issue_key = ?", issueKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

func (r *repo) AcknowledgeIssue(ctx context.Context, issueKey string) error {
	result := r.db.WithContext(ctx).Model(&domain.Issue{}).
		Where("issue_key = ?", issueKey).
		Updates(map[string]any{
			"noticed":    true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

// Run logs and snapshots overwrite on their business-day key: finalizing
// the same day twice replaces the prior record instead of duplicating it.
func upsertRunLog(ctx context.Context, db *gorm.DB, log domain.RunLog) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"run_at", "run_by", "run_id", "summary", "issues", "updated_at",
		}),
	}).Create(&log).Error
}

func upsertSnapshot(ctx context.Context, db *gorm.DB, snapshot domain.Snapshot) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "business_day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rooms_total", "rooms_occupied", "reservations_total", "stays_total",
			"stays_open", "postings_total", "payments_total", "updated_at",
		}),
	}).Create(&snapshot).Error
}

// Issue documents merge: an existing row is extended, never replaced, and
// the noticed flag is deliberately absent from the update set so an
// operator's acknowledgement survives later finalizes.
func upsertIssue(ctx context.Context, db *gorm.DB, issue *domain.Issue) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "issue_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"type", "message", "reservation_id", "stay_id", "room_number",
			"business_day", "context", "updated_at",
		}),
	}).Create(issue).Error
}
