package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/innkeep/innkeep/internal/clock"
	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	"github.com/innkeep/innkeep/internal/migration"
	"github.com/innkeep/innkeep/internal/nightaudit/domain"
	nightauditrepo "github.com/innkeep/innkeep/internal/nightaudit/repository"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 22:15 UTC at offset +7 is 05:15 local on March 11, past the cutover.
var frozenRunAt = time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)

const frozenDayKey = "2025-03-11"

func setupService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	// A named shared-cache DB keeps the pooled connections the concurrent
	// loader opens pointed at the same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.Run(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		log:   zap.NewNop(),
		clock: clock.NewFakeClock(frozenRunAt),
		repo:  nightauditrepo.Provide(db),
	}
	return svc, db, node
}

func runOpts(finalize bool) domain.RunOptions {
	return domain.RunOptions{RunBy: "tester", Finalize: finalize, TZOffsetHours: 7}
}

func seedNoShow(t *testing.T, db *gorm.DB, node *snowflake.Node) reservationdomain.Reservation {
	t.Helper()
	checkIn := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	res := reservationdomain.Reservation{
		ID:          node.Generate(),
		Status:      reservationdomain.StatusBooked,
		CheckInDate: &checkIn,
		RoomNumbers: []string{"101"},
		Channel:     "direct",
	}
	require.NoError(t, db.Create(&res).Error)
	return res
}

func TestRun_PreviewPersistsNothing(t *testing.T) {
	svc, db, node := setupService(t)
	seedNoShow(t, db, node)

	result, err := svc.Run(context.Background(), runOpts(false))
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, domain.IssuePossibleNoShow, result.Issues[0].Type)
	assert.Equal(t, 1, result.Summary.IssuesCount)
	assert.Equal(t, frozenDayKey, result.Summary.BusinessDay)

	var issueCount, logCount int64
	require.NoError(t, db.Model(&domain.Issue{}).Count(&issueCount).Error)
	require.NoError(t, db.Model(&domain.RunLog{}).Count(&logCount).Error)
	assert.Zero(t, issueCount)
	assert.Zero(t, logCount)
}

func TestRun_FinalizePersistsArtifacts(t *testing.T) {
	svc, db, node := setupService(t)
	res := seedNoShow(t, db, node)
	require.NoError(t, db.Create(&roomdomain.Room{
		ID: node.Generate(), RoomNumber: "101", RoomType: "standard", Status: roomdomain.RoomStatusAvailable,
	}).Error)

	result, err := svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)

	var logs []domain.RunLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, frozenDayKey, logs[0].BusinessDay)
	assert.Equal(t, "tester", logs[0].RunBy)
	assert.NotEmpty(t, logs[0].RunID)

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(logs[0].Summary, &summary))
	assert.Equal(t, 1, summary.RoomsTotal)
	assert.Equal(t, 1, summary.IssuesCount)

	var snapshots []domain.Snapshot
	require.NoError(t, db.Find(&snapshots).Error)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 1, snapshots[0].RoomsTotal)
	assert.Equal(t, 1, snapshots[0].ReservationsTotal)

	var issues []domain.Issue
	require.NoError(t, db.Find(&issues).Error)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.Key(domain.IssuePossibleNoShow, res.ID.String(), "", ""), issues[0].IssueKey)
	assert.False(t, issues[0].Noticed)
}

func TestRun_FinalizeTwiceOverwritesNotDuplicates(t *testing.T) {
	svc, db, node := setupService(t)
	seedNoShow(t, db, node)

	_, err := svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)

	var logCount, snapCount, issueCount int64
	require.NoError(t, db.Model(&domain.RunLog{}).Count(&logCount).Error)
	require.NoError(t, db.Model(&domain.Snapshot{}).Count(&snapCount).Error)
	require.NoError(t, db.Model(&domain.Issue{}).Count(&issueCount).Error)
	assert.EqualValues(t, 1, logCount)
	assert.EqualValues(t, 1, snapCount)
	assert.EqualValues(t, 1, issueCount)
}

func TestRun_AcknowledgeSuppressesAndMergePreservesNoticed(t *testing.T) {
	svc, db, node := setupService(t)
	res := seedNoShow(t, db, node)
	issueKey := domain.Key(domain.IssuePossibleNoShow, res.ID.String(), "", "")

	_, err := svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)

	acked, err := svc.AcknowledgeIssue(context.Background(), issueKey)
	require.NoError(t, err)
	assert.True(t, acked.Noticed)

	// The acknowledged key disappears from run output and from the count.
	result, err := svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.Summary.IssuesCount)

	// The re-finalize merged the issue row without clearing the flag.
	var stored domain.Issue
	require.NoError(t, db.Where("issue_key = ?", issueKey).First(&stored).Error)
	assert.True(t, stored.Noticed)
}

func TestRun_CleanProperty(t *testing.T) {
	svc, db, node := setupService(t)

	res := reservationdomain.Reservation{
		ID:          node.Generate(),
		Status:      reservationdomain.StatusCheckedIn,
		RoomNumbers: []string{"101"},
		Channel:     "ota",
	}
	checkIn := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	res.CheckInDate = &checkIn
	res.CheckOutDate = &checkOut
	require.NoError(t, db.Create(&res).Error)
	require.NoError(t, db.Create(&roomdomain.Room{
		ID: node.Generate(), RoomNumber: "101", RoomType: "standard", Status: roomdomain.RoomStatusOccupied,
	}).Error)
	require.NoError(t, db.Create(&staydomain.Stay{
		ID: node.Generate(), Status: staydomain.StayStatusOpen, RoomNumber: "101",
		ReservationID: &res.ID, OpenedAt: checkIn,
	}).Error)
	require.NoError(t, db.Create(&foliodomain.Posting{
		ID: node.Generate(), ReservationID: res.ID, Description: "room night",
		Amount: 120, Status: foliodomain.PostingStatusPosted, PostedAt: checkIn,
	}).Error)
	require.NoError(t, db.Create(&foliodomain.Payment{
		ID: node.Generate(), ReservationID: res.ID, Amount: 120,
		Status: foliodomain.PaymentStatusSettled, ReceivedAt: checkIn,
	}).Error)

	result, err := svc.Run(context.Background(), runOpts(false))
	require.NoError(t, err)

	assert.Empty(t, result.Issues)
	assert.Equal(t, 1, result.Summary.RoomsOccupied)
	assert.Equal(t, 100.0, result.Summary.OccupancyPct)
	assert.Equal(t, 120.0, result.Summary.TotalRoomRevenue)
	assert.Equal(t, map[string]int{"ota": 1}, result.Summary.ChannelCounts)
}

func TestRun_ExcludesDeletedReservations(t *testing.T) {
	svc, db, node := setupService(t)

	checkIn := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	deleted := reservationdomain.Reservation{
		ID:          node.Generate(),
		Status:      reservationdomain.StatusDeleted,
		CheckInDate: &checkIn,
	}
	require.NoError(t, db.Create(&deleted).Error)

	result, err := svc.Run(context.Background(), runOpts(false))
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Summary.ChannelCounts)
}

// stubRepo scripts the write paths so the finalize fallback strategy can
// be driven without breaking a real database mid-transaction.
type stubRepo struct {
	loadErr   error
	atomicErr error
	report    domain.WriteReport

	atomicCalls     int
	sequentialCalls int
}

func (r *stubRepo) LoadSnapshot(context.Context) (*domain.LoadedSnapshot, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return &domain.LoadedSnapshot{}, nil
}

func (r *stubRepo) WriteRunAtomic(context.Context, domain.RunArtifacts) error {
	r.atomicCalls++
	return r.atomicErr
}

func (r *stubRepo) WriteRunSequential(context.Context, domain.RunArtifacts) domain.WriteReport {
	r.sequentialCalls++
	return r.report
}

func (r *stubRepo) FindRunLog(context.Context, string) (*domain.RunLog, error) { return nil, nil }
func (r *stubRepo) FindIssue(context.Context, string) (*domain.Issue, error)   { return nil, nil }
func (r *stubRepo) AcknowledgeIssue(context.Context, string) error             { return nil }

func stubService(repo domain.Repository) *Service {
	return &Service{
		log:   zap.NewNop(),
		clock: clock.NewFakeClock(frozenRunAt),
		repo:  repo,
	}
}

func fallbackCount(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == "innkeep_audit_finalize_fallbacks_total" {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestRun_FinalizeFallsBackToSequentialWrites(t *testing.T) {
	repo := &stubRepo{
		atomicErr: errors.New("database is locked"),
		report:    domain.WriteReport{Succeeded: 3},
	}
	svc := stubService(repo)

	before := fallbackCount(t)
	_, err := svc.Run(context.Background(), runOpts(true))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.atomicCalls)
	assert.Equal(t, 1, repo.sequentialCalls)
	assert.Equal(t, before+1, fallbackCount(t))
}

func TestRun_FinalizeSequentialPartialFailureFailsTheRun(t *testing.T) {
	repo := &stubRepo{
		atomicErr: errors.New("database is locked"),
		report: domain.WriteReport{
			Succeeded: 2,
			Failed: []domain.WriteFailure{
				{Document: "issue:possible_noshow:42", Err: errors.New("disk I/O error")},
			},
		},
	}
	svc := stubService(repo)

	_, err := svc.Run(context.Background(), runOpts(true))
	require.Error(t, err)
	assert.EqualError(t, err, "finalize wrote 2 documents, 1 failed")
	assert.Equal(t, 1, repo.sequentialCalls)
}

func TestRun_LoadFailureAbortsBeforeAnyWrite(t *testing.T) {
	repo := &stubRepo{
		loadErr: errors.Join(domain.ErrLoadFailed, errors.New("load postings: no such table")),
	}
	svc := stubService(repo)

	_, err := svc.Run(context.Background(), runOpts(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoadFailed)
	assert.Zero(t, repo.atomicCalls)
	assert.Zero(t, repo.sequentialCalls)
}

func TestRun_LoadWrapsStorageFailure(t *testing.T) {
	svc, db, node := setupService(t)
	seedNoShow(t, db, node)
	require.NoError(t, db.Migrator().DropTable(&foliodomain.Posting{}))

	_, err := svc.Run(context.Background(), runOpts(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoadFailed)

	var logCount int64
	require.NoError(t, db.Model(&domain.RunLog{}).Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestWriteRunSequential_ReportsPartialFailure(t *testing.T) {
	svc, db, _ := setupService(t)
	require.NoError(t, db.Migrator().DropTable(&domain.Issue{}))

	artifacts := domain.RunArtifacts{
		Log:      domain.RunLog{BusinessDay: frozenDayKey, RunAt: frozenRunAt, RunBy: "tester", RunID: "run-1"},
		Snapshot: domain.Snapshot{BusinessDay: frozenDayKey},
		Issues: []domain.Issue{
			{IssueKey: "possible_noshow:42", Type: domain.IssuePossibleNoShow, Message: "m", BusinessDay: frozenDayKey},
		},
	}
	report := svc.repo.WriteRunSequential(context.Background(), artifacts)

	assert.True(t, report.Partial())
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "issue:possible_noshow:42", report.Failed[0].Document)
	assert.Error(t, report.Failed[0].Err)

	var logCount int64
	require.NoError(t, db.Model(&domain.RunLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 1, logCount)
}

func TestGetRunLog_NotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.GetRunLog(context.Background(), "1999-01-01")
	assert.ErrorIs(t, err, domain.ErrRunLogNotFound)
}

func TestAcknowledgeIssue_NotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.AcknowledgeIssue(context.Background(), "possible_noshow:missing")
	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}
