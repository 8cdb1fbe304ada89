package domain

import (
	"context"

	foliodomain "github.com/innkeep/innkeep/internal/folio/domain"
	reservationdomain "github.com/innkeep/innkeep/internal/reservation/domain"
	roomdomain "github.com/innkeep/innkeep/internal/room/domain"
	staydomain "github.com/innkeep/innkeep/internal/stay/domain"
)

// LoadedSnapshot is the point-in-time view the engine reconciles. The
// collection reads are not transactional with each other; a concurrent
// writer can make them mutually inconsistent, which is accepted.
type LoadedSnapshot struct {
	Rooms        []roomdomain.Room
	Reservations []reservationdomain.Reservation
	Stays        []staydomain.Stay
	Postings     []foliodomain.Posting
	Payments     []foliodomain.Payment
	// NoticedKeys are issue keys an operator has acknowledged; findings
	// with these keys are suppressed from run output.
	NoticedKeys map[string]bool
}

// RunArtifacts is everything a finalized run persists.
type RunArtifacts struct {
	Log      RunLog
	Snapshot Snapshot
	Issues   []Issue
}

// WriteReport describes the outcome of a sequential fallback write.
type WriteReport struct {
	Succeeded int
	Failed    []WriteFailure
}

type WriteFailure struct {
	Document string
	Err      error
}

func (r WriteReport) Partial() bool { return len(r.Failed) > 0 }

// Repository is the document-store contract the audit core depends on.
// LoadSnapshot dispatches its collection reads concurrently but joins them
// all before returning; the first failure aborts the load.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*LoadedSnapshot, error)

	// WriteRunAtomic persists all run artifacts in one transaction.
	WriteRunAtomic(ctx context.Context, artifacts RunArtifacts) error
	// WriteRunSequential persists the same artifacts one by one,
	// best-effort, reporting per-document failures instead of stopping.
	WriteRunSequential(ctx context.Context, artifacts RunArtifacts) WriteReport

	FindRunLog(ctx context.Context, businessDay string) (*RunLog, error)
	FindIssue(ctx context.Context, issueKey string) (*Issue, error)
	AcknowledgeIssue(ctx context.Context, issueKey string) error
}
