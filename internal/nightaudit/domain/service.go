package domain

import (
	"context"
	"errors"
)

var (
	ErrIssueNotFound  = errors.New("audit_issue_not_found")
	ErrRunLogNotFound = errors.New("audit_run_log_not_found")
	ErrLoadFailed     = errors.New("audit_load_failed")
)

// RunOptions configures one audit run. The offset is threaded explicitly
// from configuration; zero is a valid offset, so callers pass it on every
// run rather than relying on an ambient default.
type RunOptions struct {
	RunBy         string
	Finalize      bool
	TZOffsetHours int
}

// RunResult is what a completed run returns: the post-dedup issues and the
// summary. A run that loads cleanly never fails on findings; findings are
// the output, not errors.
type RunResult struct {
	Issues  []Issue `json:"issues"`
	Summary Summary `json:"summary"`
}

type Service interface {
	Run(ctx context.Context, opts RunOptions) (RunResult, error)
	GetRunLog(ctx context.Context, businessDay string) (RunLog, error)
	AcknowledgeIssue(ctx context.Context, issueKey string) (Issue, error)
}
