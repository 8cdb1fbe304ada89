// Package metrics registers prometheus instruments for the audit engine
// and the scheduler.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	RunOutcomeOK        = "ok"
	RunOutcomeLoadError = "load_error"
	RunOutcomeWriteErr  = "write_error"
)

// AuditMetrics captures night-audit health signals.
type AuditMetrics struct {
	runs              *prometheus.CounterVec
	runDuration       prometheus.Histogram
	issuesFound       *prometheus.CounterVec
	finalizeFallbacks prometheus.Counter
}

var (
	auditOnce sync.Once
	audit     *AuditMetrics
)

// Audit returns the singleton audit metrics registry.
func Audit() *AuditMetrics {
	auditOnce.Do(func() {
		audit = newAuditMetrics(prometheus.DefaultRegisterer)
	})
	return audit
}

func newAuditMetrics(reg prometheus.Registerer) *AuditMetrics {
	m := &AuditMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innkeep_audit_runs_total",
			Help: "Night-audit runs by outcome.",
		}, []string{"outcome", "finalized"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "innkeep_audit_run_duration_seconds",
			Help:    "Duration of a full night-audit run.",
			Buckets: prometheus.DefBuckets,
		}),
		issuesFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innkeep_audit_issues_total",
			Help: "New audit issues surfaced, by type.",
		}, []string{"type"}),
		finalizeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "innkeep_audit_finalize_fallbacks_total",
			Help: "Finalize batch writes that fell back to sequential writes.",
		}),
	}

	register(reg, m.runs, m.runDuration, m.issuesFound, m.finalizeFallbacks)
	return m
}

// register tolerates duplicate registration so test processes can rebuild
// the singletons, but a malformed collector is a programming error.
func register(reg prometheus.Registerer, collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

func (m *AuditMetrics) IncRun(outcome string, finalized bool) {
	label := "false"
	if finalized {
		label = "true"
	}
	m.runs.WithLabelValues(outcome, label).Inc()
}

func (m *AuditMetrics) ObserveRunDuration(d time.Duration) {
	m.runDuration.Observe(d.Seconds())
}

func (m *AuditMetrics) IncIssue(issueType string, n int) {
	if n <= 0 {
		return
	}
	m.issuesFound.WithLabelValues(issueType).Add(float64(n))
}

func (m *AuditMetrics) IncFinalizeFallback() {
	m.finalizeFallbacks.Inc()
}

// SchedulerMetrics captures periodic job health signals.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
}

var (
	schedulerOnce sync.Once
	scheduler     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	schedulerOnce.Do(func() {
		scheduler = newSchedulerMetrics(prometheus.DefaultRegisterer)
	})
	return scheduler
}

func newSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innkeep_scheduler_job_runs_total",
			Help: "Scheduler job executions.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "innkeep_scheduler_job_errors_total",
			Help: "Scheduler job failures.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "innkeep_scheduler_job_duration_seconds",
			Help:    "Scheduler job durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}

	register(reg, m.jobRuns, m.jobErrors, m.jobDuration)
	return m
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string) {
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}
