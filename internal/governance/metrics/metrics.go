package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the governance module.
// Counters are labeled by domain so the three governed surfaces can be
// graphed independently.
type Metrics struct {
	ChangesProposed    *prometheus.CounterVec
	ProposalsCreated   *prometheus.CounterVec
	VotesCast          *prometheus.CounterVec
	ProposalsFinalized *prometheus.CounterVec
	ChangesExecuted    *prometheus.CounterVec
	ExecutionFailures  *prometheus.CounterVec
	CastVoteDuration   prometheus.Histogram
	ExecuteDuration    prometheus.Histogram
}

// New creates a new Metrics instance with all governance module metrics registered.
func New() *Metrics {
	return &Metrics{
		ChangesProposed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_changes_proposed_total",
			Help: "Total number of change records proposed",
		}, []string{"domain"}),
		ProposalsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_proposals_created_total",
			Help: "Total number of changes escalated to proposals",
		}, []string{"domain"}),
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_votes_cast_total",
			Help: "Total number of votes accepted",
		}, []string{"domain"}),
		ProposalsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_proposals_finalized_total",
			Help: "Total number of proposals finalized, labeled by outcome",
		}, []string{"domain", "outcome"}),
		ChangesExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_changes_executed_total",
			Help: "Total number of approved changes executed",
		}, []string{"domain"}),
		ExecutionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_execution_failures_total",
			Help: "Total number of execution attempts that failed",
		}, []string{"domain"}),
		CastVoteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "governance_cast_vote_duration_seconds",
			Help:    "Duration of CastVote operations (includes balance oracle lookup)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ExecuteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "governance_execute_change_duration_seconds",
			Help:    "Duration of ExecuteChange operations (includes handler dispatch)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementChangesProposed records an accepted change record.
func (m *Metrics) IncrementChangesProposed(domain string) {
	m.ChangesProposed.WithLabelValues(domain).Inc()
}

// IncrementProposalsCreated records an escalation.
func (m *Metrics) IncrementProposalsCreated(domain string) {
	m.ProposalsCreated.WithLabelValues(domain).Inc()
}

// IncrementVotesCast records an accepted vote.
func (m *Metrics) IncrementVotesCast(domain string) {
	m.VotesCast.WithLabelValues(domain).Inc()
}

// IncrementProposalsFinalized records a finalization outcome ("passed" or
// "rejected").
func (m *Metrics) IncrementProposalsFinalized(domain, outcome string) {
	m.ProposalsFinalized.WithLabelValues(domain, outcome).Inc()
}

// IncrementChangesExecuted records a successful execution.
func (m *Metrics) IncrementChangesExecuted(domain string) {
	m.ChangesExecuted.WithLabelValues(domain).Inc()
}

// IncrementExecutionFailures records a failed execution attempt.
func (m *Metrics) IncrementExecutionFailures(domain string) {
	m.ExecutionFailures.WithLabelValues(domain).Inc()
}

// ObserveCastVote records the duration of a CastVote operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCastVote(start time.Time) {
	m.CastVoteDuration.Observe(time.Since(start).Seconds())
}

// ObserveExecute records the duration of an ExecuteChange operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveExecute(start time.Time) {
	m.ExecuteDuration.Observe(time.Since(start).Seconds())
}
