package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Posting metrics, labelled by kind (deposit, transfer, spend).
	PostingsCreated  *prometheus.CounterVec
	PostingsRejected *prometheus.CounterVec
	PostingDuration  *prometheus.HistogramVec
	PostingAmount    *prometheus.HistogramVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Daily limit metrics
	LimitChecks   *prometheus.CounterVec
	LimitsUpdated prometheus.Counter

	// Reconciliation metrics
	ReconciliationRuns   prometheus.Counter
	ReconciliationDrifts prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Auth service metrics
	ParentChecks   *prometheus.CounterVec
	UpstreamErrors prometheus.Counter
	AuthAttempts   *prometheus.CounterVec
	RateLimitHits  *prometheus.CounterVec
	IdempotentHits prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		PostingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_postings_created_total",
				Help: "Total number of postings committed, by kind",
			},
			[]string{"kind"},
		),
		PostingsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_postings_rejected_total",
				Help: "Total number of postings rejected, by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		PostingDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_posting_duration_seconds",
				Help:    "Duration of posting operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		PostingAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_posting_amount",
				Help:    "Posted amounts",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"kind"},
		),

		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts lazily created",
		}),

		LimitChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_limit_checks_total",
				Help: "Daily limit checks, by outcome",
			},
			[]string{"outcome"},
		),
		LimitsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_limits_updated_total",
			Help: "Total number of daily limit updates",
		}),

		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_runs_total",
			Help: "Total number of reconciliation runs",
		}),
		ReconciliationDrifts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_reconciliation_drifts_total",
			Help: "Accounts whose stored balance disagreed with their history",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ParentChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_parent_checks_total",
				Help: "Parent/child relationship checks, by outcome",
			},
			[]string{"outcome"},
		),
		UpstreamErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_upstream_errors_total",
			Help: "Auth service transport failures",
		}),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_auth_attempts_total",
				Help: "Login attempts, by outcome",
			},
			[]string{"outcome"},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
		IdempotentHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledger_idempotent_replays_total",
			Help: "Requests answered from the idempotency store",
		}),
	}
}
