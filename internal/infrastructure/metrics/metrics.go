package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerTransactions *prometheus.CounterVec
	LedgerTonnage      *prometheus.CounterVec
	LedgerDuration     *prometheus.HistogramVec
	LedgerConflicts    *prometheus.CounterVec
	LedgerErrors       *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationRuns      *prometheus.CounterVec
	ReconciliationDuration  prometheus.Histogram
	RecordVersionsSubmitted prometheus.Counter

	// Note metrics
	NoteTransitions          *prometheus.CounterVec
	NotesCreated             prometheus.Counter
	NoteCompensationFailures prometheus.Counter

	// Command metrics
	CommandsProcessed    *prometheus.CounterVec
	CommandDuration      *prometheus.HistogramVec
	CommandsDeadLettered prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		LedgerTransactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_ledger_transactions_total",
				Help: "Total balance transactions appended by operation and type",
			},
			[]string{"operation", "type"},
		),
		LedgerTonnage: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_ledger_tonnage_total",
				Help: "Tonnage moved by balance transactions",
			},
			[]string{"operation"},
		),
		LedgerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wasteledger_ledger_operation_duration_seconds",
				Help:    "Duration of balance operations including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		LedgerConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_ledger_version_conflicts_total",
				Help: "Optimistic concurrency conflicts on balance writes",
			},
			[]string{"operation"},
		),
		LedgerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_ledger_errors_total",
				Help: "Balance operation failures by error kind",
			},
			[]string{"operation", "kind"},
		),

		// Reconciliation metrics
		ReconciliationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_reconciliation_runs_total",
				Help: "Reconciliation runs by result",
			},
			[]string{"result"},
		),
		ReconciliationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wasteledger_reconciliation_duration_seconds",
			Help:    "Duration of reconciliation runs",
			Buckets: prometheus.DefBuckets,
		}),
		RecordVersionsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasteledger_record_versions_submitted_total",
			Help: "Waste record versions submitted for append, replays included",
		}),

		// Note metrics
		NoteTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_note_transitions_total",
				Help: "Note status transitions by target status and result",
			},
			[]string{"to", "result"},
		),
		NotesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasteledger_notes_created_total",
			Help: "Total number of notes created",
		}),
		NoteCompensationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasteledger_note_compensation_failures_total",
			Help: "Ledger mutations left without a matching note status write",
		}),

		// Command metrics
		CommandsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_commands_processed_total",
				Help: "Summary log commands processed by command and result",
			},
			[]string{"command", "result"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wasteledger_command_duration_seconds",
				Help:    "Summary log command duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		CommandsDeadLettered: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasteledger_commands_dead_lettered_total",
			Help: "Commands moved to the dead-letter list",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wasteledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wasteledger_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		// Authentication metrics
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasteledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
