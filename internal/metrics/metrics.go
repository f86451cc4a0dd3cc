package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotsAppendedTotal counts ledger appends by outcome
	SnapshotsAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonant_snapshots_appended_total",
			Help: "Total number of snapshot append operations",
		},
		[]string{"status"}, // written | deduped | error
	)

	// RecordsCorruptTotal counts records skipped as unparseable during scans
	RecordsCorruptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resonant_records_corrupt_total",
			Help: "Total number of corrupt records skipped during scans",
		},
	)

	// EngineIterationsTotal counts convergence engine iterations
	EngineIterationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resonant_engine_iterations_total",
			Help: "Total number of convergence engine iterations",
		},
	)

	// EngineRunsTotal counts completed engine runs by terminal state
	EngineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonant_engine_runs_total",
			Help: "Total number of engine runs by terminal state",
		},
		[]string{"state"}, // converged | exhausted
	)

	// OperatorUpsertsTotal counts operator store upserts
	OperatorUpsertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resonant_operator_upserts_total",
			Help: "Total number of operator record upserts",
		},
	)

	// IngestInputsTotal counts pipeline inputs by outcome
	IngestInputsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonant_ingest_inputs_total",
			Help: "Total number of ingested inputs by outcome",
		},
		[]string{"status"}, // processed | skipped
	)

	// ConsolidationDurationSeconds measures full consolidation passes
	ConsolidationDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resonant_consolidation_duration_seconds",
			Help:    "Duration of ledger consolidation passes",
			Buckets: prometheus.DefBuckets,
		},
	)
)
