// Package metrics exposes prometheus collectors for import runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsTotal counts reconciled records by source and outcome action
	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfspace_records_total",
		Help: "Reconciled import records by source and action",
	}, []string{"source", "action"})

	// ImportRuns counts completed import batches per source
	ImportRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shelfspace_import_runs_total",
		Help: "Completed import batches per source",
	}, []string{"source"})

	// ImportDuration observes wall-clock batch duration per source
	ImportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shelfspace_import_duration_seconds",
		Help:    "Import batch duration per source",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"source"})
)
