package hashtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	shapeLabel = "shape"
	modeLabel  = "mode"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hashtree_queries_total",
		Help: "The number of tree queries.",
	}, []string{shapeLabel, modeLabel})

	batchQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hashtree_batch_queries_total",
		Help: "The number of scheduled query batches.",
	}, []string{shapeLabel})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hashtree_batch_duration_seconds",
		Help:    "The time from scheduling a query batch to its completion.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
	}, []string{shapeLabel})

	singleRadiusQueries = queriesTotal.WithLabelValues(shapeSphere.String(), "single")
	singleRegionQueries = queriesTotal.WithLabelValues(shapeBox.String(), "single")
)

func instrumentBatch(kind shapeKind, n int) {
	batchQueriesTotal.WithLabelValues(kind.String()).Inc()
	queriesTotal.WithLabelValues(kind.String(), "batch").Add(float64(n))
}
