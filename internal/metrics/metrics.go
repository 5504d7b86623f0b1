// Package metrics holds the Prometheus collectors shared by the API and the bulk importer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipbox"

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

var (
	MembershipOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_ops_total",
			Help:      "Group membership operations by operation and result",
		},
		[]string{"op", "result"},
	)

	// GroupedListingRows observes rows produced by one grouped listing, before pagination.
	GroupedListingRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grouped_listing_rows",
			Help:      "Combined rows produced by grouped listings",
			Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"kind"},
	)

	BulkRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_records_total",
			Help:      "Bulk create records by result",
		},
		[]string{"result"},
	)

	ImportBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Bulk import batches handled by the importer",
		},
		[]string{"result"},
	)

	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Shipment change events that could not be published",
		},
	)
)

func RecordMembership(op, result string) {
	MembershipOps.WithLabelValues(op, result).Inc()
}

// RecordGrouping records group and standalone row counts of one aggregation pass.
func RecordGrouping(groups, standalone int) {
	GroupedListingRows.WithLabelValues("group").Observe(float64(groups))
	GroupedListingRows.WithLabelValues("standalone").Observe(float64(standalone))
}

func RecordBulk(succeeded, failed int) {
	BulkRecords.WithLabelValues(ResultOK).Add(float64(succeeded))
	BulkRecords.WithLabelValues(ResultError).Add(float64(failed))
}
