package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Cascade Metrics
	CascadeDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_deletes_total",
			Help: "Total number of cascade delete operations by entity kind",
		},
		[]string{"kind"},
	)

	CascadeRecordsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cascade_records_deleted_total",
			Help: "Total number of records removed during cascades",
		},
		[]string{"kind"},
	)

	// Reward Metrics
	RewardsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_dispatched_total",
			Help: "Total number of reward dispatches",
		},
		[]string{"category"},
	)

	LevelChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_level_changes_total",
			Help: "Total number of pet level transitions",
		},
		[]string{"direction"}, // up, down
	)

	// Pet cache metrics
	PetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pet_cache_hits_total",
			Help: "Total number of pet cache hits",
		},
	)

	PetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pet_cache_misses_total",
			Help: "Total number of pet cache misses",
		},
	)

	// Integrity Metrics
	IntegrityIssuesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrity_issues_found_total",
			Help: "Total number of ownership graph issues detected",
		},
		[]string{"issue"},
	)

	IntegrityRepairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrity_repairs_total",
			Help: "Total number of ownership graph repairs applied",
		},
		[]string{"action"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by component and reason",
		},
		[]string{"component", "reason"},
	)
)

// Helper functions for tracking specific metrics

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackCascadeDelete records one cascade rooted at the given kind
func TrackCascadeDelete(kind string) {
	CascadeDeletesTotal.WithLabelValues(kind).Inc()
}

// TrackCascadeRecord counts a single record removed during a cascade
func TrackCascadeRecord(kind string) {
	CascadeRecordsDeleted.WithLabelValues(kind).Inc()
}

// TrackReward records a dispatched reward for a category
func TrackReward(category string) {
	RewardsDispatchedTotal.WithLabelValues(category).Inc()
}

// TrackLevelChange records level transitions in either direction
func TrackLevelChange(direction string, steps int) {
	for i := 0; i < steps; i++ {
		LevelChangesTotal.WithLabelValues(direction).Inc()
	}
}

// TrackError increments the error counter for a component and reason
func TrackError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
