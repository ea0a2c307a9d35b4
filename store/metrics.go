package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collection labels are bounded: one value per configured collection root.
var (
	pipelineAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "pipeline_attempts_total",
			Help:      "Write pipeline attempts, including ref-conflict retries.",
		},
		[]string{"collection"},
	)

	pipelineFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "pipeline_failures_total",
			Help:      "Write pipelines that gave up after exhausting retries.",
		},
		[]string{"collection"},
	)

	pipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end write pipeline latency, retries included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"collection"},
	)

	refConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "ref_conflicts_total",
			Help:      "Branch pointer moves detected between head read and ref update.",
		},
	)

	shardProbesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "shard_probes_skipped_total",
			Help:      "Shard probes skipped due to fetch errors or malformed JSON.",
		},
	)

	flushesCoalescedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blogsync",
			Subsystem: "store",
			Name:      "flushes_coalesced_total",
			Help:      "Scheduled check-in flushes displaced by a newer mutation.",
		},
	)
)
