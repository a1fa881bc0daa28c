package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var pagesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pages_scanned_total",
	Help: "Total number of pages scanned for separator signals",
})

var barcodeDecodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "barcode_decodes_total",
	Help: "Barcode decode attempts labelled by method and outcome",
}, []string{"method", "outcome"})

var groupsMaterializedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groups_materialized_total",
	Help: "Group PDF writes labelled by result",
}, []string{"result"})

var uploadsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "uploads_processed_total",
	Help: "Finished pipeline runs labelled by terminal status",
}, []string{"status"})

var countUploadsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_uploads_in_queue",
	Help: "Number of uploads waiting in the intake queue",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active intake workers",
})

var dispatcherSignalsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signals_total",
	Help: "Signals sent to the dispatcher to grow the worker pool",
})

var uploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_upload_duration_seconds",
	Help:    "Total time spent processing one upload.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300},
}, []string{"status"})

var stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_stage_latency_seconds",
	Help:    "Latency of individual pipeline stages.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"stage"})

func IncrementPagesScanned() {
	pagesScannedTotal.Inc()
}

func CaptureBarcodeDecode(method string, found bool) {
	outcome := "miss"
	if found {
		outcome = "hit"
	}
	barcodeDecodesTotal.WithLabelValues(method, outcome).Inc()
}

func CaptureGroupResult(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	groupsMaterializedTotal.WithLabelValues(result).Inc()
}

func IncrementUploadsInQueue() {
	countUploadsInQueue.Inc()
}

func DecrementUploadsInQueue() {
	countUploadsInQueue.Dec()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalsTotal.Inc()
}

func CaptureExecutionMetrics(stage string, timeElapsed time.Duration) {
	stageLatency.WithLabelValues(stage).Observe(timeElapsed.Seconds())
}

func CaptureUploadMetrics(status string, timeElapsed time.Duration) {
	uploadsProcessedTotal.WithLabelValues(status).Inc()
	uploadDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
