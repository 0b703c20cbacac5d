package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bq_stage_requests_total",
		Help: "Total number of pipeline stage calls",
	}, []string{"stage", "status"})

	stageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bq_stage_latency_seconds",
		Help:    "Pipeline stage latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	}, []string{"stage"})

	audioBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bq_audio_bytes_total",
		Help: "Total audio bytes processed",
	}, []string{"direction"}) // in: загрузки, out: синтез

	audioSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bq_audio_swept_total",
		Help: "Synthesized audio files removed by expiry",
	})
)

// Статусы стадии.
const (
	StatusSuccess = "success"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

func ObserveStage(stage, status string, d time.Duration) {
	StageRequests.WithLabelValues(stage, status).Inc()
	stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

func RecordAudioBytes(direction string, n int) {
	audioBytes.WithLabelValues(direction).Add(float64(n))
}

func RecordSwept(n int) {
	audioSwept.Add(float64(n))
}
