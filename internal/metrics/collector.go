package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records inference adapter metrics.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokensUsed      *prometheus.CounterVec
	imagesRejected  *prometheus.CounterVec
	imageBytes      *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector creates a collector registered under the given namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_requests_total",
			Help:      "Total number of inference requests",
		},
		[]string{"task", "model", "status"},
	)

	c.requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_request_duration_seconds",
			Help:      "Inference request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"task", "model"},
	)

	c.tokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_used_total",
			Help:      "Total tokens reported by the remote endpoint",
		},
		[]string{"model", "direction"},
	)

	c.imagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_rejected_total",
			Help:      "Images rejected by local validation",
		},
		[]string{"reason"},
	)

	c.imageBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_payload_bytes",
			Help:      "Size of image payloads sent to or received from the endpoint",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"task", "direction"},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordRequest records one adapter call.
func (c *Collector) RecordRequest(task, model, status string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(task, model, status).Inc()
	c.requestDuration.WithLabelValues(task, model).Observe(duration.Seconds())
}

// RecordTokens records the usage counters of a text task response.
func (c *Collector) RecordTokens(model string, inputTokens, outputTokens int) {
	if inputTokens > 0 {
		c.tokensUsed.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		c.tokensUsed.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// RecordImageRejected records a local validation rejection.
func (c *Collector) RecordImageRejected(reason string) {
	c.imagesRejected.WithLabelValues(reason).Inc()
}

// RecordImageBytes records the size of an image payload.
func (c *Collector) RecordImageBytes(task, direction string, size int64) {
	c.imageBytes.WithLabelValues(task, direction).Observe(float64(size))
}
