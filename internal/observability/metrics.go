package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camguard",
		Name:      "frames_captured_total",
		Help:      "Total number of raw frames captured from the camera source",
	})

	MotionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camguard",
		Name:      "motion_events_total",
		Help:      "Total number of motion events received, by whether they updated the episode frame",
	}, []string{"accepted"})

	EpisodesFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camguard",
		Name:      "episodes_finalized_total",
		Help:      "Total number of clips finalized, by delivery_detected",
	}, []string{"delivery_detected"})

	EpisodesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camguard",
		Name:      "episodes_dropped_total",
		Help:      "Total number of finished payloads dropped by the quiet-interval gate",
	})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "camguard",
		Name:      "inference_duration_seconds",
		Help:      "Duration of ML inference stages",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"stage"})

	TopKOccupancy = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camguard",
		Name:      "topk_buffer_occupancy",
		Help:      "Current number of entries in the Top-K delivery-candidate buffer",
	})

	BusDispatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camguard",
		Name:      "bus_dispatch_errors_total",
		Help:      "Total number of bus message decode/dispatch failures",
	}, []string{"subject"})

	CachedFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camguard",
		Name:      "cached_frames",
		Help:      "Number of motion events that updated the episode frame in the current run",
	})

	ProcessedFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camguard",
		Name:      "processed_frames",
		Help:      "Number of classifier-worker iterations completed in the current run",
	})
)
