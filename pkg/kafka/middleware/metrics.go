package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"doctortravel/pkg/kafka"
)

// Metrics counts producer outcomes. The readiness endpoint reports a Snapshot.
type Metrics struct {
	published            atomic.Int64
	failed               atomic.Int64
	publishDurationNanos atomic.Int64
}

type MetricsSnapshot struct {
	Published         int64   `json:"published"`
	Failed            int64   `json:"failed"`
	AvgPublishLatency float64 `json:"avg_publish_latency_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	published := m.published.Load()
	failed := m.failed.Load()

	snap := MetricsSnapshot{Published: published, Failed: failed}
	if total := published + failed; total > 0 {
		avg := time.Duration(m.publishDurationNanos.Load() / total)
		snap.AvgPublishLatency = float64(avg.Microseconds()) / 1000
	}
	return snap
}

func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.publishDurationNanos.Add(int64(time.Since(start)))

		if err != nil {
			m.failed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}
