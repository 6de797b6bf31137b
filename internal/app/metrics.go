package app

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Metrics tracks tick timing and resource churn.
// Record methods are safe for concurrent use.
type Metrics struct {
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	starts   atomic.Uint64
	restarts atomic.Uint64
	failures atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordFrame records how long one tick took.
func (m *Metrics) RecordFrame(d time.Duration) {
	ns := d.Nanoseconds()
	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	for {
		cur := m.frameMaxNs.Load()
		if ns <= cur || m.frameMaxNs.CompareAndSwap(cur, ns) {
			return
		}
	}
}

// RecordStart counts a started resource.
func (m *Metrics) RecordStart() { m.starts.Add(1) }

// RecordRestart counts a restarted resource.
func (m *Metrics) RecordRestart() { m.restarts.Add(1) }

// RecordFailure counts a resource that failed to start.
func (m *Metrics) RecordFailure() { m.failures.Add(1) }

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Frames       uint64
	AvgFrameTime time.Duration
	MaxFrameTime time.Duration
	LastFrame    time.Duration
	Starts       uint64
	Restarts     uint64
	Failures     uint64
	Uptime       time.Duration
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Frames:       m.frameCount.Load(),
		MaxFrameTime: time.Duration(m.frameMaxNs.Load()),
		LastFrame:    time.Duration(m.lastFrameNs.Load()),
		Starts:       m.starts.Load(),
		Restarts:     m.restarts.Load(),
		Failures:     m.failures.Load(),
		Uptime:       time.Since(m.startTime),
	}
	if s.Frames > 0 {
		s.AvgFrameTime = time.Duration(m.frameTotalNs.Load() / int64(s.Frames))
	}
	return s
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s MetricsSnapshot) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("frames", s.Frames)
	enc.AddDuration("avg_frame", s.AvgFrameTime)
	enc.AddDuration("max_frame", s.MaxFrameTime)
	enc.AddUint64("starts", s.Starts)
	enc.AddUint64("restarts", s.Restarts)
	enc.AddUint64("failures", s.Failures)
	enc.AddDuration("uptime", s.Uptime)
	return nil
}

var _ zapcore.ObjectMarshaler = MetricsSnapshot{}

// metricsField logs a snapshot under "metrics".
func metricsField(m *Metrics) zap.Field {
	return zap.Object("metrics", m.Snapshot())
}
