package observability

import (
	"sync/atomic"
)

// MetricsCollector provides hooks for metrics collection
// Can be implemented to integrate with Prometheus, StatsD, etc.
type MetricsCollector interface {
	IncPublished()
	IncPublishFailed()
	IncPolled()
	IncMatched()
	IncMismatched()
	IncDeserializeError()
	IncTimedOut()
}

// InMemoryMetrics is a simple in-memory implementation for testing/demo
type InMemoryMetrics struct {
	Published        atomic.Int64
	PublishFailed    atomic.Int64
	Polled           atomic.Int64
	Matched          atomic.Int64
	Mismatched       atomic.Int64
	DeserializeError atomic.Int64
	TimedOut         atomic.Int64
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{}
}

func (m *InMemoryMetrics) IncPublished() {
	m.Published.Add(1)
}

func (m *InMemoryMetrics) IncPublishFailed() {
	m.PublishFailed.Add(1)
}

func (m *InMemoryMetrics) IncPolled() {
	m.Polled.Add(1)
}

func (m *InMemoryMetrics) IncMatched() {
	m.Matched.Add(1)
}

func (m *InMemoryMetrics) IncMismatched() {
	m.Mismatched.Add(1)
}

func (m *InMemoryMetrics) IncDeserializeError() {
	m.DeserializeError.Add(1)
}

func (m *InMemoryMetrics) IncTimedOut() {
	m.TimedOut.Add(1)
}

func (m *InMemoryMetrics) GetPublished() int64 {
	return m.Published.Load()
}

func (m *InMemoryMetrics) GetPublishFailed() int64 {
	return m.PublishFailed.Load()
}

func (m *InMemoryMetrics) GetPolled() int64 {
	return m.Polled.Load()
}

func (m *InMemoryMetrics) GetMatched() int64 {
	return m.Matched.Load()
}

func (m *InMemoryMetrics) GetMismatched() int64 {
	return m.Mismatched.Load()
}

func (m *InMemoryMetrics) GetDeserializeError() int64 {
	return m.DeserializeError.Load()
}

func (m *InMemoryMetrics) GetTimedOut() int64 {
	return m.TimedOut.Load()
}
