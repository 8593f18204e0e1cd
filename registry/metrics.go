package registry

import "sync/atomic"

type MetricsSnapshot struct {
	Namespaces int64
	Forwarded  int64
	Rejected   int64
	Conflicts  int64
}

// Metrics counts registry activity. Written by the registry loop, read from
// any goroutine.
type Metrics struct {
	namespaces atomic.Int64
	forwarded  atomic.Int64
	rejected   atomic.Int64
	conflicts  atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordNamespace(delta int) {
	m.namespaces.Add(int64(delta))
}

func (m *Metrics) RecordForwarded(delta int) {
	m.forwarded.Add(int64(delta))
}

func (m *Metrics) RecordRejected(delta int) {
	m.rejected.Add(int64(delta))
}

func (m *Metrics) RecordConflict(delta int) {
	m.conflicts.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Namespaces: m.namespaces.Load(),
		Forwarded:  m.forwarded.Load(),
		Rejected:   m.rejected.Load(),
		Conflicts:  m.conflicts.Load(),
	}
}
