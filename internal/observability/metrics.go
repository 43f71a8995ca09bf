package observability

import "sync"

// Metrics provides basic in-memory counters for ticket transitions and failures.
type Metrics struct {
	mu          sync.Mutex
	transitions map[string]int64
	errors      map[string]int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Transitions map[string]int64 `json:"transitions"`
	Errors      map[string]int64 `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: make(map[string]int64),
		errors:      make(map[string]int64),
	}
}

// RecordTransition counts an event outcome, e.g. ("message", "apply_tags").
func (m *Metrics) RecordTransition(event, outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[event+"|"+outcome]++
}

// RecordError counts a failed operation by error code.
func (m *Metrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[operation+"|"+code]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Transitions: map[string]int64{},
		Errors:      map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.transitions {
		snap.Transitions[k] = v
	}
	for k, v := range m.errors {
		snap.Errors[k] = v
	}
	return snap
}
