// Package monitor records per-endpoint call timings reported by the API client.
package monitor

import (
	"sort"
	"sync"
	"time"
)

// Recorder receives one report per dispatched call. Implementations must be
// safe for concurrent use and must not block for long; the caller waits.
type Recorder interface {
	Record(path string, elapsed time.Duration, ok bool)
}

// Func adapts a function to Recorder.
type Func func(path string, elapsed time.Duration, ok bool)

func (f Func) Record(path string, elapsed time.Duration, ok bool) { f(path, elapsed, ok) }

// EndpointStat is the aggregate for one path.
type EndpointStat struct {
	Path     string        `json:"path"`
	Calls    int64         `json:"calls"`
	Failures int64         `json:"failures"`
	Total    time.Duration `json:"total_ns"`
	Max      time.Duration `json:"max_ns"`
}

// Average returns the mean latency, or 0 before the first call.
func (s EndpointStat) Average() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Stats keeps in-memory aggregates keyed by path.
type Stats struct {
	mu        sync.Mutex
	endpoints map[string]*EndpointStat
}

var _ Recorder = (*Stats)(nil)

func NewStats() *Stats {
	return &Stats{endpoints: make(map[string]*EndpointStat)}
}

func (s *Stats) Record(path string, elapsed time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.endpoints[path]
	if !found {
		e = &EndpointStat{Path: path}
		s.endpoints[path] = e
	}
	e.Calls++
	if !ok {
		e.Failures++
	}
	e.Total += elapsed
	e.Max = max(e.Max, elapsed)
}

// Snapshot returns a copy of every aggregate sorted by path.
func (s *Stats) Snapshot() []EndpointStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]EndpointStat, 0, len(s.endpoints))
	for _, e := range s.endpoints {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Reset drops all aggregates.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endpoints = make(map[string]*EndpointStat)
}

// Multi fans a report out to every non-nil recorder in order.
type Multi []Recorder

func (m Multi) Record(path string, elapsed time.Duration, ok bool) {
	for _, r := range m {
		if r != nil {
			r.Record(path, elapsed, ok)
		}
	}
}
