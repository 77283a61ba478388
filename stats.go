package xlogpub

import "sync/atomic"

type stats struct {
	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// StatsSnapshot is a point-in-time counters snapshot.
// Delivered and Failed count observer calls, not events.
type StatsSnapshot struct {
	Published uint64
	Delivered uint64
	Failed    uint64
}

func (s *stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		Published: s.published.Load(),
		Delivered: s.delivered.Load(),
		Failed:    s.failed.Load(),
	}
}

func (s *stats) reset() {
	s.published.Store(0)
	s.delivered.Store(0)
	s.failed.Store(0)
}
