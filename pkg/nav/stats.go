package nav

import "sync/atomic"

// hubStats tracks hub activity with atomic counters.
type hubStats struct {
	pushes        atomic.Int64
	replaces      atomic.Int64
	steps         atomic.Int64
	dropped       atomic.Int64
	notifications atomic.Int64
}

// Stats is a point-in-time snapshot of hub activity.
type Stats struct {
	// Pushes counts navigations that pushed a history entry.
	Pushes int64

	// Replaces counts navigations that replaced the current entry.
	Replaces int64

	// Steps counts applied back/forward moves.
	Steps int64

	// Dropped counts queued requests discarded by the loop guard or by
	// stack bounds revalidation.
	Dropped int64

	// Notifications counts dispatch rounds delivered to listeners.
	Notifications int64

	// Listeners is the number of currently registered listeners.
	Listeners int
}

// Stats returns a snapshot of hub activity.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	listeners := len(h.subs)
	h.mu.RUnlock()

	return Stats{
		Pushes:        h.stats.pushes.Load(),
		Replaces:      h.stats.replaces.Load(),
		Steps:         h.stats.steps.Load(),
		Dropped:       h.stats.dropped.Load(),
		Notifications: h.stats.notifications.Load(),
		Listeners:     listeners,
	}
}
