package nav

import (
	"log/slog"
	"sync"

	"github.com/routemark/routemark/pkg/middleware"
	"github.com/routemark/routemark/pkg/route"
)

// Listener receives a parsed location snapshot on every navigation.
// Snapshots are shared between listeners and must not be modified.
type Listener func(route.ParsedPath)

// subscriber pairs a listener with its registration ID.
type subscriber struct {
	id uint64
	fn Listener
}

// pendingKind discriminates queued navigation requests.
type pendingKind int

const (
	pendingNavigate pendingKind = iota
	pendingStep
)

// pending is a navigation that arrived while a dispatch was in flight.
type pending struct {
	kind    pendingKind
	parsed  route.ParsedPath
	replace bool
	delta   int
}

// Hub is a navigation bus. It owns the current location and an explicit
// history stack, and the dispatcher is the only writer of both. Use
// NewHub to create one.
type Hub struct {
	mu sync.RWMutex

	// current is the present location. Listeners receive it as a
	// read-only snapshot.
	current route.ParsedPath

	// stack holds the full paths of history entries; index points at the
	// current one. A push truncates the forward tail first.
	stack []string
	index int

	subs   []subscriber
	nextID uint64

	// dispatching marks a notification in flight. Requests arriving
	// meanwhile are queued and applied once it finishes.
	dispatching bool
	queue       []pending

	logger *slog.Logger
	stats  hubStats
}

// NewHub creates a hub positioned at the initial path.
func NewHub(opts ...Option) *Hub {
	options := hubOptions{
		initialPath: "/",
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	parsed, err := route.Parse(options.initialPath)
	if err != nil {
		// Fall back to the root rather than failing construction.
		options.logger.Warn("invalid initial path, starting at root",
			"path", options.initialPath, "error", err)
		parsed, _ = route.Parse("/")
	}

	return &Hub{
		current: parsed,
		stack:   []string{parsed.FullPath},
		logger:  options.logger,
	}
}

// Listen registers fn and immediately invokes it once with the current
// location, so new subscribers render without a separate initial fetch.
// Thereafter fn runs on every navigation until the returned function is
// called. Unsubscribing is idempotent and removes only this
// registration; other listeners keep firing.
func (h *Hub) Listen(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	snapshot := h.current
	count := len(h.subs)
	h.mu.Unlock()

	middleware.SetActiveListeners(count)
	fn(snapshot)

	return func() {
		h.unsubscribe(id)
	}
}

// unsubscribe removes the listener registered under id, if still present.
func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, sub := range h.subs {
		if sub.id == id {
			// Remove by swapping with the last element; notification
			// order between listeners is not guaranteed.
			h.subs[i] = h.subs[len(h.subs)-1]
			h.subs = h.subs[:len(h.subs)-1]
			middleware.SetActiveListeners(len(h.subs))
			return
		}
	}
}

// Navigate parses path, makes it the current location by pushing a new
// history entry (or replacing the current one with WithReplace), and
// synchronously notifies every listener with the parsed snapshot.
//
// A navigation issued while a dispatch is running is queued and applied
// after the dispatch finishes; a queued navigation whose target equals
// the location current at that point is dropped.
//
// The error is non-nil only when path fails to parse, and the hub state
// is untouched in that case.
func (h *Hub) Navigate(path string, opts ...NavigateOption) error {
	options := NavigateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	parsed, err := route.Parse(path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.dispatching {
		h.queue = append(h.queue, pending{kind: pendingNavigate, parsed: parsed, replace: options.Replace})
		h.mu.Unlock()
		return nil
	}
	h.dispatching = true
	h.apply(parsed, options.Replace)
	h.mu.Unlock()

	h.dispatch()
	return nil
}

// Back moves to the previous history entry and notifies listeners. It
// reports whether the move was accepted; at the oldest entry it is a
// no-op. During a dispatch the move is queued and revalidated against
// the stack bounds when applied.
func (h *Hub) Back() bool {
	return h.step(-1)
}

// Forward moves to the next history entry and notifies listeners. It
// reports whether the move was accepted; at the newest entry it is a
// no-op.
func (h *Hub) Forward() bool {
	return h.step(1)
}

func (h *Hub) step(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if target < 0 || target >= len(h.stack) {
		h.mu.Unlock()
		return false
	}
	if h.dispatching {
		h.queue = append(h.queue, pending{kind: pendingStep, delta: delta})
		h.mu.Unlock()
		return true
	}

	parsed, err := route.Parse(h.stack[target])
	if err != nil {
		// Stack entries parsed once already; failing here means the
		// stack is corrupt.
		h.mu.Unlock()
		h.logger.Error("history entry failed to parse", "path", h.stack[target], "error", err)
		return false
	}
	h.dispatching = true
	h.index = target
	h.current = parsed
	h.stats.steps.Add(1)
	middleware.RecordNavigation(stepKind(delta))
	h.mu.Unlock()

	h.dispatch()
	return true
}

func stepKind(delta int) string {
	if delta < 0 {
		return "back"
	}
	return "forward"
}

// Current returns a snapshot of the present location.
func (h *Hub) Current() route.ParsedPath {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// MatchCurrent matches a route pattern against the current location.
func (h *Hub) MatchCurrent(pattern string) (*route.MatchResult, error) {
	return route.Match(pattern, h.Current().FullPath)
}

// Len returns the number of history entries on the stack.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.stack)
}

// apply updates the stack and the current location. Callers hold the lock.
func (h *Hub) apply(parsed route.ParsedPath, replace bool) {
	if replace {
		h.stack[h.index] = parsed.FullPath
		h.stats.replaces.Add(1)
		middleware.RecordNavigation("replace")
	} else {
		h.stack = append(h.stack[:h.index+1], parsed.FullPath)
		h.index = len(h.stack) - 1
		h.stats.pushes.Add(1)
		middleware.RecordNavigation("push")
	}
	h.current = parsed
}

// dispatch notifies listeners of the current location, then drains the
// queue of requests that arrived during notification. Listeners run
// outside the lock on a copied subscriber list.
func (h *Hub) dispatch() {
	for {
		h.mu.RLock()
		snapshot := h.current
		subs := make([]subscriber, len(h.subs))
		copy(subs, h.subs)
		h.mu.RUnlock()

		for _, sub := range subs {
			sub.fn(snapshot)
		}
		h.stats.notifications.Add(1)

		h.mu.Lock()
		if !h.applyNext() {
			h.dispatching = false
			h.mu.Unlock()
			return
		}
		h.mu.Unlock()
	}
}

// applyNext applies the first viable queued request and reports whether
// another dispatch round is needed. Callers hold the lock.
func (h *Hub) applyNext() bool {
	for len(h.queue) > 0 {
		next := h.queue[0]
		h.queue = h.queue[1:]

		switch next.kind {
		case pendingStep:
			target := h.index + next.delta
			if target < 0 || target >= len(h.stack) {
				h.stats.dropped.Add(1)
				continue
			}
			parsed, err := route.Parse(h.stack[target])
			if err != nil {
				h.logger.Error("history entry failed to parse", "path", h.stack[target], "error", err)
				h.stats.dropped.Add(1)
				continue
			}
			h.index = target
			h.current = parsed
			h.stats.steps.Add(1)
			middleware.RecordNavigation(stepKind(next.delta))
			return true

		default:
			if next.parsed.FullPath == h.current.FullPath {
				h.stats.dropped.Add(1)
				h.logger.Debug("dropped queued navigation to current location", "path", next.parsed.FullPath)
				continue
			}
			h.apply(next.parsed, next.replace)
			return true
		}
	}
	return false
}
