package nav

import (
	"sync"

	"github.com/routemark/routemark/pkg/route"
)

// Process-wide default hub, created on first use.
var (
	defaultHub  *Hub
	defaultOnce sync.Once
)

// Default returns the process-wide hub.
func Default() *Hub {
	defaultOnce.Do(func() {
		defaultHub = NewHub()
	})
	return defaultHub
}

// Listen registers a listener on the default hub.
func Listen(fn Listener) func() {
	return Default().Listen(fn)
}

// Navigate navigates the default hub.
func Navigate(path string, opts ...NavigateOption) error {
	return Default().Navigate(path, opts...)
}

// Back moves the default hub back one history entry.
func Back() bool {
	return Default().Back()
}

// Forward moves the default hub forward one history entry.
func Forward() bool {
	return Default().Forward()
}

// Current returns the default hub's current location.
func Current() route.ParsedPath {
	return Default().Current()
}
