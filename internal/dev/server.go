package dev

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/routemark/routemark/pkg/middleware"
)

// ReloadEndpoint is the WebSocket path the reload client connects to.
// It must match the URL baked into ReloadClientScript.
const ReloadEndpoint = "/_routemark/reload"

// ServerOptions configures the development server.
type ServerOptions struct {
	// Watch are the directories to scan for changes.
	Watch []string

	// Ignore patterns to skip while watching.
	Ignore []string

	// Interval is the watch scan interval.
	Interval time.Duration

	// Logger receives watch and reload events.
	Logger *slog.Logger

	// OnInvalidate is called when content changed, before browsers are
	// told to reload. Wire the loader's cache invalidation here.
	OnInvalidate func()

	// OnReload is called after browsers were told to reload.
	OnReload func(clients int)
}

// Server watches content directories and pushes reload messages to
// connected browsers.
type Server struct {
	options ServerOptions
	watcher *Watcher
	reload  *ReloadServer
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewServer creates a development server over the given options.
func NewServer(options ServerOptions) *Server {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		options: options,
		reload:  NewReloadServer(),
		logger:  logger,
	}
	s.watcher = NewWatcher(WatcherConfig{
		Paths:    options.Watch,
		Ignore:   options.Ignore,
		Interval: options.Interval,
	})
	s.watcher.OnChange(s.handleChange)
	return s
}

// Reload returns the underlying reload hub, e.g. to push error
// overlays from outside the watch loop.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}

// Start runs the watch loop until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("watching for changes",
		"paths", s.options.Watch,
		"interval", s.watcher.config.Interval,
	)
	return s.watcher.Start(ctx)
}

// Stop stops the watch loop and closes all reload connections.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.watcher.Stop()
	s.reload.Close()
}

// ClientCount returns the number of connected reload clients.
func (s *Server) ClientCount() int {
	return s.reload.ClientCount()
}

func (s *Server) handleChange(c Change) {
	s.logger.Info("change detected", "path", c.Path, "type", changeTypeName(c.Type))

	if c.Type == ChangeContent && s.options.OnInvalidate != nil {
		s.options.OnInvalidate()
	}

	switch c.Type {
	case ChangeCSS:
		s.reload.NotifyCSS(c.Path)
	default:
		s.reload.ClearError()
		s.reload.NotifyReload()
	}
	middleware.RecordReload()

	if s.options.OnReload != nil {
		s.options.OnReload(s.reload.ClientCount())
	}
}

func changeTypeName(t ChangeType) string {
	switch t {
	case ChangeContent:
		return "content"
	case ChangeCSS:
		return "css"
	default:
		return "asset"
	}
}
