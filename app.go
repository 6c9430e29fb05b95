package routemark

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/routemark/routemark/internal/dev"
	"github.com/routemark/routemark/pkg/assets"
	"github.com/routemark/routemark/pkg/content"
	"github.com/routemark/routemark/pkg/route"
)

// =============================================================================
// App Type
// =============================================================================

// App is the main routemark application entry point.
// It wraps document loading, shell rendering, and static file serving
// into a single http.Handler.
//
// Create an App with routemark.New():
//
//	app := routemark.New(routemark.Config{
//	    Title:  "My Site",
//	    Source: routemark.NewDirSource("content"),
//	    Static: routemark.StaticConfig{Dir: "public", Prefix: "/static/"},
//	})
//	http.ListenAndServe(":4000", app)
type App struct {
	loader *content.Loader

	// Static file serving
	staticFS http.FileSystem
	assets   assets.Resolver

	config Config
	logger *slog.Logger
}

// internalPrefix guards the app's own endpoints (client script, reload).
const internalPrefix = "/_routemark/"

// New creates a new routemark application with the given configuration.
func New(cfg Config) *App {
	// Apply defaults
	if cfg.Title == "" {
		cfg.Title = DefaultConfig().Title
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = content.DefaultRules()
	}
	if cfg.Source == nil {
		cfg.Source = content.NewDirSource("content")
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = "/"
	}

	// Set up logger
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := content.NewRenderer(rendererOptions(cfg.Markdown)...)

	// Create the app
	app := &App{
		loader: content.NewLoader(cfg.Rules, cfg.Source, renderer, content.WithLogger(logger)),
		config: cfg,
		logger: logger,
	}

	// Set up static file system if configured
	if cfg.Static.Dir != "" {
		app.staticFS = http.Dir(cfg.Static.Dir)
		app.assets = newAssetResolver(cfg.Static)
	}

	return app
}

// newAssetResolver builds the resolver for asset links in the shell.
// A manifest.json in the static directory switches on fingerprinted
// resolution; otherwise names pass through under the static prefix.
func newAssetResolver(sc StaticConfig) assets.Resolver {
	prefix := sc.Prefix
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if m, err := assets.Load(filepath.Join(sc.Dir, "manifest.json")); err == nil {
		return assets.NewResolver(m, prefix)
	}
	return assets.NewPassthroughResolver(prefix)
}

// rendererOptions translates MarkdownConfig into renderer options.
func rendererOptions(mc MarkdownConfig) []content.RendererOption {
	var opts []content.RendererOption
	if len(mc.Extensions) > 0 {
		opts = append(opts, content.WithExtensions(mc.Extensions...))
	}
	if mc.SafeHTML {
		opts = append(opts, content.WithSafeHTML())
	}
	if mc.HardWraps {
		opts = append(opts, content.WithHardWraps())
	}
	return opts
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler.
// It routes requests to static files, internal endpoints, or document
// pages.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// Check for static files first (if configured)
	if a.staticFS != nil && a.shouldServeStatic(path) {
		a.serveStatic(w, r)
		return
	}

	// Internal endpoints (client script, live reload)
	if strings.HasPrefix(path, internalPrefix) {
		a.serveInternal(w, r)
		return
	}

	// Everything else is a document page
	a.servePage(w, r)
}

// serveInternal dispatches the app's own /_routemark/ endpoints.
func (a *App) serveInternal(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case ClientScriptPath:
		a.serveClientScript(w, r)
	case dev.ReloadEndpoint:
		if a.config.Reload != nil {
			a.config.Reload.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

// servePage loads the document for the request path and renders either
// the full shell or a bare fragment.
func (a *App) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// EscapedPath keeps percent escapes intact, so route matching sees
	// the same bytes the client sent.
	doc, err := a.loader.Load(r.Context(), r.URL.EscapedPath())
	if err != nil {
		a.renderLoadError(w, r, err)
		return
	}

	if isFragment(r) {
		a.renderFragment(w, r, doc)
		return
	}
	a.renderShell(w, r, doc)
}

// isFragment reports whether the request asks for the bare document
// body instead of the full shell.
func isFragment(r *http.Request) bool {
	return r.URL.Query().Get("fragment") == "1"
}

// renderLoadError maps loader errors onto HTTP status codes.
func (a *App) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	var decodeErr *route.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, content.ErrNoRule),
		errors.Is(err, content.ErrDocNotFound),
		errors.Is(err, content.ErrBadDocPath):
		http.NotFound(w, r)
	default:
		a.logger.Error("document load failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// =============================================================================
// Accessors
// =============================================================================

// Loader returns the underlying document loader. The dev server uses
// it to drop cached documents when content changes on disk.
func (a *App) Loader() *content.Loader {
	return a.loader
}

// RoutePatterns returns the configured route patterns in table order,
// ready for the metrics and tracing middleware.
func (a *App) RoutePatterns() []string {
	return content.Patterns(a.config.Rules)
}

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.config
}

// Handler returns the App as an http.Handler.
// This is useful for explicit type conversion or middleware wrapping.
func (a *App) Handler() http.Handler {
	return a
}
