package content

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/routemark/routemark/pkg/middleware"
)

// ErrNoRule indicates neither the requested path nor the root fallback
// matched any rule in the table.
var ErrNoRule = errors.New("no rule matches path")

// rootFallback is the path retried when no rule matches the request.
const rootFallback = "/"

// Loader resolves paths to rendered documents.
//
// Renders are cached per document path until Invalidate is called; the
// dev watcher invalidates on content changes. When a fetch or render
// fails, Load returns the last successfully loaded document together
// with the error, so callers keep serving the previous content.
type Loader struct {
	rules    []Rule
	source   Source
	renderer *Renderer
	logger   *slog.Logger
	tracer   trace.Tracer

	mu      sync.RWMutex
	cache   map[string]Document
	last    Document
	hasLast bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader builds a loader over the given rule table, source, and
// renderer.
func NewLoader(rules []Rule, source Source, renderer *Renderer, opts ...LoaderOption) *Loader {
	l := &Loader{
		rules:    rules,
		source:   source,
		renderer: renderer,
		logger:   slog.Default(),
		tracer:   otel.Tracer("routemark/content"),
		cache:    make(map[string]Document),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves path to a document, fetching and rendering it unless a
// cached render exists. Paths no rule matches fall back to the root
// pattern's document.
//
// On failure the returned document is the last one successfully
// loaded, or the zero Document when nothing has loaded yet; the error
// reports what went wrong.
func (l *Loader) Load(ctx context.Context, path string) (Document, error) {
	ctx, span := l.tracer.Start(ctx, "content.load",
		trace.WithAttributes(attribute.String("routemark.path", path)),
	)
	defer span.End()

	res, err := Resolve(l.rules, path)
	if err != nil {
		return l.fail(span, "resolve failed", path, err)
	}
	if res == nil {
		res, err = Resolve(l.rules, rootFallback)
		if err != nil {
			return l.fail(span, "fallback resolve failed", path, err)
		}
		if res == nil {
			return l.fail(span, "no rule matched", path, ErrNoRule)
		}
		span.SetAttributes(attribute.Bool("routemark.fallback", true))
	}
	span.SetAttributes(
		attribute.String("routemark.route", res.Rule.Pattern),
		attribute.String("routemark.doc", res.DocPath),
	)

	l.mu.RLock()
	cached, hit := l.cache[res.DocPath]
	l.mu.RUnlock()
	if hit {
		span.SetAttributes(attribute.Bool("routemark.cache_hit", true))
		middleware.RecordDocLoad("cache", nil, 0)
		l.remember(cached)
		span.SetStatus(codes.Ok, "")
		return cached, nil
	}

	start := time.Now()
	raw, err := l.source.Fetch(ctx, res.DocPath)
	middleware.RecordDocLoad(l.source.Name(), err, time.Since(start))
	if err != nil {
		return l.fail(span, "fetch failed, keeping previous content", res.DocPath, err)
	}

	doc, err := l.renderer.Render(res.DocPath, raw)
	if err != nil {
		return l.fail(span, "render failed, keeping previous content", res.DocPath, err)
	}

	l.mu.Lock()
	l.cache[res.DocPath] = doc
	l.last = doc
	l.hasLast = true
	l.mu.Unlock()

	span.SetStatus(codes.Ok, "")
	return doc, nil
}

// Last returns the most recently loaded document, if any.
func (l *Loader) Last() (Document, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last, l.hasLast
}

// Invalidate drops all cached renders so subsequent loads hit the
// source again.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
}

// Rules returns the loader's rule table.
func (l *Loader) Rules() []Rule { return l.rules }

// Source returns the loader's document source.
func (l *Loader) Source() Source { return l.source }

func (l *Loader) remember(doc Document) {
	l.mu.Lock()
	l.last = doc
	l.hasLast = true
	l.mu.Unlock()
}

func (l *Loader) fail(span trace.Span, msg, subject string, err error) (Document, error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	l.logger.Warn(msg, "path", subject, "error", err)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last, err
}
