package routemark

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
	"github.com/routemark/routemark/pkg/content"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the main application configuration.
// This is the user-friendly entry point for configuring a routemark app.
type Config struct {
	// Title is the site title. The shell <title> appends it after the
	// document's own title, or shows it alone when the document has none.
	Title string

	// Rules is the ordered route table. The first rule whose pattern
	// matches the requested path decides which document is served.
	// Empty means DefaultRules().
	Rules []content.Rule

	// Source is where documents are fetched from (filesystem, HTTP, or
	// S3). If nil, a filesystem source over the "content" directory in
	// the working directory is used.
	Source content.Source

	// Markdown configures document rendering.
	Markdown MarkdownConfig

	// Static configures static file serving.
	Static StaticConfig

	// DevMode injects the live reload client into every rendered shell.
	DevMode bool

	// Reload serves the live reload websocket endpoint. When set, the
	// app routes /_routemark/reload to it. Wired by the dev server;
	// leave nil outside development.
	Reload http.Handler

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// MarkdownConfig configures the markdown renderer.
type MarkdownConfig struct {
	// Extensions selects goldmark extensions by name: "gfm", "table",
	// "strikethrough", "linkify", "tasklist", "definition", "footnote".
	// Empty means the renderer defaults (gfm, linkify, tasklist).
	Extensions []string

	// SafeHTML strips raw HTML blocks from rendered documents.
	// Leave false only when every document author is trusted.
	SafeHTML bool

	// HardWraps renders single newlines as <br> line breaks.
	HardWraps bool
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files (e.g., "public").
	// Empty disables static serving.
	Dir string

	// Prefix is the URL path prefix for static files (e.g., "/static/").
	// A file at public/style.css with Prefix="/" is served at /style.css.
	// Default: "/".
	Prefix string

	// CacheControl determines caching behavior for static files.
	// Default: CacheControlNone (no caching headers).
	CacheControl CacheControlStrategy

	// Headers are custom headers added to all static file responses.
	Headers map[string]string
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no-store headers.
	// Use in development for instant updates.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction uses appropriate caching:
	// - Fingerprinted files (*.abc123.css): immutable, 1 year max-age
	// - Other files: short cache with revalidation
	CacheControlProduction
)

// =============================================================================
// Default Configurations
// =============================================================================

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:  "routemark",
		Static: DefaultStaticConfig(),
	}
}

// DefaultStaticConfig returns a StaticConfig with sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Prefix:       "/",
		CacheControl: CacheControlNone,
	}
}

// =============================================================================
// Project Config Translation
// =============================================================================

// FromProject converts a loaded routemark.json configuration into an
// app Config, constructing the document source the content section
// describes. Server, dev, and observability settings stay with the CLI.
func FromProject(pc *config.Config) (Config, error) {
	source, err := buildSource(pc)
	if err != nil {
		return Config{}, err
	}

	rules := make([]content.Rule, 0, len(pc.Rules))
	for _, r := range pc.Rules {
		rules = append(rules, content.Rule{Pattern: r.Pattern, Doc: r.Doc})
	}

	return Config{
		Title:  pc.Title,
		Rules:  rules,
		Source: source,
		Markdown: MarkdownConfig{
			Extensions: pc.Content.Extensions,
			SafeHTML:   pc.Content.SafeHTML,
			HardWraps:  pc.Content.HardWraps,
		},
		Static: StaticConfig{
			Dir:    pc.StaticPath(),
			Prefix: pc.StaticPrefix(),
		},
	}, nil
}

// buildSource constructs the document source for a project config.
func buildSource(pc *config.Config) (content.Source, error) {
	switch pc.Content.Source {
	case "", "fs":
		return content.NewDirSource(pc.ContentPath()), nil
	case "http":
		return content.NewHTTPSource(pc.Content.BaseURL), nil
	case "s3":
		return content.NewPublicS3Source(pc.Content.Endpoint, pc.Content.Region, pc.Content.Bucket, pc.Content.Prefix), nil
	default:
		return nil, errors.New("E063").
			WithDetail("Unknown content source " + strconv.Quote(pc.Content.Source))
	}
}
