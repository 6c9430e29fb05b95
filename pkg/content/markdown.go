package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Meta holds the front matter of a document. Unknown keys land in
// Extra.
type Meta struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Channel     string         `yaml:"channel"`
	Tags        []string       `yaml:"tags"`
	Draft       bool           `yaml:"draft"`
	Extra       map[string]any `yaml:",inline"`
}

// Document is a rendered markdown document.
type Document struct {
	// Path is the document path the bytes were fetched from.
	Path string

	// Meta is the parsed front matter, zero when the document has none.
	Meta Meta

	// HTML is the rendered body.
	HTML template.HTML

	// Raw is the markdown body with front matter stripped.
	Raw []byte
}

// extensionRegistry maps configuration names to goldmark extenders.
var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// defaultExtensions are applied when no explicit set is configured.
var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

type rendererOptions struct {
	extensions []string
	hardWraps  bool
	safe       bool
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

// WithExtensions selects the goldmark extensions by registry name.
// Unknown names are ignored.
func WithExtensions(names ...string) RendererOption {
	return func(o *rendererOptions) { o.extensions = names }
}

// WithHardWraps renders single newlines as <br> elements.
func WithHardWraps() RendererOption {
	return func(o *rendererOptions) { o.hardWraps = true }
}

// WithSafeHTML strips raw HTML blocks from the output instead of
// passing them through.
func WithSafeHTML() RendererOption {
	return func(o *rendererOptions) { o.safe = true }
}

// Renderer converts markdown with optional front matter into HTML. A
// Renderer is stateless and safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer. The defaults enable GFM, linkify, and
// task lists, generate heading anchors, and pass raw HTML through.
func NewRenderer(opts ...RendererOption) *Renderer {
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}

	names := o.extensions
	if names == nil {
		names = defaultExtensions
	}
	var extenders []goldmark.Extender
	for _, name := range names {
		if ext, ok := extensionRegistry[name]; ok {
			extenders = append(extenders, ext)
		}
	}

	parserOpts := []parser.Option{parser.WithAutoHeadingID()}
	var htmlOpts []renderer.Option
	if !o.safe {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extenders...),
			goldmark.WithParserOptions(parserOpts...),
			goldmark.WithRendererOptions(htmlOpts...),
		),
	}
}

// Render parses front matter out of source and converts the remaining
// markdown to HTML.
func (r *Renderer) Render(docPath string, source []byte) (Document, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter of %s: %w", docPath, err)
	}

	var buf bytes.Buffer
	if err := r.engine.Convert(body, &buf); err != nil {
		return Document{}, fmt.Errorf("render %s: %w", docPath, err)
	}

	return Document{
		Path: docPath,
		Meta: meta,
		HTML: template.HTML(buf.String()),
		Raw:  body,
	}, nil
}
