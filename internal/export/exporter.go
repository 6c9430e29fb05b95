package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/routemark/routemark"
	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
	"github.com/routemark/routemark/pkg/assets"
)

// Result contains the export output.
type Result struct {
	// Duration is how long the export took.
	Duration time.Duration

	// Output is the export directory.
	Output string

	// Pages is the number of rendered HTML pages.
	Pages int

	// Skipped lists the parameterized patterns that were not rendered.
	Skipped []string

	// Assets is the number of copied static files.
	Assets int

	// Manifest maps asset names to their fingerprinted names. Nil
	// unless fingerprinting was enabled.
	Manifest map[string]string
}

// Options configures the exporter.
type Options struct {
	// Output is the export directory. Relative paths are resolved
	// against the project root. Empty means "dist".
	Output string

	// Fingerprint renames static assets to include a content hash and
	// writes a manifest.json the shell resolves stylesheet links
	// through.
	Fingerprint bool

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Exporter renders a project into a static site.
type Exporter struct {
	config  *config.Config
	options Options
}

// New creates a new exporter.
func New(cfg *config.Config, options Options) *Exporter {
	if options.Output == "" {
		options.Output = "dist"
	}
	if !filepath.IsAbs(options.Output) {
		options.Output = filepath.Join(cfg.Dir(), options.Output)
	}

	return &Exporter{
		config:  cfg,
		options: options,
	}
}

// Export renders every literal route into the output directory.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{Output: e.options.Output}

	outDir := e.options.Output

	// Clean output directory
	e.progress("Cleaning output directory...")
	if err := os.RemoveAll(outDir); err != nil {
		return nil, errors.New("E104").Wrap(err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.New("E104").Wrap(err)
	}

	// Copy static assets
	e.progress("Copying static assets...")
	staticDir, err := e.exportAssets(outDir, result)
	if err != nil {
		return nil, err
	}

	// Write the navigation client where the shell references it
	e.progress("Writing client script...")
	if err := e.writeClientScript(outDir); err != nil {
		return nil, err
	}

	// Render pages through the same app the serve command runs. The
	// app is built against the exported static directory so that
	// fingerprinted asset names land in the rendered HTML.
	e.progress("Rendering pages...")
	appCfg, err := routemark.FromProject(e.config)
	if err != nil {
		return nil, err
	}
	if staticDir != "" {
		appCfg.Static.Dir = staticDir
	}
	app := routemark.New(appCfg)

	for _, pattern := range app.RoutePatterns() {
		if strings.Contains(pattern, ":") {
			result.Skipped = append(result.Skipped, pattern)
			continue
		}
		if err := renderPage(ctx, app, outDir, pattern); err != nil {
			return nil, err
		}
		result.Pages++
	}

	result.Duration = time.Since(start)
	return result, nil
}

// exportAssets copies the static directory into the export tree,
// preserving the configured URL prefix. With fingerprinting on, each
// file is renamed to include its content hash and a manifest.json is
// written alongside. Returns the exported static directory, or empty
// when the project has none.
func (e *Exporter) exportAssets(outDir string, result *Result) (string, error) {
	if e.config.Static.Dir == "" {
		return "", nil
	}
	srcDir := e.config.StaticPath()
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return "", nil // No static directory
	}

	relPrefix := strings.Trim(e.config.StaticPrefix(), "/")
	destDir := filepath.Join(outDir, filepath.FromSlash(relPrefix))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.New("E104").Wrap(err)
	}

	manifest := assets.NewManifest()
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)
		if name == "manifest.json" {
			// Regenerated below when fingerprinting.
			return nil
		}

		destName := name
		if e.options.Fingerprint {
			hash, err := hashFile(path)
			if err != nil {
				return err
			}
			ext := filepath.Ext(name)
			destName = fmt.Sprintf("%s.%s%s", strings.TrimSuffix(name, ext), hash[:8], ext)
			manifest.Set(name, destName)
		}

		destPath := filepath.Join(destDir, filepath.FromSlash(destName))
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		if err := copyFile(path, destPath); err != nil {
			return err
		}

		result.Assets++
		return nil
	})
	if err != nil {
		return "", errors.New("E104").Wrap(err)
	}

	if e.options.Fingerprint {
		e.progress("Writing asset manifest...")
		if err := manifest.Save(filepath.Join(destDir, "manifest.json")); err != nil {
			return "", errors.New("E104").Wrap(err)
		}
		result.Manifest = manifest.All()
	}

	return destDir, nil
}

// writeClientScript writes the embedded navigation client to the path
// the shell's <script> tag references.
func (e *Exporter) writeClientScript(outDir string) error {
	rel := filepath.FromSlash(strings.TrimPrefix(routemark.ClientScriptPath, "/"))
	dest := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.New("E104").Wrap(err)
	}
	if err := os.WriteFile(dest, []byte(routemark.ClientScript), 0644); err != nil {
		return errors.New("E104").Wrap(err)
	}
	return nil
}

// renderPage renders one literal route to <pattern>/index.html.
func renderPage(ctx context.Context, app *routemark.App, outDir, pattern string) error {
	req := &http.Request{
		Method: http.MethodGet,
		URL:    &url.URL{Path: pattern},
		Proto:  "HTTP/1.1",
		Header: make(http.Header),
		Host:   "export.invalid",
	}
	rec := newPageWriter()
	app.ServeHTTP(rec, req.WithContext(ctx))

	if rec.status != http.StatusOK {
		return errors.New("E104").
			WithDetail(fmt.Sprintf("Rendering %s returned status %d.", pattern, rec.status)).
			WithSuggestion("Run routemark check to find rules pointing at missing documents.")
	}

	target := pageFile(outDir, pattern)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.New("E104").Wrap(err)
	}
	if err := os.WriteFile(target, rec.body.Bytes(), 0644); err != nil {
		return errors.New("E104").Wrap(err)
	}
	return nil
}

// pageFile maps a route pattern to its file in the export tree. The
// root becomes index.html; every other page becomes <path>/index.html
// so static hosts serve the pattern's URL directly.
func pageFile(outDir, pattern string) string {
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return filepath.Join(outDir, "index.html")
	}
	return filepath.Join(outDir, filepath.FromSlash(trimmed), "index.html")
}

// pageWriter captures a handler response in memory.
type pageWriter struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func newPageWriter() *pageWriter {
	return &pageWriter{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

func (w *pageWriter) Header() http.Header { return w.header }

func (w *pageWriter) WriteHeader(status int) { w.status = status }

func (w *pageWriter) Write(p []byte) (int, error) { return w.body.Write(p) }

// progress reports export progress.
func (e *Exporter) progress(step string) {
	if e.options.OnProgress != nil {
		e.options.OnProgress(step)
	}
}

// hashFile returns the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Clean removes the export output directory.
func (e *Exporter) Clean() error {
	return os.RemoveAll(e.options.Output)
}
