// E2E Benchmark Server for routemark
//
// This server exposes a generated site over the real serving stack
// (chi router, Prometheus middleware, routemark app) so external load
// tools like wrk, hey, or a browser can measure it:
//
//	go run . -addr=:8766 -docs=100
//	hey -z 30s http://localhost:8766/doc/7
//	hey -z 30s "http://localhost:8766/doc/7?fragment=1"
//
// Scrape http://localhost:8766/metrics during the run for server-side
// request counts and latency histograms.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routemark/routemark"
	"github.com/routemark/routemark/pkg/middleware"
)

func main() {
	var (
		addr     = flag.String("addr", ":8766", "listen address")
		docs     = flag.Int("docs", 50, "number of generated documents")
		docBytes = flag.Int("doc-bytes", 2048, "approximate markdown bytes per document")
	)
	flag.Parse()

	if *docs <= 0 {
		log.Fatal("-docs must be > 0")
	}
	if *docBytes < 0 {
		log.Fatal("-doc-bytes must be >= 0")
	}

	app := routemark.New(routemark.Config{
		Title: "Benchmark",
		Rules: []routemark.Rule{
			{Pattern: "/", Doc: "/README.md"},
			{Pattern: "/doc/:n", Doc: "/doc/:n.md"},
		},
		Source: routemark.NewFSSource(genSite(*docs, *docBytes)),
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus(app.RoutePatterns()))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", app)

	fmt.Printf("🚀 Benchmark server running at http://localhost%s\n", *addr)
	fmt.Printf("📄 Shell page:    http://localhost%s/doc/0\n", *addr)
	fmt.Printf("📄 Fragment:      http://localhost%s/doc/0?fragment=1\n", *addr)
	fmt.Printf("📈 Metrics:       http://localhost%s/metrics\n", *addr)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// genSite builds an in-memory content tree: a README plus n documents
// of roughly docBytes markdown each.
func genSite(n, docBytes int) fstest.MapFS {
	fsys := fstest.MapFS{
		"README.md": &fstest.MapFile{
			Data: []byte("---\ntitle: Benchmark\n---\n\n# Benchmark site\n"),
		},
	}
	for i := 0; i < n; i++ {
		fsys[fmt.Sprintf("doc/%d.md", i)] = &fstest.MapFile{Data: genDoc(i, docBytes)}
	}
	return fsys
}

func genDoc(i, docBytes int) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: Document %d\n---\n\n# Document %d\n\n", i, i)

	para := "The quick brown fox jumps over the lazy dog. "
	section := 0
	for b.Len() < docBytes {
		section++
		fmt.Fprintf(&b, "## Section %d\n\n", section)
		for j := 0; j < 3 && b.Len() < docBytes; j++ {
			b.WriteString(para)
		}
		b.WriteString("\n\n- first point\n- second point\n- third point\n\n")
	}
	return []byte(b.String())
}
