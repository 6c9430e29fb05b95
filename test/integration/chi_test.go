package integration_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/routemark/routemark"
	"github.com/routemark/routemark/pkg/middleware"
)

func testSite() *routemark.App {
	fsys := fstest.MapFS{
		"README.md": &fstest.MapFile{Data: []byte(`---
title: Home
---

# Hello

Welcome to the integration site.
`)},
		"list/news.md": &fstest.MapFile{Data: []byte(`---
title: News
---

# News

- integration test entry
`)},
	}
	return routemark.New(routemark.Config{
		Title:  "Integration",
		Source: routemark.NewFSSource(fsys),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// TestChiRouterIntegration mounts the app behind a chi router the way
// the serve command does: middleware stack, API routes, metrics
// endpoint, and the site handler on the wildcard.
func TestChiRouterIntegration(t *testing.T) {
	app := testSite()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus(app.RoutePatterns()))

	// Traditional API routes next to the site
	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Mount the site handler
	r.Handle("/*", app.Handler())

	t.Run("API health endpoint", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Errorf("expected OK, got %s", rec.Body.String())
		}
	})

	t.Run("site page rendered through router", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<title>Home - Integration</title>") {
			t.Error("expected page title in shell")
		}
		if !strings.Contains(body, `id="routemark-content"`) {
			t.Error("expected content element in shell")
		}
	})

	t.Run("fragment navigation through router", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/list/news?fragment=1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-Routemark-Title"); got != "News" {
			t.Errorf("expected fragment title header News, got %q", got)
		}
		if strings.Contains(rec.Body.String(), "<html") {
			t.Error("fragment response should not include the shell")
		}
	})

	t.Run("middleware chain executes", func(t *testing.T) {
		middlewareExecuted := false

		trackingRouter := chi.NewRouter()
		trackingRouter.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				middlewareExecuted = true
				next.ServeHTTP(w, req)
			})
		})
		trackingRouter.Handle("/*", app.Handler())

		req := httptest.NewRequest("GET", "/list/news", nil)
		rec := httptest.NewRecorder()
		trackingRouter.ServeHTTP(rec, req)

		if !middlewareExecuted {
			t.Error("expected middleware to execute before the site handler")
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		// The page requests above went through the Prometheus
		// middleware, so the counters exist by now.
		req := httptest.NewRequest("GET", "/metrics", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "routemark_requests_total") {
			t.Error("expected routemark_requests_total in metrics output")
		}
	})
}

// TestStdlibMuxIntegration mounts the app on a plain ServeMux.
func TestStdlibMuxIntegration(t *testing.T) {
	app := testSite()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("api"))
	})
	mux.Handle("/", app.Handler())

	t.Run("API route works", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/test", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Body.String() != "api" {
			t.Errorf("expected api, got %s", rec.Body.String())
		}
	})

	t.Run("site handler mounted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `id="routemark-content"`) {
			t.Error("expected content element in shell")
		}
	})
}
