package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/routemark/routemark"
	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/dev"
	"github.com/routemark/routemark/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		host        string
		devMode     bool
		verbose     bool
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the routemark site from the current project.

Loads routemark.json, builds the site handler and serves it over HTTP.
With --dev the content tree is watched and connected browsers reload
when documents change.

Examples:
  routemark serve
  routemark serve --port=8080
  routemark serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, devMode, verbose, openBrowser)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from routemark.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from routemark.json)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Watch content and live-reload browsers")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")

	return cmd
}

func runServe(port int, host string, devMode, verbose, openBrowser bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	appCfg, err := routemark.FromProject(cfg)
	if err != nil {
		return err
	}
	appCfg.Logger = logger

	// In dev mode the watcher invalidates the document cache on content
	// changes and the reload hub is mounted into the app, which also
	// injects the reload client into rendered pages.
	var app *routemark.App
	var watch *dev.Server
	if devMode {
		watch = dev.NewServer(dev.ServerOptions{
			Watch:    cfg.WatchPaths(),
			Interval: cfg.PollIntervalDuration(),
			Logger:   logger,
			OnInvalidate: func() {
				if app != nil {
					app.Loader().Invalidate()
				}
			},
			OnReload: func(clients int) {
				success("Reloaded %d browsers", clients)
			},
		})
		appCfg.DevMode = true
		appCfg.Reload = http.HandlerFunc(watch.Reload().HandleWebSocket)
	}
	app = routemark.New(appCfg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if verbose {
		r.Use(chimiddleware.Logger)
	}
	r.Use(chimiddleware.Recoverer)

	patterns := app.RoutePatterns()
	if cfg.Tracing.Enabled {
		r.Use(middleware.OpenTelemetry(patterns, middleware.WithTracerName(cfg.Tracing.ServiceName)))
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus(patterns))
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}
	r.Handle("/*", app)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Print banner
	printBanner()
	fmt.Println("  serve")
	fmt.Println()

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		if watch != nil {
			watch.Stop()
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
	}()

	if devMode {
		go func() {
			if err := watch.Start(ctx); err != nil {
				errorMsg("Watcher stopped: %v", err)
			}
		}()
	}

	// Open browser if requested
	if openBrowser {
		go func() {
			time.Sleep(300 * time.Millisecond)
			openURL(cfg.URL())
		}()
	}

	success("Serving %s at %s", siteLabel(cfg), cfg.URL())
	if devMode {
		info("Watching %s for changes", strings.Join(cfg.WatchPaths(), ", "))
	}
	if cfg.Metrics.Enabled {
		info("Metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
	}
	info("Press Ctrl+C to stop")
	fmt.Println()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// siteLabel names the site in CLI output.
func siteLabel(cfg *config.Config) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	if cfg.Name != "" {
		return cfg.Name
	}
	return "site"
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("start"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}

	cmd.Start()
}

// commandExists checks if a command exists in PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
