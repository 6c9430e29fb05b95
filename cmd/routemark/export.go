package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		output      string
		fingerprint bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the site as static files",
		Long: `Render every literal route into plain HTML files.

This command:
  • Renders each routed document through the same pipeline as serve
  • Writes pretty URLs (about/index.html) static hosts serve directly
  • Copies static assets, optionally under content-hashed names
  • Writes the navigation client script

Rules with parameters (like /list/:channel) match an open set of paths
and are skipped; serving them needs routemark serve.

Examples:
  routemark export
  routemark export --out=site --fingerprint`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(output, fingerprint)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", `Output directory (default "dist")`)
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Rename assets with content hashes and write a manifest")

	return cmd
}

func runExport(output string, fingerprint bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("  Exporting static site...")
	fmt.Println()

	exporter := export.New(cfg, export.Options{
		Output:      output,
		Fingerprint: fingerprint,
		OnProgress: func(step string) {
			info(step)
		},
	})

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	result, err := exporter.Export(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	success("Exported %d pages and %d assets in %s", result.Pages, result.Assets, result.Duration.Round(time.Millisecond))
	for _, pattern := range result.Skipped {
		warn("Skipped %s (parameterized rules need the server)", pattern)
	}
	fmt.Println()
	fmt.Println("  Output:")
	fmt.Printf("    %s/\n", result.Output)
	fmt.Println()
	fmt.Println("  Deploy it with any static file host.")
	fmt.Println()

	return nil
}
