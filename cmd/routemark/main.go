package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/routemark/routemark/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┬ ┬┌┬┐┌─┐┌┬┐┌─┐┬─┐┬┌─
  ├┬┘│ ││ │ │ ├┤ │││├─┤├┬┘├┴┐
  ┴└─└─┘└─┘ ┴ └─┘┴ ┴┴ ┴┴└─┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "routemark",
		Short: "Markdown site server with client-side navigation",
		Long: `Routemark serves a markdown content tree as a single-page site.

Route patterns map URL paths onto markdown documents, a small client
script swaps the rendered content in place on navigation, and the
development watcher reloads browsers when files change. Features include:

  • Pattern-based routing with named parameters
  • Markdown documents with front matter metadata
  • Content from the filesystem, HTTP, or S3
  • Hot reload development server
  • Prometheus metrics and OpenTelemetry tracing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		serveCmd(),
		checkCmd(),
		exportCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		var re *errors.RoutemarkError
		if stderrors.As(err, &re) {
			errors.PrintError(re)
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the routemark ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
