package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/routemark/routemark"
	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
	"github.com/routemark/routemark/pkg/content"
)

const checkFetchTimeout = 10 * time.Second

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the project configuration and content",
		Long: `Validate routemark.json and verify that every routed document exists.

Each rule whose document path has no parameters is fetched from the
configured source and rendered. Rules with parameters resolve to
different documents per request and are only pattern-checked.

Examples:
  routemark check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}

	return cmd
}

func runCheck() error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	success("Configuration is valid")

	appCfg, err := routemark.FromProject(cfg)
	if err != nil {
		return err
	}
	source := appCfg.Source

	renderer := content.NewRenderer(rendererOptions(cfg)...)

	fmt.Println()
	info("Checking %d rules against the %s source", len(appCfg.Rules), source.Name())
	fmt.Println()

	var failed, checked int
	for _, rule := range appCfg.Rules {
		if strings.Contains(rule.Doc, ":") {
			info("%s  (dynamic, resolved per request)", rule.Pattern)
			continue
		}

		checked++
		if err := checkDocument(source, renderer, rule.Doc); err != nil {
			failed++
			errorMsg("%s -> %s: %v", rule.Pattern, rule.Doc, err)
			continue
		}
		success("%s -> %s", rule.Pattern, rule.Doc)
	}

	fmt.Println()
	if failed > 0 {
		return errors.New("E101").
			WithDetail(fmt.Sprintf("%d of %d routed documents are missing or unreadable.", failed, checked)).
			WithSuggestion("Create the missing documents or fix the rules in routemark.json.")
	}
	success("All routed documents are present")
	return nil
}

// checkDocument fetches and renders a single document so broken front
// matter is caught as well as missing files.
func checkDocument(source content.Source, renderer *content.Renderer, docPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), checkFetchTimeout)
	defer cancel()

	raw, err := source.Fetch(ctx, docPath)
	if err != nil {
		return err
	}
	_, err = renderer.Render(docPath, raw)
	return err
}

// rendererOptions mirrors the renderer the server builds from the same
// config, so check renders exactly what serve will.
func rendererOptions(cfg *config.Config) []content.RendererOption {
	var opts []content.RendererOption
	if len(cfg.Content.Extensions) > 0 {
		opts = append(opts, content.WithExtensions(cfg.Content.Extensions...))
	}
	if cfg.Content.SafeHTML {
		opts = append(opts, content.WithSafeHTML())
	}
	if cfg.Content.HardWraps {
		opts = append(opts, content.WithHardWraps())
	}
	return opts
}
