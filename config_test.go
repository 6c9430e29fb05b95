package routemark

import (
	stderrors "errors"
	"testing"

	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
	"github.com/routemark/routemark/pkg/content"
)

func TestFromProject_FSSource(t *testing.T) {
	pc := config.New()
	pc.Title = "Field Notes"

	cfg, err := FromProject(pc)
	if err != nil {
		t.Fatalf("FromProject: %v", err)
	}

	if cfg.Title != "Field Notes" {
		t.Fatalf("Title = %q, want %q", cfg.Title, "Field Notes")
	}
	if _, ok := cfg.Source.(*content.FSSource); !ok {
		t.Fatalf("Source = %T, want *content.FSSource", cfg.Source)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("Rules len = %d, want 2", len(cfg.Rules))
	}
	if cfg.Rules[1].Pattern != "/list/:channel" || cfg.Rules[1].Doc != "/list/:channel.md" {
		t.Fatalf("Rules[1] = %+v", cfg.Rules[1])
	}
	if cfg.Static.Prefix != "/static/" {
		t.Fatalf("Static.Prefix = %q, want %q", cfg.Static.Prefix, "/static/")
	}
	if cfg.Static.Dir == "" {
		t.Fatal("Static.Dir is empty")
	}
}

func TestFromProject_HTTPSource(t *testing.T) {
	pc := config.New()
	pc.Content.Source = "http"
	pc.Content.BaseURL = "https://cdn.example.com/docs"

	cfg, err := FromProject(pc)
	if err != nil {
		t.Fatalf("FromProject: %v", err)
	}
	if _, ok := cfg.Source.(*content.HTTPSource); !ok {
		t.Fatalf("Source = %T, want *content.HTTPSource", cfg.Source)
	}
}

func TestFromProject_S3Source(t *testing.T) {
	pc := config.New()
	pc.Content.Source = "s3"
	pc.Content.Bucket = "site-docs"
	pc.Content.Region = "us-east-1"

	cfg, err := FromProject(pc)
	if err != nil {
		t.Fatalf("FromProject: %v", err)
	}
	if _, ok := cfg.Source.(*content.S3Source); !ok {
		t.Fatalf("Source = %T, want *content.S3Source", cfg.Source)
	}
}

func TestFromProject_UnknownSource(t *testing.T) {
	pc := config.New()
	pc.Content.Source = "gopher"

	_, err := FromProject(pc)
	if err == nil {
		t.Fatal("expected error for unknown source")
	}

	var re *errors.RoutemarkError
	if !stderrors.As(err, &re) {
		t.Fatalf("error type = %T, want *errors.RoutemarkError", err)
	}
	if re.Code != "E063" {
		t.Fatalf("error code = %q, want %q", re.Code, "E063")
	}
}

func TestFromProject_CarriesMarkdownSettings(t *testing.T) {
	pc := config.New()
	pc.Content.Extensions = []string{"table", "footnote"}
	pc.Content.SafeHTML = true
	pc.Content.HardWraps = true

	cfg, err := FromProject(pc)
	if err != nil {
		t.Fatalf("FromProject: %v", err)
	}
	if len(cfg.Markdown.Extensions) != 2 {
		t.Fatalf("Extensions = %v", cfg.Markdown.Extensions)
	}
	if !cfg.Markdown.SafeHTML || !cfg.Markdown.HardWraps {
		t.Fatalf("Markdown flags = %+v", cfg.Markdown)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Title != "routemark" {
		t.Fatalf("Title = %q, want %q", cfg.Title, "routemark")
	}
	if cfg.Static.Prefix != "/" {
		t.Fatalf("Static.Prefix = %q, want %q", cfg.Static.Prefix, "/")
	}
	if cfg.Static.CacheControl != CacheControlNone {
		t.Fatalf("Static.CacheControl = %v, want CacheControlNone", cfg.Static.CacheControl)
	}
}
