package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/routemark/routemark/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Content.Source != "fs" {
		t.Errorf("Content.Source = %q, want %q", cfg.Content.Source, "fs")
	}
	if cfg.Content.Dir != DefaultContentDir {
		t.Errorf("Content.Dir = %q, want %q", cfg.Content.Dir, DefaultContentDir)
	}
	if len(cfg.Rules) != 2 {
		t.Errorf("Rules len = %d, want 2", len(cfg.Rules))
	}
	if !cfg.Dev.Reload {
		t.Error("Dev.Reload should default to true")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to true")
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Expected error for missing config")
	}
	if !strings.Contains(err.Error(), "E100") {
		t.Errorf("Expected E100 error, got: %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "my-site",
  "port": 8080,
  "rules": [
    {"pattern": "/docs/:page", "doc": "/docs/:page.md"}
  ],
  "content": {
    "source": "http",
    "baseURL": "https://cdn.example.com/docs"
  },
  "dev": {
    "reload": false
  },
  "metrics": {
    "enabled": false
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "my-site" {
		t.Errorf("Name = %q, want %q", cfg.Name, "my-site")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want %d", cfg.Port, 8080)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port should inherit the top-level port, got %d", cfg.Dev.Port)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Pattern != "/docs/:page" {
		t.Errorf("Rules = %+v, want the configured rule only", cfg.Rules)
	}
	if cfg.Content.Source != "http" {
		t.Errorf("Content.Source = %q, want http", cfg.Content.Source)
	}
	if cfg.Dev.Reload {
		t.Error("Dev.Reload should honor the explicit false")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should honor the explicit false")
	}
	if cfg.Dev.PollInterval != DefaultPollInterval {
		t.Errorf("Dev.PollInterval = %q, want default", cfg.Dev.PollInterval)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadEmptyObjectKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if len(cfg.Rules) != 2 {
		t.Errorf("Rules len = %d, want the default table", len(cfg.Rules))
	}
	wantWatch := []string{DefaultContentDir, DefaultStaticDir}
	if len(cfg.Dev.Watch) != 2 || cfg.Dev.Watch[0] != wantWatch[0] || cfg.Dev.Watch[1] != wantWatch[1] {
		t.Errorf("Dev.Watch = %v, want %v", cfg.Dev.Watch, wantWatch)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("{\n  \"port\": 4000,\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E060") {
		t.Errorf("Expected E060 error, got: %v", err)
	}

	var re *errors.RoutemarkError
	if !stderrors.As(err, &re) {
		t.Fatalf("error should be a RoutemarkError, got %T", err)
	}
	if re.Location == nil {
		t.Error("syntax errors should carry a file location")
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "saved-site"
	cfg.Port = 9000

	// Save should fail without configPath set
	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Name != "saved-site" {
		t.Errorf("Name = %q, want %q", loaded.Name, "saved-site")
	}
	if loaded.Port != 9000 {
		t.Errorf("Port = %d, want %d", loaded.Port, 9000)
	}
	if loaded.Dev.Port != 9000 {
		t.Errorf("Dev.Port = %d, want %d", loaded.Dev.Port, 9000)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := New()
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantCode string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.Dev.Port = 70000 },
			wantCode: "E062",
		},
		{
			name:     "http source requires baseURL",
			mutate:   func(c *Config) { c.Content.Source = "http" },
			wantCode: "E061",
		},
		{
			name:     "s3 source requires bucket",
			mutate:   func(c *Config) { c.Content.Source = "s3" },
			wantCode: "E061",
		},
		{
			name:     "unknown source kind",
			mutate:   func(c *Config) { c.Content.Source = "ftp" },
			wantCode: "E063",
		},
		{
			name: "pattern must start with slash",
			mutate: func(c *Config) {
				c.Rules = []Rule{{Pattern: "list/:channel", Doc: "/list/:channel.md"}}
			},
			wantCode: "E064",
		},
		{
			name: "doc must not be empty",
			mutate: func(c *Config) {
				c.Rules = []Rule{{Pattern: "/list/:channel"}}
			},
			wantCode: "E064",
		},
		{
			name: "doc template params must be captured",
			mutate: func(c *Config) {
				c.Rules = []Rule{{Pattern: "/list/:channel", Doc: "/list/:page.md"}}
			},
			wantCode: "E064",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("Validate error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantCode) {
				t.Errorf("Validate error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	// Resolve symlinks so macOS /private/var temp dirs compare equal.
	wantRoot, _ := filepath.EvalSymlinks(tmpDir)
	gotRoot, _ := filepath.EvalSymlinks(root)
	if gotRoot != wantRoot {
		t.Errorf("FindProjectRoot = %q, want %q", gotRoot, wantRoot)
	}

	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("Expected error when no routemark.json exists upward")
	}
}

func TestStaticPrefix(t *testing.T) {
	cfg := New()
	cfg.Static.Prefix = "/assets"
	if got := cfg.StaticPrefix(); got != "/assets/" {
		t.Errorf("StaticPrefix() = %q, want %q", got, "/assets/")
	}

	cfg.Static.Prefix = ""
	if got := cfg.StaticPrefix(); got != DefaultStaticPrefix {
		t.Errorf("StaticPrefix() = %q, want %q", got, DefaultStaticPrefix)
	}
}

func TestPollIntervalDuration(t *testing.T) {
	cfg := New()
	cfg.Dev.PollInterval = "250ms"
	if got := cfg.PollIntervalDuration(); got != 250*time.Millisecond {
		t.Errorf("PollIntervalDuration() = %v, want 250ms", got)
	}

	cfg.Dev.PollInterval = "soon"
	if got := cfg.PollIntervalDuration(); got != 500*time.Millisecond {
		t.Errorf("PollIntervalDuration() malformed = %v, want the default", got)
	}
}

func TestTemplateParams(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "single param",
			doc:  "/list/:channel.md",
			want: []string{"channel"},
		},
		{
			name: "multiple params",
			doc:  "/a/:x/:y.md",
			want: []string{"x", "y"},
		},
		{
			name: "no params",
			doc:  "/README.md",
			want: nil,
		},
		{
			name: "bare colon is not a param",
			doc:  "/odd/:.md",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := templateParams(tt.doc)
			if len(got) != len(tt.want) {
				t.Fatalf("templateParams(%q) = %v, want %v", tt.doc, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("templateParams(%q)[%d] = %q, want %q", tt.doc, i, got[i], tt.want[i])
				}
			}
		})
	}
}
