package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/routemark/routemark/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routemark.json"

	// DefaultPort is the default server port.
	DefaultPort = 4000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultContentDir is the default content directory.
	DefaultContentDir = "content"

	// DefaultStaticDir is the default static asset directory.
	DefaultStaticDir = "public"

	// DefaultStaticPrefix is the default URL prefix for static assets.
	DefaultStaticPrefix = "/static/"

	// DefaultMetricsPath is the default Prometheus endpoint path.
	DefaultMetricsPath = "/metrics"

	// DefaultPollInterval is the default content watch interval.
	DefaultPollInterval = "500ms"
)

// Config represents the complete routemark.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Title is shown in the HTML shell when a document has no title of
	// its own.
	Title string `json:"title,omitempty"`

	// Port is the default server port (convenience field, also in Dev).
	Port int `json:"port,omitempty"`

	// Rules is the route table mapping patterns to documents.
	Rules []Rule `json:"rules,omitempty"`

	// Content configures where documents come from and how they render.
	Content ContentConfig `json:"content,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// Rule binds a route pattern to the document it renders.
type Rule struct {
	// Pattern is the route pattern, e.g. "/list/:channel".
	Pattern string `json:"pattern"`

	// Doc is the document path template, e.g. "/list/:channel.md".
	Doc string `json:"doc"`
}

// ContentConfig describes the document source and markdown rendering.
type ContentConfig struct {
	// Source is the source kind: fs, http, or s3.
	Source string `json:"source,omitempty"`

	// Dir is the content directory for the fs source.
	Dir string `json:"dir,omitempty"`

	// BaseURL is the document base URL for the http source.
	BaseURL string `json:"baseURL,omitempty"`

	// Bucket is the bucket name for the s3 source.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix for the s3 source.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region for the s3 source.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, e.g. for MinIO.
	Endpoint string `json:"endpoint,omitempty"`

	// Extensions selects the markdown extensions by name. Empty means
	// the renderer defaults.
	Extensions []string `json:"extensions,omitempty"`

	// SafeHTML strips raw HTML from rendered documents.
	SafeHTML bool `json:"safeHTML,omitempty"`

	// HardWraps renders single newlines as line breaks.
	HardWraps bool `json:"hardWraps,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files.
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Reload enables live reload in development.
	Reload bool `json:"reload,omitempty"`

	// PollInterval is how often watched paths are scanned, e.g. "500ms".
	PollInterval string `json:"pollInterval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is mounted.
	Enabled bool `json:"enabled,omitempty"`

	// Path is the metrics endpoint path.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled controls whether request tracing middleware is mounted.
	Enabled bool `json:"enabled,omitempty"`

	// ServiceName is reported on spans.
	ServiceName string `json:"serviceName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Port: DefaultPort,
		Rules: []Rule{
			{Pattern: "/", Doc: "/README.md"},
			{Pattern: "/list/:channel", Doc: "/list/:channel.md"},
		},
		Content: ContentConfig{
			Source: "fs",
			Dir:    DefaultContentDir,
		},
		Static: StaticConfig{
			Dir:    DefaultStaticDir,
			Prefix: DefaultStaticPrefix,
		},
		// Dev.Port stays zero here so applyDefaults can inherit the
		// top-level Port after the user's file is overlaid.
		Dev: DevConfig{
			Host:         DefaultHost,
			Reload:       true,
			PollInterval: DefaultPollInterval,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			ServiceName: "routemark",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for routemark.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No routemark.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'routemark init' to create a new site or create routemark.json manually")
		}
		return nil, errors.New("E060").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		re := errors.New("E060").
			WithDetail("Failed to parse routemark.json: " + err.Error()).
			WithSuggestion("Check that routemark.json is valid JSON").
			Wrap(err)
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case stderrors.As(err, &syntaxErr):
			re.WithLocationFromOffset(path, data, syntaxErr.Offset)
		case stderrors.As(err, &typeErr):
			re.WithLocationFromOffset(path, data, typeErr.Offset)
		}
		return nil, re
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E060").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E060").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = c.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.PollInterval == "" {
		c.Dev.PollInterval = DefaultPollInterval
	}

	if c.Content.Source == "" {
		c.Content.Source = "fs"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}

	if c.Static.Dir == "" {
		c.Static.Dir = DefaultStaticDir
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = DefaultStaticPrefix
	}

	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{c.Content.Dir, c.Static.Dir}
	}

	if len(c.Rules) == 0 {
		c.Rules = New().Rules
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "routemark"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 1 || c.Dev.Port > 65535 {
		return errors.New("E062").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Dev.Port))
	}

	switch c.Content.Source {
	case "fs":
	case "http":
		if c.Content.BaseURL == "" {
			return errors.New("E061").
				WithDetail(`The http content source requires "baseURL"`).
				WithExample(`"content": {"source": "http", "baseURL": "https://cdn.example.com/docs"}`)
		}
	case "s3":
		if c.Content.Bucket == "" {
			return errors.New("E061").
				WithDetail(`The s3 content source requires "bucket"`).
				WithExample(`"content": {"source": "s3", "bucket": "my-site-docs", "region": "us-east-1"}`)
		}
	default:
		return errors.New("E063").
			WithDetail("Unknown content source " + strconv.Quote(c.Content.Source))
	}

	for i, rule := range c.Rules {
		if err := validateRule(i, rule); err != nil {
			return err
		}
	}

	return nil
}

// validateRule checks a single route table entry.
func validateRule(index int, rule Rule) error {
	at := "rule " + strconv.Itoa(index)
	if rule.Pattern == "" || !strings.HasPrefix(rule.Pattern, "/") {
		return errors.New("E064").
			WithDetail(at + `: "pattern" must be a path starting with /`)
	}
	if rule.Doc == "" || !strings.HasPrefix(rule.Doc, "/") {
		return errors.New("E064").
			WithDetail(at + `: "doc" must be a path starting with /`)
	}

	captures := map[string]bool{}
	for _, seg := range strings.Split(rule.Pattern, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			captures[seg[1:]] = true
		}
	}
	for _, name := range templateParams(rule.Doc) {
		if !captures[name] {
			return errors.New("E064").
				WithDetail(at + ": doc template references :" + name + " but the pattern does not capture it").
				WithExample(`{"pattern": "/list/:channel", "doc": "/list/:channel.md"}`)
		}
	}
	return nil
}

// templateParams extracts the :name placeholders from a doc template.
func templateParams(doc string) []string {
	var names []string
	for i := 0; i < len(doc); i++ {
		if doc[i] != ':' {
			continue
		}
		j := i + 1
		for j < len(doc) && isParamChar(doc[j]) {
			j++
		}
		if j > i+1 {
			names = append(names, doc[i+1:j])
		}
		i = j - 1
	}
	return names
}

func isParamChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// Address returns the listen address for the server.
func (c *Config) Address() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// URL returns the full URL for the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ContentPath returns the absolute path to the content directory.
func (c *Config) ContentPath() string {
	if filepath.IsAbs(c.Content.Dir) {
		return c.Content.Dir
	}
	return filepath.Join(c.Dir(), c.Content.Dir)
}

// StaticPath returns the absolute path to the static asset directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Static.Dir) {
		return c.Static.Dir
	}
	return filepath.Join(c.Dir(), c.Static.Dir)
}

// StaticPrefix returns the URL prefix for static files, always ending
// in a slash.
func (c *Config) StaticPrefix() string {
	prefix := c.Static.Prefix
	if prefix == "" {
		prefix = DefaultStaticPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// WatchPaths returns the absolute paths the dev watcher should scan.
func (c *Config) WatchPaths() []string {
	out := make([]string, 0, len(c.Dev.Watch))
	for _, p := range c.Dev.Watch {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(c.Dir(), p))
	}
	return out
}

// PollIntervalDuration returns the parsed watch interval, falling back
// to the default on a malformed value.
func (c *Config) PollIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Dev.PollInterval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultPollInterval)
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing routemark.json, or an error if not
// found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No routemark.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'routemark init' to create a new site")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
