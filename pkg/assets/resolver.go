package assets

// Resolver provides asset path resolution.
// It combines manifest lookup with path prefixing.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path,
	// including the static prefix and any fingerprinted filename.
	//
	// Example:
	//   resolver.Asset("style.css") → "/static/style.e5f6a7b8.css"
	Asset(source string) string
}

// manifestResolver wraps a Manifest to implement Resolver.
type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with an optional path
// prefix. The prefix is prepended to all resolved paths:
//
//	manifest, _ := assets.Load("public/manifest.json")
//	resolver := assets.NewResolver(manifest, "/static/")
//	resolver.Asset("style.css") // "/static/style.e5f6a7b8.css"
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   prefix,
	}
}

func (r *manifestResolver) Asset(source string) string {
	resolved := r.manifest.Resolve(source)
	return r.prefix + resolved
}

// passthrough returns assets unchanged (no manifest present).
type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that returns paths
// unchanged apart from the prefix. Used when the static directory has
// no manifest.json, so development and fingerprinted deployments render
// consistent asset links:
//
//	// No manifest:
//	resolver := assets.NewPassthroughResolver("/static/")
//	resolver.Asset("style.css") // "/static/style.css"
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
