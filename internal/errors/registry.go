package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRoute,
		Message:  "Invalid percent escape in path",
		Detail:   "A path segment or query component contains a malformed percent escape. Escapes must be a percent sign followed by two hex digits, e.g. %20.",
		DocURL:   "https://routemark.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRoute,
		Message:  "Unresolved route parameter",
		Detail:   "A pattern placeholder had no value in the parameter map, so the generated path still contains a :name placeholder.",
		DocURL:   "https://routemark.dev/docs/errors/E002",
	},

	// ============================================
	// Navigation Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryNavigation,
		Message:  "Navigation target is not a valid path",
		Detail:   "The path handed to Navigate could not be parsed. The current location is unchanged.",
		DocURL:   "https://routemark.dev/docs/errors/E020",
	},
	"E021": {
		Category: CategoryNavigation,
		Message:  "History step out of range",
		Detail:   "Back or Forward was requested past the end of the history stack.",
		DocURL:   "https://routemark.dev/docs/errors/E021",
	},
	"E022": {
		Category: CategoryNavigation,
		Message:  "History entry corrupted",
		Detail:   "A stored history entry no longer parses. This indicates a bug in whatever wrote the entry.",
		DocURL:   "https://routemark.dev/docs/errors/E022",
	},

	// ============================================
	// Content Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryContent,
		Message:  "Document not found",
		Detail:   "The document derived from the matched rule does not exist on the content source.",
		DocURL:   "https://routemark.dev/docs/errors/E040",
	},
	"E041": {
		Category: CategoryContent,
		Message:  "Document fetch failed",
		Detail:   "The content source returned an error. The previously loaded document keeps being served.",
		DocURL:   "https://routemark.dev/docs/errors/E041",
	},
	"E042": {
		Category: CategoryContent,
		Message:  "Invalid front matter",
		Detail:   "The YAML front matter block at the top of the document could not be parsed.",
		DocURL:   "https://routemark.dev/docs/errors/E042",
	},
	"E043": {
		Category: CategoryContent,
		Message:  "Markdown render failed",
		Detail:   "The markdown engine failed to convert the document body to HTML.",
		DocURL:   "https://routemark.dev/docs/errors/E043",
	},
	"E044": {
		Category: CategoryContent,
		Message:  "No rule matches path",
		Detail:   "Neither the requested path nor the root fallback matched any rule in the route table.",
		DocURL:   "https://routemark.dev/docs/errors/E044",
	},
	"E045": {
		Category: CategoryContent,
		Message:  "Invalid document path",
		Detail:   "The document path contains traversal or control sequences and was refused.",
		DocURL:   "https://routemark.dev/docs/errors/E045",
	},

	// ============================================
	// Configuration Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryConfig,
		Message:  "Invalid routemark.json",
		Detail:   "The routemark.json configuration file is malformed.",
		DocURL:   "https://routemark.dev/docs/errors/E060",
	},
	"E061": {
		Category: CategoryConfig,
		Message:  "Missing required configuration",
		Detail:   "A required configuration value is not set.",
		DocURL:   "https://routemark.dev/docs/errors/E061",
	},
	"E062": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is outside the valid range.",
		DocURL:   "https://routemark.dev/docs/errors/E062",
	},
	"E063": {
		Category: CategoryConfig,
		Message:  "Unknown content source kind",
		Detail:   "The content source kind must be fs, http, or s3.",
		DocURL:   "https://routemark.dev/docs/errors/E063",
	},
	"E064": {
		Category: CategoryConfig,
		Message:  "Invalid route rule",
		Detail:   "A rule in the route table is missing its pattern or document template, or the template references parameters the pattern does not capture.",
		DocURL:   "https://routemark.dev/docs/errors/E064",
	},
	"E065": {
		Category: CategoryConfig,
		Message:  "Content directory not found",
		Detail:   "The configured content directory does not exist.",
		DocURL:   "https://routemark.dev/docs/errors/E065",
	},

	// ============================================
	// Server Errors (E080-E099)
	// ============================================

	"E080": {
		Category: CategoryServer,
		Message:  "Static asset path refused",
		Detail:   "The requested asset path contains traversal sequences and was not served.",
		DocURL:   "https://routemark.dev/docs/errors/E080",
	},
	"E081": {
		Category: CategoryServer,
		Message:  "Reload socket upgrade failed",
		Detail:   "The browser's reload connection could not be upgraded to a WebSocket.",
		DocURL:   "https://routemark.dev/docs/errors/E081",
	},

	// ============================================
	// CLI Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryCLI,
		Message:  "Not a routemark project",
		Detail:   "The current directory is not a routemark project. Run this command from a directory with routemark.json.",
		DocURL:   "https://routemark.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryCLI,
		Message:  "Document check failed",
		Detail:   "One or more rules point at documents the content source cannot provide.",
		DocURL:   "https://routemark.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryCLI,
		Message:  "Project already exists",
		Detail:   "The target directory already contains a routemark.json.",
		DocURL:   "https://routemark.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "No scaffold template with that name exists.",
		DocURL:   "https://routemark.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryCLI,
		Message:  "Export failed",
		Detail:   "The site could not be written to the output directory.",
		DocURL:   "https://routemark.dev/docs/errors/E104",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
