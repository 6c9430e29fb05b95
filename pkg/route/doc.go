// Package route implements flat path parsing, matching, and generation
// for single-page sites.
//
// The package provides:
//   - Parsing of path+query strings into segments and decoded parameters
//   - Matching against "/segment/:param" patterns with named captures
//   - Path generation from a pattern and a parameter set
//
// All functions are pure: they never read ambient location state and never
// mutate their inputs. The process-wide current location lives in package
// nav, which calls into this package on every navigation.
//
// # Patterns
//
// A pattern is a "/"-delimited template. Segments starting with ":" are
// named captures; every other segment is a literal that must match byte
// for byte:
//
//	/                      matches only the root path
//	/list/:channel         matches /list/news, /list/a%20b
//	/user/:id/posts        matches /user/7/posts
//
// Patterns are flat. There are no wildcards, no nesting, and no regex
// constraints; a capture matches any single non-empty segment.
//
// # Usage
//
//	parsed, err := route.Parse("/list/news?page=2")
//	// parsed.Segments == []string{"list", "news"}
//	// parsed.QueryParams["page"] == "2"
//
//	m, err := route.Match("/list/:channel", "/list/news")
//	if m != nil {
//	    // m.Params["channel"] == "news"
//	}
//
//	path, err := route.Generate("/list/:channel", map[string]string{"channel": "news"}, nil)
//	// path == "/list/news"
package route
