package route

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Generate builds a path from a route pattern and parameter values.
//
// Each parameter value replaces the first occurrence of its ":name" in the
// pattern, percent-encoded. Longer names substitute first so ":id" never
// clobbers ":idx". If a ":" survives substitution the pattern had captures
// with no matching value; the best-effort path is still returned together
// with ErrUnresolvedParam, which callers producing partial templates may
// ignore. Query entries append as an encoded "?"-prefixed string with keys
// in sorted order; entries with an empty key are skipped.
//
// Generate never consults the current location and has no side effects.
func Generate(pattern string, params, query map[string]string) (string, error) {
	path := pattern
	for _, name := range paramNamesByLength(params) {
		path = strings.Replace(path, ":"+name, encodeComponent(params[name]), 1)
	}

	var err error
	if strings.Contains(path, ":") {
		err = fmt.Errorf("%w in %q", ErrUnresolvedParam, path)
	}

	if qs := encodeQuery(query); qs != "" {
		path += "?" + qs
	}
	return path, err
}

// paramNamesByLength returns parameter names longest first, ties broken
// lexicographically, so substitution order is deterministic.
func paramNamesByLength(params map[string]string) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// encodeComponent percent-encodes a path segment or query component.
// Spaces become %20, never "+", so the result decodes back through Parse.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// encodeQuery builds an "&"-joined encoded query string with keys in
// sorted order. Empty keys are skipped.
func encodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}

	keys := make([]string, 0, len(query))
	for key := range query {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(encodeComponent(key))
		b.WriteByte('=')
		b.WriteString(encodeComponent(query[key]))
	}
	return b.String()
}
