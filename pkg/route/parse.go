package route

import (
	"net/url"
	"strings"
)

// ParsedPath is the structured form of a location string. It is derived,
// recomputed on every Parse call, and never mutated in place.
type ParsedPath struct {
	// Pathname is the path portion, without the query string.
	Pathname string

	// Segments are the non-empty "/"-delimited components of Pathname, in
	// order. Segments are kept raw; decoding happens at match time when a
	// capture binds.
	Segments []string

	// QueryParams are the percent-decoded query parameters. When a key
	// appears more than once, the last occurrence wins.
	QueryParams map[string]string

	// FullPath is Pathname plus the query string, if any.
	FullPath string
}

// Parse turns a raw path+query string into a ParsedPath.
//
// The input splits on the first "?" only; everything after it is the query
// string verbatim, even if it contains further "?" characters. Empty path
// segments from leading, trailing, or repeated slashes are dropped, so
// "/a//b/" yields segments ["a", "b"]. The query splits on "&" and each
// piece on its first "="; a bare key with no "=" yields an empty value,
// and pieces with an empty key are skipped. Keys and values are
// percent-decoded; a malformed escape returns a DecodeError.
//
// An empty input parses as the root path "/".
func Parse(raw string) (ParsedPath, error) {
	if raw == "" {
		raw = "/"
	}

	pathname, query, _ := strings.Cut(raw, "?")
	if pathname == "" {
		pathname = "/"
	}

	params, err := parseQuery(query)
	if err != nil {
		return ParsedPath{}, err
	}

	full := pathname
	if query != "" {
		full += "?" + query
	}

	return ParsedPath{
		Pathname:    pathname,
		Segments:    splitSegments(pathname),
		QueryParams: params,
		FullPath:    full,
	}, nil
}

// splitSegments splits a pathname on "/" and drops empty segments.
func splitSegments(pathname string) []string {
	parts := strings.Split(pathname, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// parseQuery parses a raw query string into decoded key/value pairs.
func parseQuery(query string) (map[string]string, error) {
	params := make(map[string]string)
	if query == "" {
		return params, nil
	}

	for _, piece := range strings.Split(query, "&") {
		if piece == "" {
			continue
		}
		key, value, _ := strings.Cut(piece, "=")
		if key == "" {
			continue
		}
		decodedKey, err := decodeComponent(key, "query key")
		if err != nil {
			return nil, err
		}
		decodedValue, err := decodeComponent(value, "query value")
		if err != nil {
			return nil, err
		}
		params[decodedKey] = decodedValue
	}
	return params, nil
}

// decodeComponent percent-decodes one component of a location string.
// Only %XX escapes are decoded; "+" stays literal.
func decodeComponent(s, component string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", &DecodeError{Component: component, Input: s}
	}
	return decoded, nil
}
