package route

import "strings"

// MatchResult describes a successful match of a pattern against a path.
type MatchResult struct {
	// Params maps each :name capture to its percent-decoded path segment.
	Params map[string]string

	// IsExact reports whether the raw pathname equals the raw pattern
	// string. It is diagnostic: a pattern with captures can match without
	// being exact.
	IsExact bool

	// Path is the matched pathname, without the query string.
	Path string

	// QueryParams are the decoded query parameters of the matched path.
	QueryParams map[string]string
}

// Match matches a route pattern against a raw path+query string.
//
// Both the pattern and the path split into non-empty segments. If the
// counts differ there is no match; there is no prefix or partial matching.
// Segments then compare pairwise: a pattern segment starting with ":"
// binds the decoded path segment under the name after the colon, and any
// other pattern segment must equal the raw path segment byte for byte,
// failing the match on the first mismatch. Captures carry no type
// constraint, so a capture also matches segments that look like literals
// of another route.
//
// A nil result with a nil error means no match. An error is returned only
// when decoding fails.
func Match(pattern, raw string) (*MatchResult, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	patternSegments := splitSegments(pattern)
	if len(patternSegments) != len(parsed.Segments) {
		return nil, nil
	}

	params := make(map[string]string, len(patternSegments))
	for i, ps := range patternSegments {
		seg := parsed.Segments[i]
		if strings.HasPrefix(ps, ":") {
			decoded, err := decodeComponent(seg, "path segment")
			if err != nil {
				return nil, err
			}
			params[ps[1:]] = decoded
			continue
		}
		if ps != seg {
			return nil, nil
		}
	}

	return &MatchResult{
		Params:      params,
		IsExact:     parsed.Pathname == pattern,
		Path:        parsed.Pathname,
		QueryParams: parsed.QueryParams,
	}, nil
}
