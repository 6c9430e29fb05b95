package route

import (
	"errors"
	"fmt"
)

// Parsing and generation errors.
var (
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrUnresolvedParam      = errors.New("unresolved route parameter")
)

// DecodeError reports a component of a location string that could not be
// percent-decoded. A corrupt escape is surfaced rather than swallowed so
// callers can tell a malformed URL apart from an absent parameter.
type DecodeError struct {
	// Component names the part that failed to decode
	// ("query key", "query value", or "path segment").
	Component string

	// Input is the raw text that failed to decode.
	Input string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s %q: %v", e.Component, e.Input, ErrInvalidPercentEscape)
}

// Unwrap returns ErrInvalidPercentEscape for errors.Is support.
func (e *DecodeError) Unwrap() error {
	return ErrInvalidPercentEscape
}
