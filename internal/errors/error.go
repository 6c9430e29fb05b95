package errors

import (
	"fmt"
	"os"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryRoute      Category = "route"
	CategoryNavigation Category = "navigation"
	CategoryContent    Category = "content"
	CategoryConfig     Category = "config"
	CategoryServer     Category = "server"
	CategoryCLI        Category = "cli"
)

// Location represents a position in a file, typically routemark.json
// or a content document.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// RoutemarkError is a structured error with file location, suggestions,
// and documentation links.
type RoutemarkError struct {
	// Code is a unique error identifier (e.g., "E060").
	Code string

	// Category is the error type (route, content, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position where the error occurred.
	Location *Location

	// Context contains the file lines around the location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows a correct configuration or document snippet.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RoutemarkError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RoutemarkError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file location to the error and loads the
// surrounding lines from disk.
func (e *RoutemarkError) WithLocation(file string, line, column int) *RoutemarkError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithLocationFromOffset derives line and column from a byte offset
// into data, as reported by encoding/json syntax errors.
func (e *RoutemarkError) WithLocationFromOffset(file string, data []byte, offset int64) *RoutemarkError {
	line, column := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = contextLines(strings.Split(string(data), "\n"), line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RoutemarkError) WithSuggestion(s string) *RoutemarkError {
	e.Suggestion = s
	return e
}

// WithExample adds an example snippet to the error.
func (e *RoutemarkError) WithExample(ex string) *RoutemarkError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *RoutemarkError) WithDetail(d string) *RoutemarkError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *RoutemarkError) WithContext(lines []string) *RoutemarkError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *RoutemarkError) Wrap(err error) *RoutemarkError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a
// file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	return contextLines(strings.Split(string(data), "\n"), targetLine, contextSize)
}

// contextLines returns the window of lines around targetLine.
func contextLines(lines []string, targetLine, contextSize int) []string {
	start := targetLine - contextSize/2
	end := targetLine + contextSize/2
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return nil
	}
	out := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, lines[i-1])
	}
	return out
}

// New creates a RoutemarkError from a registered error code.
func New(code string) *RoutemarkError {
	template, ok := registry[code]
	if !ok {
		return &RoutemarkError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RoutemarkError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new RoutemarkError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RoutemarkError {
	return &RoutemarkError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RoutemarkError.
func FromError(err error, code string) *RoutemarkError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RoutemarkError); ok {
		return re
	}
	return New(code).Wrap(err)
}
