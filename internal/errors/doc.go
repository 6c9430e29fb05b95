// Package errors provides structured, actionable error messages for
// routemark.
//
// The errors package implements an error system that:
//   - Shows exact file locations (file, line, column)
//   - Explains what went wrong in plain language
//   - Suggests how to fix issues with example snippets
//   - Links to documentation for deeper understanding
//
// # Error Categories
//
// Errors are organized into categories:
//   - route: Path parsing, matching, and generation errors
//   - navigation: History and navigation errors
//   - content: Document fetching and rendering errors
//   - config: routemark.json errors
//   - server: HTTP serving errors
//   - cli: Command-line errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "E060") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("E060").
//	    WithLocationFromOffset("routemark.json", data, syntaxErr.Offset).
//	    WithSuggestion("Remove the trailing comma after the last rule")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E060: Invalid routemark.json
//	//
//	//   routemark.json:6:3
//	//
//	//      4 │   "rules": [
//	//      5 │     {"pattern": "/", "doc": "/README.md"},
//	//   →  6 │   ]
//	//        │   ^
//	//      7 │ }
//	//
//	//   Hint: Remove the trailing comma after the last rule
//	//
//	//   Learn more: https://routemark.dev/docs/errors/E060
package errors
