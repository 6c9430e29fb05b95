// Package routemark provides the public API for the routemark site server.
//
// This is the recommended import for most applications:
//
//	import "github.com/routemark/routemark"
//
// Usage:
//
//	app := routemark.New(routemark.Config{
//	    Title:  "Field Notes",
//	    Source: routemark.NewDirSource("content"),
//	})
//	log.Fatal(http.ListenAndServe(":4000", app))
package routemark

import (
	"github.com/routemark/routemark/pkg/content"
	"github.com/routemark/routemark/pkg/nav"
	"github.com/routemark/routemark/pkg/route"
)

// =============================================================================
// Paths (re-export from pkg/route)
// =============================================================================

// ParsedPath is the decomposition of a location string into pathname,
// segments, and query parameters.
type ParsedPath = route.ParsedPath

// MatchResult describes a successful match of a path against a pattern.
type MatchResult = route.MatchResult

// DecodeError reports a malformed percent escape in a location string.
type DecodeError = route.DecodeError

// Parse splits a location string into segments and query parameters.
var Parse = route.Parse

// Match tests a location string against a route pattern such as
// "/list/:channel". A nil result with a nil error means no match.
var Match = route.Match

// Generate builds a concrete path from a pattern and parameter values.
var Generate = route.Generate

// Path errors.
var (
	ErrInvalidPercentEscape = route.ErrInvalidPercentEscape
	ErrUnresolvedParam      = route.ErrUnresolvedParam
)

// =============================================================================
// Navigation (re-export from pkg/nav)
// =============================================================================

// Hub owns a current location and its history stack, and notifies
// listeners on every navigation.
type Hub = nav.Hub

// HubOption configures a new hub.
type HubOption = nav.Option

// Listener receives the parsed path after every navigation.
type Listener = nav.Listener

// NavigateOption configures a single navigation.
type NavigateOption = nav.NavigateOption

// NewHub creates an independent navigation hub.
var NewHub = nav.NewHub

// WithInitialPath sets the hub's starting location.
var WithInitialPath = nav.WithInitialPath

// WithReplace replaces the current history entry instead of pushing.
var WithReplace = nav.WithReplace

// Listen subscribes to the process-wide navigation hub. The listener
// fires once immediately with the current path, then on every
// navigation until the returned function is called.
var Listen = nav.Listen

// Navigate moves the process-wide hub to a new path.
var Navigate = nav.Navigate

// Back steps the process-wide hub backward through its history.
var Back = nav.Back

// Forward steps the process-wide hub forward through its history.
var Forward = nav.Forward

// Current returns the process-wide hub's current parsed path.
var Current = nav.Current

// =============================================================================
// Content (re-export from pkg/content)
// =============================================================================

// Rule binds a route pattern to the document it renders.
type Rule = content.Rule

// Document is a rendered markdown document.
type Document = content.Document

// Meta is the front matter envelope of a document.
type Meta = content.Meta

// Source fetches raw documents by path.
type Source = content.Source

// DefaultRules returns the stock route table: "/" renders /README.md
// and "/list/:channel" renders /list/:channel.md.
var DefaultRules = content.DefaultRules

// NewDirSource serves documents from a directory on disk.
var NewDirSource = content.NewDirSource

// NewFSSource serves documents from an fs.FS.
var NewFSSource = content.NewFSSource

// NewHTTPSource serves documents from a remote base URL.
var NewHTTPSource = content.NewHTTPSource

// NewPublicS3Source serves documents from a public S3 bucket.
var NewPublicS3Source = content.NewPublicS3Source

// ErrDocNotFound reports a document absent from its source.
var ErrDocNotFound = content.ErrDocNotFound
