// Package content loads and renders the markdown documents behind
// routemark routes.
//
// A Rule table maps route patterns to document path templates; the
// captures of a matched pattern fill the template to derive the
// document path:
//
//	{Pattern: "/", Doc: "/README.md"}
//	{Pattern: "/list/:channel", Doc: "/list/:channel.md"}
//
// Documents come from a Source. Three implementations ship with the
// package: FSSource reads from a filesystem tree, HTTPSource performs
// plain GET requests against a base URL, and S3Source reads from an S3
// bucket.
//
// The Loader ties it together: it resolves a path to a rule, fetches
// and renders the document (goldmark with GFM extensions, front matter
// stripped into Meta), and caches renders per document path. When a
// fetch or render fails the Loader returns the last successfully
// loaded document along with the error, so the served content never
// goes blank on a transient failure.
package content
