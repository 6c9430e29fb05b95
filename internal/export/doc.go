// Package export renders a routemark project into a static site.
//
// This package handles:
//   - Rendering every literal route through the same handler the
//     serve command runs
//   - Pretty URLs: each page lands in <path>/index.html so static
//     hosts serve it without rewrite rules
//   - Static asset copying, optionally with content-hash fingerprints
//     and a manifest.json the shell resolves at render time
//   - Writing the navigation client script
//
// # Usage
//
//	exporter := export.New(cfg, export.Options{Fingerprint: true})
//	result, err := exporter.Export(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Exported in %s\n", result.Duration)
//	fmt.Printf("Pages: %d\n", result.Pages)
//
// # Output Structure
//
//	dist/
//	├── index.html              # Rule "/"
//	├── about/
//	│   └── index.html          # Rule "/about"
//	├── static/
//	│   ├── style.e5f6a7b8.css  # Fingerprinted asset
//	│   └── manifest.json       # Asset manifest
//	└── _routemark/
//	    └── client.js           # Navigation client
//
// Rules with parameters (for example /list/:channel) match an open set
// of paths and cannot be enumerated, so they are skipped and reported.
// Serving them needs the routemark server.
//
// Static hosts ignore the ?fragment=1 query and answer every page
// request with a full document. The client script detects that and
// falls back to a normal page load, so navigation between exported
// pages degrades from content swapping to ordinary link behavior.
package export
