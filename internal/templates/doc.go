// Package templates provides content scaffolds for new projects.
//
// This package contains the embedded starter content routemark init
// writes into a fresh project: markdown documents, a stylesheet, and
// the route table the scaffold expects.
//
// # Available Templates
//
//   - minimal: A single welcome document
//   - full: Starter site with an about page and list channels
//
// # Usage
//
//	tmpl, err := templates.Get("full")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, cfg); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Scaffold files support variable substitution:
//
//	{{.ProjectName}}     - Directory name of the project
//	{{.Title}}           - Site title shown in the page shell
//	{{.Description}}     - Short site description
package templates
