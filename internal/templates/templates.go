package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
)

// Config contains the values scaffold files may interpolate.
type Config struct {
	// ProjectName is the directory name of the project.
	ProjectName string

	// Title is the site title shown in the page shell.
	Title string

	// Description is a short site description.
	Description string
}

// Template represents a content scaffold.
type Template struct {
	// Name is the template name.
	Name string

	// Description describes the template.
	Description string

	// Rules is the route table the scaffold content expects. Empty
	// means the config defaults fit.
	Rules []config.Rule

	// Files is a map of relative paths to file content templates.
	Files map[string]string
}

// Available templates.
var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E103").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create renders the scaffold files into dir.
func (t *Template) Create(dir string, cfg Config) error {
	for relPath, content := range t.Files {
		// Execute template
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		// Write file
		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return err
		}

		if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			return err
		}
	}

	return nil
}

// minimalTemplate returns the minimal template.
func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A single welcome document",
		Files: map[string]string{
			"content/README.md": `---
title: Welcome
---

# {{.Title}}

This document renders at the root path. Edit content/README.md, save,
and reload the page.
`,
			"public/style.css": styleCSS,
		},
	}
}

// fullTemplate returns the full starter template.
func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Starter site with an about page and list channels",
		Rules: []config.Rule{
			{Pattern: "/", Doc: "/README.md"},
			{Pattern: "/about", Doc: "/about.md"},
			{Pattern: "/list/:channel", Doc: "/list/:channel.md"},
		},
		Files: map[string]string{
			"content/README.md": `---
title: Welcome
description: {{.Description}}
---

# {{.Title}}

Every path on this site is matched against the rules in
routemark.json, and the matching markdown document is rendered into
the page shell.

Try the [about page](/about) or the [news channel](/list/news). The
client script swaps the content in place, so navigating never reloads
the page.
`,
			"content/about.md": `---
title: About
---

# About

Routemark maps URL paths onto markdown documents:

| Pattern          | Document            |
| ---------------- | ------------------- |
| ` + "`/`" + `              | ` + "`/README.md`" + `        |
| ` + "`/about`" + `         | ` + "`/about.md`" + `         |
| ` + "`/list/:channel`" + ` | ` + "`/list/:channel.md`" + ` |

Documents live under content/. Front matter carries the title and
description shown in the page shell.
`,
			"content/list/news.md": `---
title: News
---

# News

- {{.ProjectName}} created with routemark init.
`,
			"content/list/releases.md": `---
title: Releases
---

# Releases

Nothing released yet.
`,
			"public/style.css": styleCSS,
		},
	}
}

const styleCSS = `:root {
  color-scheme: light dark;
}

body {
  max-width: 42rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font-family: system-ui, sans-serif;
  line-height: 1.6;
}

#routemark-content img {
  max-width: 100%;
}

pre {
  overflow-x: auto;
  padding: 0.75rem;
  background: rgba(127, 127, 127, 0.1);
}

table {
  border-collapse: collapse;
}

th,
td {
  border: 1px solid rgba(127, 127, 127, 0.4);
  padding: 0.25rem 0.75rem;
}
`
