package routemark

import (
	"bytes"
	"html/template"
	"io"
	"net/http"

	clientdist "github.com/routemark/routemark/client/dist"
	"github.com/routemark/routemark/internal/dev"
	"github.com/routemark/routemark/pkg/content"
)

// =============================================================================
// HTML Shell
// =============================================================================

// ClientScriptPath is where the app serves the navigation client.
const ClientScriptPath = "/_routemark/client.js"

// FragmentTitleHeader carries the document title on fragment responses
// so the client script can update document.title without reparsing the
// body. The header name is baked into ClientScript.
const FragmentTitleHeader = "X-Routemark-Title"

// shellHTML is the page shell wrapped around every rendered document.
// The content element id must match the one ClientScript swaps.
const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Doc.Meta.Title}}{{.Doc.Meta.Title}} - {{end}}{{.SiteTitle}}</title>
{{if .Doc.Meta.Description}}<meta name="description" content="{{.Doc.Meta.Description}}">
{{end}}{{if .Stylesheet}}<link rel="stylesheet" href="{{.Stylesheet}}">
{{end}}</head>
<body>
<main id="routemark-content">
{{.Doc.HTML}}</main>
<script src="/_routemark/client.js" defer></script>
{{.DevScript}}</body>
</html>
`

var shellTmpl = template.Must(template.New("shell").Parse(shellHTML))

// shellData is the template payload for the HTML shell.
type shellData struct {
	SiteTitle  string
	Doc        content.Document
	Stylesheet string
	DevScript  template.HTML
}

// renderShell writes the full HTML shell around the rendered document.
func (a *App) renderShell(w http.ResponseWriter, r *http.Request, doc content.Document) {
	data := shellData{
		SiteTitle:  a.config.Title,
		Doc:        doc,
		Stylesheet: a.stylesheetHref(),
	}
	if a.config.DevMode {
		data.DevScript = template.HTML(dev.ReloadClientScript)
	}

	var buf bytes.Buffer
	if err := shellTmpl.Execute(&buf, data); err != nil {
		a.logger.Error("shell render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	w.Write(buf.Bytes())
}

// renderFragment writes only the rendered document body, for the
// client script to swap into the content element.
func (a *App) renderFragment(w http.ResponseWriter, r *http.Request, doc content.Document) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if doc.Meta.Title != "" {
		w.Header().Set(FragmentTitleHeader, doc.Meta.Title)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	io.WriteString(w, string(doc.HTML))
}

// serveClientScript serves the embedded navigation client.
func (a *App) serveClientScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	io.WriteString(w, ClientScript)
}

// stylesheetHref returns the shell stylesheet URL, or "" when no
// static directory is configured.
func (a *App) stylesheetHref() string {
	if a.assets == nil {
		return ""
	}
	return a.assets.Asset("style.css")
}

// ClientScript is the navigation client source, embedded from
// client/dist. It intercepts clicks on same-origin anchors, swaps the
// content element with the fetched fragment, and keeps the browser
// history in sync. History only moves after a successful fetch, so a
// failed navigation leaves both the URL and the content untouched.
var ClientScript = string(clientdist.RoutemarkJS)
