// Package web embeds the HTML templates served by the dashboard.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded page. Page templates are named after their
// file (e.g. "dashboard.html") and share the "header" and "footer" partials.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(files, "templates/*.html")
}
