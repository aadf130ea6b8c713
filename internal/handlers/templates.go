package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates parses the embedded template set once at construction.
// html/template gives us contextual auto-escaping, so every record field
// and query value is escaped at render time.
func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// renderTemplate executes a named template into a buffer first so a
// rendering failure produces a clean 500 instead of a half-written page.
func renderTemplate(w http.ResponseWriter, tmpl *template.Template, statusCode int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}
