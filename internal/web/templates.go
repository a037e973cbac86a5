package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the embedded HTML pages.
type Templates struct {
	t *template.Template
}

// NewTemplates parses the embedded page templates.
func NewTemplates() (*Templates, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render executes the named page template.
func (tp *Templates) Render(w io.Writer, name string, data any) error {
	if err := tp.t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
