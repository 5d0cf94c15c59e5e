// Package report renders the consolidated quality report as HTML.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/qualgate/qualgate/internal/qualgate/score"
)

//go:embed templates/report.html
var embeddedFS embed.FS

// Data is everything one report page needs. The raw tool outputs are
// embedded verbatim; failure sentinels appended by the runner show up in
// their section like any other line.
type Data struct {
	Title       string
	Project     string
	RunID       string
	GeneratedAt time.Time

	StyleReport string
	BuildLog    string
	BugReport   string

	SourceLines int
	Metrics     score.Metrics
}

// Renderer produces HTML reports from a parsed template set.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded report template.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"pct":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"stamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	}

	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(embeddedFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the report HTML for d to w.
func (r *Renderer) Render(w io.Writer, d Data) error {
	if d.Title == "" {
		d.Title = "Code Quality Report"
	}
	if err := r.tmpl.ExecuteTemplate(w, "report.html", d); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}
