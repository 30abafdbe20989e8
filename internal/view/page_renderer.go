package view

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
)

// PageRenderer renders web pages through a set of templates, each page
// parsed together with the shared layout.
type PageRenderer struct {
	templates map[string]*template.Template
}

// NewPageRenderer parses every page in dir against dir/layout.html.
func NewPageRenderer(dir string, pages ...string) (*PageRenderer, error) {
	templates := make(map[string]*template.Template)
	layout := filepath.Join(dir, "layout.html")

	for _, page := range pages {
		t, err := template.ParseFiles(layout, filepath.Join(dir, page))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// RenderTemplate renders the page with the given name. It returns an
// error if the page was not parsed at startup.
func (pr *PageRenderer) RenderTemplate(wr io.Writer, name string, data any) error {
	t, ok := pr.templates[name]
	if !ok {
		return fmt.Errorf("template is missing{%s}", name)
	}
	return t.ExecuteTemplate(wr, "layout.html", data)
}
