// Package web provides infrastructure for serving web pages with Go templates.
// Templates are parsed once at startup and rendered with per-request page data.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

// PageDef names a page template and the script bundle it loads.
type PageDef struct {
	Template string
	Bundle   string
}

// PageData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type PageData struct {
	Title    string
	Lang     string
	Classes  []string
	Bundle   string
	BasePath string
	Data     any
}

// Class joins Classes for use in a class attribute.
func (d PageData) Class() string {
	return strings.Join(d.Classes, " ")
}

// TemplateSet holds pre-parsed templates and a base path for URL generation.
type TemplateSet struct {
	pages    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layout templates and clones them for each page.
// Parse errors surface at startup rather than per request.
func NewTemplateSet(layoutFS, pageFS fs.FS, layoutGlob, pageSubdir, basePath string, pages []PageDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	pageSub, err := fs.Sub(pageFS, pageSubdir)
	if err != nil {
		return nil, err
	}

	pageTemplates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", p.Template, err)
		}
		if _, err := t.ParseFS(pageSub, p.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", p.Template, err)
		}
		pageTemplates[p.Template] = t
	}

	return &TemplateSet{
		pages:    pageTemplates,
		basePath: basePath,
	}, nil
}

// BasePath returns the prefix the set was created with.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layout for page with data and status. BasePath is filled in
// from the set.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layout string, page PageDef, data PageData) error {
	t, ok := ts.pages[page.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", page.Template)
	}
	data.BasePath = ts.basePath
	if data.Bundle == "" {
		data.Bundle = page.Bundle
	}

	var buf strings.Builder
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(buf.String()))
	return err
}

// Assets serves files from fsys, typically an embedded build directory.
func Assets(fsys fs.FS) http.Handler {
	return http.FileServerFS(fsys)
}
