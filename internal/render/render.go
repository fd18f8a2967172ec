// Copyright (c) 2025-2026 KTLTC
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render executes the embedded HTML templates for the public site.
// Each page template is parsed against the shared base layout once at
// startup; a missing or broken template fails construction, not the first
// request that hits it.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ktltc/cms-go/internal/model"
)

// Renderer holds the parsed template set.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses all page templates from the given filesystem, normally
// web.Templates.
func New(templatesFS fs.FS) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}

	for _, dir := range []string{"public", "auth"} {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s templates: %w", dir, err)
		}
		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(filepath.Base(page), ".html")

			files := []string{"layouts/base.html"}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return nil, fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return r, nil
}

func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		// Content passed through safe has been sanitized at write time.
		"safe": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Menu        []model.NavNode
	Data        any
	CurrentYear int
}

// Render executes the named template into the response. Output is buffered
// so an execution error can still become a 500 instead of a torn page.
func (r *Renderer) Render(w http.ResponseWriter, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
