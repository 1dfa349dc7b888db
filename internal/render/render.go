// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public directory,
// the contractor dashboard and the auth pages. It supports full-page and
// HTMX partial rendering, detecting the request type via the HX-Request
// header, and can render into a byte slice for the profile page cache.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"houstonpro/internal/middleware"
	"houstonpro/internal/session"
)

//go:embed templates
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title       string         // Page title for <title> tag
	Description string         // Meta description (public pages)
	Section     string         // Active nav section (e.g., "leads", "search")
	SiteName    string         // Filled in by the renderer
	Session     *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken   string         // CSRF token for forms and HTMX headers
	Data        map[string]any // Page-specific data
	Flashes     []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	siteName  string
}

// layoutFor maps a template directory to the layout it is rendered in.
var layoutFor = map[string]string{
	"public":    "layouts/public.html",
	"auth":      "layouts/public.html",
	"dashboard": "layouts/dashboard.html",
}

// New creates a Renderer by parsing every page template from the embedded
// filesystem. Each page is paired with its directory's layout and the
// shared partials. Pages are keyed "<dir>/<name>", e.g. "public/profile".
func New(devMode bool, siteName string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		siteName:  siteName,
	}
	funcs := funcMap(devMode)

	for dir, layout := range layoutFor {
		pages, err := fs.Glob(templateFS, "templates/"+dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob templates %s: %w", dir, err)
		}
		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")
			tmpl, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(
				templateFS, "templates/"+layout, "templates/partials/*.html", page,
			)
			if err != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return r, nil
}

// Page renders a full page, or for HTMX requests only the "main" block
// (flashes plus content), with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code, used for 404s and
// forms re-rendered with validation errors.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	// Inject CSRF token from context (set by CSRF middleware).
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())

	// Inject session from context.
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}

	block := "layout"
	if isHTMX(r) {
		block = "main"
	}

	// Render into a buffer so a template error never leaves a half-written page.
	body, err := rn.execute(name, block, data)
	if err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// Bytes renders a full page without request context. The result carries
// no session or CSRF token and is safe to share between visitors.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	data.CSRFToken = ""
	data.Session = nil
	return rn.execute(name, "layout", data)
}

// Has reports whether a page template with the given name exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

func (rn *Renderer) execute(name, block string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data.SiteName == "" {
		data.SiteName = rn.siteName
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
