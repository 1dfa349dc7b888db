// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Houston Texas Pro.
// Handlers are grouped by concern (public directory, auth, contractor
// dashboard, informational pages) and receive their dependencies through
// the handler struct.
package handlers

import (
	"net/http"
	"strings"

	"houstonpro/internal/render"
)

// renderError renders the public error page with the given status.
func renderError(w http.ResponseWriter, r *http.Request, rn *render.Renderer, status int, title, msg string) {
	rn.PageStatus(w, r, status, "public/error", &render.PageData{
		Title: title,
		Data:  map[string]any{"Message": msg},
	})
}

func notFound(w http.ResponseWriter, r *http.Request, rn *render.Renderer) {
	renderError(w, r, rn, http.StatusNotFound, "Page not found",
		"We couldn't find that page. It may have moved, or the listing was removed.")
}

func serverError(w http.ResponseWriter, r *http.Request, rn *render.Renderer) {
	renderError(w, r, rn, http.StatusInternalServerError, "Something went wrong",
		"An unexpected error occurred. Please try again in a moment.")
}

// formValue returns the trimmed form value for key.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// formValues returns the trimmed, non-empty values submitted for key.
func formValues(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.Form[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// optional returns nil for an empty string.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
