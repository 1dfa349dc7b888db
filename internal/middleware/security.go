// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// SecureHeaders adds security-related HTTP headers to every response.
// imageOrigins are extra origins allowed in img-src, normally the public
// URL of the gallery bucket.
func SecureHeaders(imageOrigins ...string) func(http.Handler) http.Handler {
	csp := ContentSecurityPolicy(imageOrigins...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			// CSP replaces the legacy XSS filter.
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "interest-cohort=()")
			h.Set("Content-Security-Policy", csp)

			next.ServeHTTP(w, r)
		})
	}
}

// ContentSecurityPolicy builds the policy header value. Profile pages set
// theme custom properties through a style attribute, so inline styles are
// allowed while inline scripts are not.
func ContentSecurityPolicy(imageOrigins ...string) string {
	img := []string{"'self'", "data:"}
	for _, o := range imageOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			img = append(img, o)
		}
	}
	directives := []string{
		"default-src 'self'",
		"img-src " + strings.Join(img, " "),
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"font-src 'self' https://fonts.gstatic.com",
		"script-src 'self' https://unpkg.com",
		"frame-ancestors 'self'",
		"form-action 'self'",
	}
	return strings.Join(directives, "; ")
}
