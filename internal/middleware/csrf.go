package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
)

const (
	// CSRFCookieName holds the double-submit token.
	CSRFCookieName = "htp_csrf"

	// CSRFHeaderName carries the token on HTMX requests; the dashboard
	// layout sets it through hx-headers.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField carries the token on plain form posts.
	CSRFFormField = "csrf_token"

	csrfTokenLength = 32
	csrfCtxKey      contextKey = "csrf_token"
)

// NewCSRF returns double-submit cookie protection. Every request gets a
// token cookie (reused once issued) and the token in its context; unsafe
// methods must echo it back in CSRFHeaderName or CSRFFormField. The form
// field is read with FormValue, so multipart gallery uploads work too.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := ensureCSRFCookie(w, r, secure)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfCtxKey, token))

			if !safeMethod(r.Method) && !tokensMatch(token, submittedCSRFToken(r)) {
				http.Error(w, "CSRF token mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFTokenFromCtx returns the request's token for templates.
func CSRFTokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(csrfCtxKey).(string)
	return token
}

// ensureCSRFCookie returns the visitor's token, issuing a cookie when the
// request has none. The cookie is readable by scripts for hx-headers.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, secure bool) (string, error) {
	if c, err := r.Cookie(CSRFCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	raw := make([]byte, csrfTokenLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("csrf token: %w", err)
	}
	token := hex.EncodeToString(raw)
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func submittedCSRFToken(r *http.Request) string {
	if v := r.Header.Get(CSRFHeaderName); v != "" {
		return v
	}
	return r.FormValue(CSRFFormField)
}

func tokensMatch(want, got string) bool {
	return got != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}
