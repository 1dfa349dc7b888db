// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"html/template"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"houstonpro/internal/markdown"
	"houstonpro/internal/models"
)

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// isDev returns true when the app runs in development mode.
		"isDev": func() bool {
			return devMode
		},
		"uuidEq": func(ptr *uuid.UUID, val uuid.UUID) bool {
			return ptr != nil && *ptr == val
		},
		"hasID":      hasID,
		"contains":   contains,
		"stars":      stars,
		"float":      func(i int) float64 { return float64(i) },
		"plural":     plural,
		"truncate":   truncate,
		"title":      titleCase,
		"timeAgo":    humanize.Time,
		"comma":      func(n int) string { return humanize.Comma(int64(n)) },
		"markdown":   markdown.Render,
		"telHref":    telHref,
		"fontHref":   fontHref,
		"firstImage": firstImage,
		"list":       func(items ...string) []string { return items },
		"year":       func() int { return time.Now().Year() },
	}
}

func hasID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func contains(items []string, s string) bool {
	for _, v := range items {
		if v == s {
			return true
		}
	}
	return false
}

// stars renders a 0-5 rating as filled and empty star glyphs, rounding to
// the nearest whole star.
func stars(rating float64) string {
	n := int(math.Round(rating))
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// truncate shortens s to at most n runes, cutting at a word boundary and
// appending an ellipsis.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := strings.LastIndexFunc(string(runes), unicode.IsSpace)
	if cut <= 0 {
		return string(runes) + "…"
	}
	return strings.TrimRight(string(runes)[:cut], " ,.;:") + "…"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// telHref builds a tel: link from a free-form US phone number.
func telHref(phone string) template.URL {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) == 10 {
		d = "1" + d
	}
	return template.URL("tel:+" + d)
}

// fontHref returns the Google Fonts stylesheet URL for a supported font,
// or "" for unknown values so no link is emitted.
func fontHref(f models.FontFamily) template.URL {
	if !f.Valid() {
		return ""
	}
	family := strings.ReplaceAll(string(f), " ", "+")
	return template.URL("https://fonts.googleapis.com/css2?family=" + family + ":wght@400;600;700&display=swap")
}

func firstImage(images []models.GalleryImage) *models.GalleryImage {
	if len(images) == 0 {
		return nil
	}
	return &images[0]
}
