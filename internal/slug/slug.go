// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns business and category names into URL path segments.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Generate lower-cases s, folds accents ("Peña" becomes "pena"), drops
// punctuation and joins the remaining words with single hyphens.
// "Joe's A/C, LLC" becomes "joes-ac-llc".
func Generate(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// Unique returns base, or base with the smallest numeric suffix ("-2",
// "-3", ...) that does not appear in taken. An empty base becomes
// fallback first.
func Unique(base, fallback string, taken []string) string {
	if base == "" {
		base = fallback
	}
	used := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		used[s] = struct{}{}
	}
	candidate := base
	for n := 2; ; n++ {
		if _, ok := used[candidate]; !ok {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
