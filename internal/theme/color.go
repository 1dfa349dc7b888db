// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"encoding/hex"
	"strconv"
	"strings"
)

// FallbackRGB is returned by HexToRGB for input it cannot parse. It is the
// decomposition of FallbackPrimary.
const FallbackRGB = "30 64 175"

// HexToRGB converts "#rrggbb" or "rrggbb" (any case) into a
// space-separated decimal triple such as "30 64 175". Anything else,
// including the three-digit shorthand, yields FallbackRGB.
func HexToRGB(s string) string {
	b, ok := decodeHex(strings.TrimPrefix(s, "#"))
	if !ok {
		return FallbackRGB
	}
	return strconv.Itoa(int(b[0])) + " " + strconv.Itoa(int(b[1])) + " " + strconv.Itoa(int(b[2]))
}

// ValidHex reports whether s is a "#rrggbb" colour. The leading '#' is
// required here since the value is written into CSS verbatim.
func ValidHex(s string) bool {
	rest, found := strings.CutPrefix(s, "#")
	if !found {
		return false
	}
	_, ok := decodeHex(rest)
	return ok
}

func decodeHex(s string) ([]byte, bool) {
	if len(s) != 6 {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}
