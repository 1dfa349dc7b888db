// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"houstonpro/internal/models"
)

// Length limits for free-text override fields, in characters.
const (
	MaxTaglineLength = 120
	MaxCTALength     = 40
)

var (
	ErrInvalidColor  = errors.New("invalid colour")
	ErrInvalidStyle  = errors.New("invalid template style")
	ErrInvalidFont   = errors.New("invalid font family")
	ErrInvalidLayout = errors.New("invalid hero layout")
	ErrTooLong       = errors.New("value too long")
)

// ValidateOverride checks a template override before it is stored. Unset
// or empty colours are accepted because they resolve to the trade
// defaults; set colours must be "#rrggbb". Empty enum fields are accepted
// and are filled in by Normalize.
func ValidateOverride(o *models.TemplateOverride) error {
	if o == nil {
		return nil
	}

	colors := []struct {
		field string
		value *string
	}{
		{"primary colour", o.PrimaryColor},
		{"secondary colour", o.SecondaryColor},
		{"accent colour", o.AccentColor},
	}
	for _, c := range colors {
		if c.value == nil || *c.value == "" {
			continue
		}
		if !ValidHex(*c.value) {
			return fmt.Errorf("%w: %s %q", ErrInvalidColor, c.field, *c.value)
		}
	}

	if o.Style != "" && !o.Style.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStyle, o.Style)
	}
	if o.FontFamily != "" && !o.FontFamily.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFont, o.FontFamily)
	}
	if o.HeroLayout != "" && !o.HeroLayout.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLayout, o.HeroLayout)
	}

	if o.CustomTagline != nil && utf8.RuneCountInString(*o.CustomTagline) > MaxTaglineLength {
		return fmt.Errorf("%w: tagline exceeds %d characters", ErrTooLong, MaxTaglineLength)
	}
	if utf8.RuneCountInString(o.CustomCTAText) > MaxCTALength {
		return fmt.Errorf("%w: button text exceeds %d characters", ErrTooLong, MaxCTALength)
	}

	return nil
}

// Normalize fills empty enum fields and the CTA text with their defaults,
// trims free text, and clears empty optional strings so they are stored
// as NULL.
func Normalize(o *models.TemplateOverride) {
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFont
	}
	if o.HeroLayout == "" {
		o.HeroLayout = DefaultHeroLayout
	}

	o.CustomCTAText = strings.TrimSpace(o.CustomCTAText)
	if o.CustomCTAText == "" {
		o.CustomCTAText = models.DefaultCTAText
	}

	o.PrimaryColor = trimOptional(o.PrimaryColor)
	o.SecondaryColor = trimOptional(o.SecondaryColor)
	o.AccentColor = trimOptional(o.AccentColor)
	o.CustomTagline = trimOptional(o.CustomTagline)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
