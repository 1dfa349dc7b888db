// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateStyle is the overall visual treatment of a profile page.
type TemplateStyle string

const (
	StyleModern  TemplateStyle = "modern"
	StyleClassic TemplateStyle = "classic"
	StyleBold    TemplateStyle = "bold"
	StyleMinimal TemplateStyle = "minimal"
)

// Valid reports whether s is a known template style.
func (s TemplateStyle) Valid() bool {
	switch s {
	case StyleModern, StyleClassic, StyleBold, StyleMinimal:
		return true
	}
	return false
}

// HeroLayout selects the hero block variant of a profile page.
type HeroLayout string

const (
	HeroFullWidth HeroLayout = "full-width"
	HeroSplit     HeroLayout = "split"
	HeroMinimal   HeroLayout = "minimal"
)

// Valid reports whether h is a known hero layout.
func (h HeroLayout) Valid() bool {
	switch h {
	case HeroFullWidth, HeroSplit, HeroMinimal:
		return true
	}
	return false
}

// FontFamily is one of the web fonts a profile page may use.
type FontFamily string

const (
	FontInter      FontFamily = "Inter"
	FontRoboto     FontFamily = "Roboto"
	FontPoppins    FontFamily = "Poppins"
	FontPlayfair   FontFamily = "Playfair Display"
	FontMontserrat FontFamily = "Montserrat"
)

// Valid reports whether f is a supported font family.
func (f FontFamily) Valid() bool {
	switch f {
	case FontInter, FontRoboto, FontPoppins, FontPlayfair, FontMontserrat:
		return true
	}
	return false
}

// DefaultCTAText is the call-to-action label used when none is saved.
const DefaultCTAText = "Get a Free Quote"

// TemplateOverride is a contractor's saved profile customisation. There is
// at most one per contractor; it is created on first save and updated in
// place afterwards.
//
// Colours and the tagline are nullable so that "never set" survives a
// round trip through the database. Empty and nil colours both fall back to
// the trade defaults when the theme is resolved.
type TemplateOverride struct {
	ID               uuid.UUID     `json:"id"`
	ContractorID     uuid.UUID     `json:"contractor_id"`
	Style            TemplateStyle `json:"template_style"`
	PrimaryColor     *string       `json:"primary_color,omitempty"`
	SecondaryColor   *string       `json:"secondary_color,omitempty"`
	AccentColor      *string       `json:"accent_color,omitempty"`
	FontFamily       FontFamily    `json:"font_family"`
	HeroLayout       HeroLayout    `json:"hero_layout"`
	ShowTestimonials bool          `json:"show_testimonials"`
	ShowServiceAreas bool          `json:"show_service_areas"`
	ShowCredentials  bool          `json:"show_credentials"`
	CustomTagline    *string       `json:"custom_tagline,omitempty"`
	CustomCTAText    string        `json:"custom_cta_text"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
