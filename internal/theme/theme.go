// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme resolves the visual tokens of a contractor's public profile
// page. A theme is the contractor's saved template override merged field by
// field over the defaults of their primary trade, with hex colours also
// decomposed into "R G B" triples for CSS rules that need opacity.
//
// Resolution is a pure function of its inputs. It never fails and never
// consults the contractor's tier: tier gating applies to writes only, see
// CanEditTemplate.
package theme

import (
	"fmt"
	"strings"

	"houstonpro/internal/catalog"
	"houstonpro/internal/models"
)

// Fallback colours, used when a trade category is unknown or absent.
const (
	FallbackPrimary   = "#1e40af"
	FallbackSecondary = "#1e3a8a"
	FallbackAccent    = "#3b82f6"
)

// Defaults applied when no template override exists.
const (
	DefaultStyle      = models.StyleModern
	DefaultFont       = models.FontInter
	DefaultHeroLayout = models.HeroFullWidth
)

// Colors is a primary/secondary/accent colour triple.
type Colors struct {
	Primary   string
	Secondary string
	Accent    string
}

var fallbackColors = Colors{
	Primary:   FallbackPrimary,
	Secondary: FallbackSecondary,
	Accent:    FallbackAccent,
}

// TradeDefaults returns the default colours for a trade category slug. The
// boolean is false when the slug is empty or unknown, in which case the
// fallback triple is returned.
func TradeDefaults(slug string) (Colors, bool) {
	if slug == "" {
		return fallbackColors, false
	}
	t, ok := catalog.Trade(slug)
	if !ok {
		return fallbackColors, false
	}
	return Colors{Primary: t.Primary, Secondary: t.Secondary, Accent: t.Accent}, true
}

// ResolvedTheme is the fully populated set of tokens for one profile page.
// Every field is set after Resolve.
type ResolvedTheme struct {
	Primary      string
	Secondary    string
	Accent       string
	PrimaryRGB   string
	SecondaryRGB string
	AccentRGB    string

	Font       models.FontFamily
	HeroLayout models.HeroLayout
	Style      models.TemplateStyle

	ShowTestimonials bool
	ShowServiceAreas bool
	ShowCredentials  bool

	Tagline string // "" when the contractor has not set one
	CTAText string
}

// Resolve merges an optional template override over the defaults for the
// given trade category. A nil override yields the trade defaults with
// every section enabled.
func Resolve(tradeSlug string, o *models.TemplateOverride) ResolvedTheme {
	defaults, _ := TradeDefaults(tradeSlug)

	t := ResolvedTheme{
		Primary:          defaults.Primary,
		Secondary:        defaults.Secondary,
		Accent:           defaults.Accent,
		Font:             DefaultFont,
		HeroLayout:       DefaultHeroLayout,
		Style:            DefaultStyle,
		ShowTestimonials: true,
		ShowServiceAreas: true,
		ShowCredentials:  true,
		CTAText:          models.DefaultCTAText,
	}

	if o != nil {
		t.Primary = coalesce(o.PrimaryColor, t.Primary)
		t.Secondary = coalesce(o.SecondaryColor, t.Secondary)
		t.Accent = coalesce(o.AccentColor, t.Accent)

		if o.FontFamily != "" {
			t.Font = o.FontFamily
		}
		if o.HeroLayout != "" {
			t.HeroLayout = o.HeroLayout
		}
		if o.Style != "" {
			t.Style = o.Style
		}
		if o.CustomCTAText != "" {
			t.CTAText = o.CustomCTAText
		}
		if o.CustomTagline != nil {
			t.Tagline = *o.CustomTagline
		}

		t.ShowTestimonials = o.ShowTestimonials
		t.ShowServiceAreas = o.ShowServiceAreas
		t.ShowCredentials = o.ShowCredentials
	}

	t.PrimaryRGB = HexToRGB(t.Primary)
	t.SecondaryRGB = HexToRGB(t.Secondary)
	t.AccentRGB = HexToRGB(t.Accent)

	return t
}

func coalesce(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// Override converts a resolved theme back into a template override. The
// dashboard editor uses it to prefill the form; resolving the result for
// the same trade yields the same theme.
func (t ResolvedTheme) Override() *models.TemplateOverride {
	primary, secondary, accent := t.Primary, t.Secondary, t.Accent
	o := &models.TemplateOverride{
		Style:            t.Style,
		PrimaryColor:     &primary,
		SecondaryColor:   &secondary,
		AccentColor:      &accent,
		FontFamily:       t.Font,
		HeroLayout:       t.HeroLayout,
		ShowTestimonials: t.ShowTestimonials,
		ShowServiceAreas: t.ShowServiceAreas,
		ShowCredentials:  t.ShowCredentials,
		CustomCTAText:    t.CTAText,
	}
	if t.Tagline != "" {
		tagline := t.Tagline
		o.CustomTagline = &tagline
	}
	return o
}

// Declaration is one CSS custom property.
type Declaration struct {
	Property string
	Value    string
}

// Declarations returns the CSS custom properties injected on the profile
// wrapper element, in a fixed order.
func (t ResolvedTheme) Declarations() []Declaration {
	return []Declaration{
		{"--template-primary", t.Primary},
		{"--template-primary-rgb", t.PrimaryRGB},
		{"--template-secondary", t.Secondary},
		{"--template-secondary-rgb", t.SecondaryRGB},
		{"--template-accent", t.Accent},
		{"--template-accent-rgb", t.AccentRGB},
		{"--template-font", string(t.Font)},
	}
}

// CSS renders the declarations as a single style attribute value. Values
// are emitted verbatim; callers writing into HTML must go through
// html/template rather than this string.
func (t ResolvedTheme) CSS() string {
	var b strings.Builder
	for i, d := range t.Declarations() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", d.Property, d.Value)
	}
	return b.String()
}

// WrapperClass returns the class list of the profile wrapper element.
func (t ResolvedTheme) WrapperClass(tier models.Tier) string {
	tierClass := "is-free"
	if tier == models.TierPremium {
		tierClass = "is-premium"
	}
	return "template-wrapper template-" + string(t.Style) + " " + tierClass
}

// CanEditTemplate reports whether a contractor on the given tier may save
// template customisations.
func CanEditTemplate(tier models.Tier) bool {
	return tier == models.TierPremium
}
