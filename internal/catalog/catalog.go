// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the static directory data: trade categories, the
// Houston service areas, per-trade default theme colours, and the option
// lists shown in the template editor. The data is decoded once from an
// embedded YAML document and is read-only afterwards.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Category is a trade category seeded into the database at startup.
type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
}

// TradeTheme is the default colour triple for a trade category.
type TradeTheme struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Accent    string `yaml:"accent"`
	Name      string `yaml:"name"` // Display name, e.g. "Electrician Pro"
}

// Option is a selectable value in the template editor.
type Option struct {
	Value       string `yaml:"value"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Catalog is the decoded form of catalog.yaml.
type Catalog struct {
	Categories  []Category            `yaml:"categories"`
	Areas       []string              `yaml:"areas"`
	Trades      map[string]TradeTheme `yaml:"trades"`
	Styles      []Option              `yaml:"styles"`
	HeroLayouts []Option              `yaml:"hero_layouts"`
	Fonts       []Option              `yaml:"fonts"`
}

// std is the process-wide catalog, decoded at package init.
var std = mustParse(catalogYAML)

// Parse decodes a catalog document and checks that every category has a
// trade theme entry with all three colours set.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Slug == "" || cat.Name == "" {
			return nil, fmt.Errorf("catalog category %q: name and slug are required", cat.Name)
		}
		if seen[cat.Slug] {
			return nil, fmt.Errorf("catalog category %q: duplicate slug", cat.Slug)
		}
		seen[cat.Slug] = true

		tt, ok := c.Trades[cat.Slug]
		if !ok {
			return nil, fmt.Errorf("catalog category %q: no trade theme", cat.Slug)
		}
		if tt.Primary == "" || tt.Secondary == "" || tt.Accent == "" {
			return nil, fmt.Errorf("catalog trade %q: all three colours are required", cat.Slug)
		}
	}

	return &c, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns the trade categories in display order.
func Categories() []Category {
	return append([]Category(nil), std.Categories...)
}

// CategoryBySlug returns the category with the given slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range std.Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// Areas returns the Houston service areas in display order.
func Areas() []string {
	return append([]string(nil), std.Areas...)
}

// IsArea reports whether name is one of the known service areas.
func IsArea(name string) bool {
	for _, a := range std.Areas {
		if a == name {
			return true
		}
	}
	return false
}

// Trade returns the default theme for a trade category slug.
func Trade(slug string) (TradeTheme, bool) {
	t, ok := std.Trades[slug]
	return t, ok
}

// Styles returns the template style options.
func Styles() []Option { return append([]Option(nil), std.Styles...) }

// HeroLayouts returns the hero layout options.
func HeroLayouts() []Option { return append([]Option(nil), std.HeroLayouts...) }

// Fonts returns the font family options.
func Fonts() []Option { return append([]Option(nil), std.Fonts...) }
