// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tier is the contractor's access tier. Only premium contractors may save
// template customisations; billing happens outside the application.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// Contractor is a business listed in the directory.
type Contractor struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	BusinessName      string    `json:"business_name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Website           string    `json:"website"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	ZipCode           string    `json:"zip_code"`
	ServiceArea       []string  `json:"service_area"`
	LicenseNumber     *string   `json:"license_number,omitempty"`
	InsuranceVerified bool      `json:"insurance_verified"`
	YearsInBusiness   *int      `json:"years_in_business,omitempty"`
	LogoURL           *string   `json:"logo_url,omitempty"`
	CoverImageURL     *string   `json:"cover_image_url,omitempty"`
	IsFeatured        bool      `json:"is_featured"`
	IsVerified        bool      `json:"is_verified"`
	AvgRating         float64   `json:"avg_rating"`
	ReviewCount       int       `json:"review_count"`
	Tier              Tier      `json:"tier"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Virtual field populated by store methods, in assignment order.
	Categories []Category `json:"categories,omitempty"`
}

// IsPremium returns true for premium-tier contractors.
func (c *Contractor) IsPremium() bool {
	return c.Tier == TierPremium
}

// PrimaryCategorySlug returns the slug of the first assigned category, or
// "" when the contractor has none.
func (c *Contractor) PrimaryCategorySlug() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0].Slug
}

// HasCategory reports whether the contractor is assigned the given category.
func (c *Contractor) HasCategory(id uuid.UUID) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// ServesArea reports whether area is in the contractor's service area list.
func (c *Contractor) ServesArea(area string) bool {
	for _, a := range c.ServiceArea {
		if a == area {
			return true
		}
	}
	return false
}

// DefaultTagline is shown in the hero when no custom tagline is saved: the
// first sentence of the description, or a generic line naming the city.
func (c *Contractor) DefaultTagline() string {
	desc := strings.TrimSpace(c.Description)
	if desc != "" {
		if i := strings.IndexAny(desc, ".!?\n"); i > 0 {
			return strings.TrimSpace(desc[:i+1])
		}
		return desc
	}
	city := c.City
	if city == "" {
		city = "Houston"
	}
	return fmt.Sprintf("Serving %s, TX", city)
}

// RatingLabel formats the average rating with one decimal, e.g. "4.8".
func (c *Contractor) RatingLabel() string {
	return fmt.Sprintf("%.1f", c.AvgRating)
}
