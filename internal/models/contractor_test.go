package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestContractorPrimaryCategorySlug(t *testing.T) {
	c := &Contractor{}
	if got := c.PrimaryCategorySlug(); got != "" {
		t.Errorf("no categories: got %q, want empty", got)
	}

	c.Categories = []Category{{Slug: "electrical"}, {Slug: "hvac"}}
	if got := c.PrimaryCategorySlug(); got != "electrical" {
		t.Errorf("got %q, want electrical", got)
	}
}

func TestContractorHasCategory(t *testing.T) {
	id := uuid.New()
	c := &Contractor{Categories: []Category{{ID: id}}}
	if !c.HasCategory(id) {
		t.Error("expected assigned category to be found")
	}
	if c.HasCategory(uuid.New()) {
		t.Error("unassigned category should not be found")
	}
}

func TestContractorServesArea(t *testing.T) {
	c := &Contractor{ServiceArea: []string{"Katy", "Cypress"}}
	if !c.ServesArea("Katy") {
		t.Error("expected Katy")
	}
	if c.ServesArea("Conroe") {
		t.Error("did not expect Conroe")
	}
}

func TestContractorDefaultTagline(t *testing.T) {
	tests := []struct {
		name        string
		description string
		city        string
		want        string
	}{
		{
			name:        "first sentence",
			description: "Family-owned since 1998. We do it all.",
			want:        "Family-owned since 1998.",
		},
		{
			name:        "exclamation",
			description: "Fast service! Call today",
			want:        "Fast service!",
		},
		{
			name:        "first line",
			description: "Licensed plumbers\nAvailable 24/7",
			want:        "Licensed plumbers",
		},
		{
			name:        "single sentence without terminator",
			description: "  Roof repair specialists  ",
			want:        "Roof repair specialists",
		},
		{
			name: "no description uses city",
			city: "Katy",
			want: "Serving Katy, TX",
		},
		{
			name: "no description and no city",
			want: "Serving Houston, TX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contractor{Description: tt.description, City: tt.city}
			if got := c.DefaultTagline(); got != tt.want {
				t.Errorf("DefaultTagline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTierValid(t *testing.T) {
	if !TierFree.Valid() || !TierPremium.Valid() {
		t.Error("free and premium must be valid")
	}
	if Tier("gold").Valid() {
		t.Error("gold is not a tier")
	}
	if (&Contractor{Tier: TierFree}).IsPremium() {
		t.Error("free contractor reported as premium")
	}
}

func TestRatingLabel(t *testing.T) {
	c := &Contractor{AvgRating: 4.76}
	if got := c.RatingLabel(); got != "4.8" {
		t.Errorf("RatingLabel() = %q, want 4.8", got)
	}
}
