// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"houstonpro/internal/models"
	"houstonpro/internal/theme"
)

func strPtr(s string) *string { return &s }

func TestTemplateStoreFreeTierLocked(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	c := testContractor(t, db, models.TierFree, "electrical")

	_, err := s.Save(&models.TemplateOverride{
		ContractorID: c.ID,
		PrimaryColor: strPtr("#ff0000"),
	})
	if !errors.Is(err, ErrTemplateLocked) {
		t.Fatalf("Save on free tier: got %v, want ErrTemplateLocked", err)
	}

	got, err := s.FindByContractorID(c.ID)
	if err != nil {
		t.Fatalf("FindByContractorID: %v", err)
	}
	if got != nil {
		t.Error("locked save must not write a row")
	}
}

func TestTemplateStoreSaveAndUpdate(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	c := testContractor(t, db, models.TierPremium, "roofing")

	none, err := s.FindByContractorID(c.ID)
	if err != nil {
		t.Fatalf("FindByContractorID: %v", err)
	}
	if none != nil {
		t.Fatal("expected no override before first save")
	}

	first, err := s.Save(&models.TemplateOverride{
		ContractorID:     c.ID,
		PrimaryColor:     strPtr("#ff0000"),
		FontFamily:       models.FontPoppins,
		ShowTestimonials: true,
	})
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if first.Style != models.StyleModern || first.HeroLayout != models.HeroFullWidth {
		t.Errorf("empty enums should be stored as defaults: style=%s layout=%s", first.Style, first.HeroLayout)
	}
	if first.CustomCTAText != models.DefaultCTAText {
		t.Errorf("cta: got %q", first.CustomCTAText)
	}
	if first.SecondaryColor != nil {
		t.Errorf("unset colour should stay NULL, got %q", *first.SecondaryColor)
	}

	second, err := s.Save(&models.TemplateOverride{
		ContractorID:  c.ID,
		Style:         models.StyleBold,
		HeroLayout:    models.HeroSplit,
		CustomTagline: strPtr("Storm damage experts"),
		CustomCTAText: "Book Inspection",
	})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("update should keep the row: got %s, want %s", second.ID, first.ID)
	}
	if second.PrimaryColor != nil {
		t.Error("second save replaces every field, primary should be cleared")
	}

	got, _ := s.FindByContractorID(c.ID)
	th := theme.Resolve("roofing", got)
	if th.Primary != "#dc2626" {
		t.Errorf("cleared primary should fall back to roofing default, got %s", th.Primary)
	}
	if th.Tagline != "Storm damage experts" || th.CTAText != "Book Inspection" {
		t.Errorf("tagline/cta: got %q / %q", th.Tagline, th.CTAText)
	}
	if th.ShowTestimonials {
		t.Error("show_testimonials false should be stored as false")
	}
}

func TestTemplateStoreRejectsInvalid(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	c := testContractor(t, db, models.TierPremium, "plumbing")

	_, err := s.Save(&models.TemplateOverride{ContractorID: c.ID, AccentColor: strPtr("red")})
	if !errors.Is(err, theme.ErrInvalidColor) {
		t.Errorf("got %v, want ErrInvalidColor", err)
	}

	_, err = s.Save(&models.TemplateOverride{ContractorID: c.ID, FontFamily: "Papyrus"})
	if !errors.Is(err, theme.ErrInvalidFont) {
		t.Errorf("got %v, want ErrInvalidFont", err)
	}
}

func TestTemplateStoreDowngradeKeepsOverride(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	cs := NewContractorStore(db)
	c := testContractor(t, db, models.TierPremium, "hvac")

	if _, err := s.Save(&models.TemplateOverride{ContractorID: c.ID, PrimaryColor: strPtr("#123456")}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cs.SetTier(c.Slug, models.TierFree); err != nil {
		t.Fatalf("SetTier: %v", err)
	}

	got, err := s.FindByContractorID(c.ID)
	if err != nil || got == nil {
		t.Fatalf("override should survive downgrade: %v", err)
	}
	if *got.PrimaryColor != "#123456" {
		t.Errorf("primary: got %s", *got.PrimaryColor)
	}

	_, err = s.Save(&models.TemplateOverride{ContractorID: c.ID})
	if !errors.Is(err, ErrTemplateLocked) {
		t.Errorf("save after downgrade: got %v, want ErrTemplateLocked", err)
	}
}

func TestTemplateStoreUnknownContractor(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)

	_, err := s.Save(&models.TemplateOverride{ContractorID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
