// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"houstonpro/internal/models"
	"houstonpro/internal/theme"
)

// TemplateStore persists contractor template overrides. It is the write
// boundary for the tier gate: Save refuses contractors whose tier may not
// customise templates.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, contractor_id, template_style, primary_color, secondary_color,
	accent_color, font_family, hero_layout, show_testimonials, show_service_areas,
	show_credentials, custom_tagline, custom_cta_text, created_at, updated_at`

func scanTemplate(scanner rowScanner) (*models.TemplateOverride, error) {
	var o models.TemplateOverride
	err := scanner.Scan(
		&o.ID, &o.ContractorID, &o.Style, &o.PrimaryColor, &o.SecondaryColor,
		&o.AccentColor, &o.FontFamily, &o.HeroLayout, &o.ShowTestimonials, &o.ShowServiceAreas,
		&o.ShowCredentials, &o.CustomTagline, &o.CustomCTAText, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByContractorID returns the contractor's saved override. Returns nil
// if the contractor has never saved one. Reads are not tier-gated.
func (s *TemplateStore) FindByContractorID(contractorID uuid.UUID) (*models.TemplateOverride, error) {
	row := s.db.QueryRow(`SELECT `+templateColumns+` FROM contractor_templates WHERE contractor_id = $1`, contractorID)
	o, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template override: %w", err)
	}
	return o, nil
}

// Save creates or updates the override for o.ContractorID. It returns
// ErrTemplateLocked, writing nothing, if the contractor's tier does not
// allow customisation, and a theme validation error if a field is
// malformed. The contractor row is locked for the duration so a
// concurrent downgrade cannot slip between the check and the write.
func (s *TemplateStore) Save(o *models.TemplateOverride) (*models.TemplateOverride, error) {
	theme.Normalize(o)
	if err := theme.ValidateOverride(o); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("save template begin: %w", err)
	}
	defer tx.Rollback()

	var tier models.Tier
	err = tx.QueryRow(`SELECT tier FROM contractors WHERE id = $1 FOR UPDATE`, o.ContractorID).Scan(&tier)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save template check tier: %w", err)
	}
	if !theme.CanEditTemplate(tier) {
		return nil, ErrTemplateLocked
	}

	row := tx.QueryRow(`
		INSERT INTO contractor_templates (contractor_id, template_style, primary_color, secondary_color,
			accent_color, font_family, hero_layout, show_testimonials, show_service_areas,
			show_credentials, custom_tagline, custom_cta_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (contractor_id) DO UPDATE SET
			template_style = EXCLUDED.template_style,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			accent_color = EXCLUDED.accent_color,
			font_family = EXCLUDED.font_family,
			hero_layout = EXCLUDED.hero_layout,
			show_testimonials = EXCLUDED.show_testimonials,
			show_service_areas = EXCLUDED.show_service_areas,
			show_credentials = EXCLUDED.show_credentials,
			custom_tagline = EXCLUDED.custom_tagline,
			custom_cta_text = EXCLUDED.custom_cta_text,
			updated_at = NOW()
		RETURNING `+templateColumns,
		o.ContractorID, o.Style, o.PrimaryColor, o.SecondaryColor,
		o.AccentColor, o.FontFamily, o.HeroLayout, o.ShowTestimonials, o.ShowServiceAreas,
		o.ShowCredentials, o.CustomTagline, o.CustomCTAText,
	)
	saved, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save template commit: %w", err)
	}
	return saved, nil
}
