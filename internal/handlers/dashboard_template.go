package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"houstonpro/internal/catalog"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/store"
	"houstonpro/internal/theme"
)

const (
	msgTemplateLocked     = "Upgrade to Premium to save template settings."
	msgTemplateSaveFailed = "Failed to save template settings."
)

// tradeName returns the display name of the contractor's main trade theme.
func tradeName(c *models.Contractor) string {
	if t, ok := catalog.Trade(c.PrimaryCategorySlug()); ok {
		return t.Name
	}
	return "General Pro"
}

// renderTemplate renders the page design editor for form. The preview is
// resolved from the form itself so unsaved input is shown as submitted.
func (d *Dashboard) renderTemplate(w http.ResponseWriter, r *http.Request, status int, c *models.Contractor, form *models.TemplateOverride, errMsg string) {
	trade := c.PrimaryCategorySlug()
	th := theme.Resolve(trade, form)
	colors, _ := theme.TradeDefaults(trade)

	d.page(w, r, status, "dashboard/template", &render.PageData{
		Title:   "Page Design",
		Section: "template",
		Data: map[string]any{
			"Theme":          th,
			"Form":           form,
			"CanEdit":        theme.CanEditTemplate(c.Tier),
			"Error":          errMsg,
			"Styles":         catalog.Styles(),
			"Fonts":          catalog.Fonts(),
			"Layouts":        catalog.HeroLayouts(),
			"TradeName":      tradeName(c),
			"TradeColors":    colors,
			"WrapperClass":   th.WrapperClass(c.Tier),
			"BusinessName":   c.BusinessName,
			"DefaultTagline": c.DefaultTagline(),
			"MaxTagline":     theme.MaxTaglineLength,
			"MaxCTA":         theme.MaxCTALength,
		},
	})
}

// Template renders the page design editor, prefilled with the resolved
// theme so every field shows the value the public page uses.
func (d *Dashboard) Template(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}

	override, err := d.templates.FindByContractorID(c.ID)
	if err != nil {
		slog.Error("find template override failed", "error", err, "contractor", c.Slug)
	}
	form := theme.Resolve(c.PrimaryCategorySlug(), override).Override()

	d.renderTemplate(w, r, http.StatusOK, c, form, "")
}

// templateFromForm builds an override from the editor form. A colour equal
// to the trade default is stored unset so it keeps following the trade.
func templateFromForm(r *http.Request, c *models.Contractor) *models.TemplateOverride {
	defaults, _ := theme.TradeDefaults(c.PrimaryCategorySlug())
	color := func(field, trade string) *string {
		v := formValue(r, field)
		if v == "" || strings.EqualFold(v, trade) {
			return nil
		}
		v = strings.ToLower(v)
		return &v
	}

	return &models.TemplateOverride{
		ContractorID:     c.ID,
		Style:            models.TemplateStyle(formValue(r, "style")),
		PrimaryColor:     color("primary_color", defaults.Primary),
		SecondaryColor:   color("secondary_color", defaults.Secondary),
		AccentColor:      color("accent_color", defaults.Accent),
		FontFamily:       models.FontFamily(formValue(r, "font_family")),
		HeroLayout:       models.HeroLayout(formValue(r, "hero_layout")),
		ShowTestimonials: r.FormValue("show_testimonials") == "1",
		ShowServiceAreas: r.FormValue("show_service_areas") == "1",
		ShowCredentials:  r.FormValue("show_credentials") == "1",
		CustomTagline:    optional(formValue(r, "custom_tagline")),
		CustomCTAText:    formValue(r, "custom_cta_text"),
	}
}

// TemplateSave validates and stores the page design. Free-tier contractors
// get 403 with the upgrade message and nothing is written.
func (d *Dashboard) TemplateSave(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}

	form := templateFromForm(r, c)
	if !theme.CanEditTemplate(c.Tier) {
		d.renderLocked(w, r, c)
		return
	}
	if err := theme.ValidateOverride(form); err != nil {
		d.renderTemplate(w, r, http.StatusUnprocessableEntity, c, form, themeErrorMessage(err))
		return
	}

	if !d.saveTemplate(w, r, c, form) {
		return
	}
	d.redirect(w, r, sess, "/dashboard/template", "Page design saved.")
}

// TemplateTradeDefaults clears the custom colours so the page follows the
// main trade's palette again. Other design settings are kept.
func (d *Dashboard) TemplateTradeDefaults(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}
	if !theme.CanEditTemplate(c.Tier) {
		d.renderLocked(w, r, c)
		return
	}

	override, err := d.templates.FindByContractorID(c.ID)
	if err != nil {
		slog.Error("find template override failed", "error", err, "contractor", c.Slug)
		d.renderTemplate(w, r, http.StatusInternalServerError, c,
			theme.Resolve(c.PrimaryCategorySlug(), nil).Override(), msgTemplateSaveFailed)
		return
	}
	if override == nil {
		override = theme.Resolve(c.PrimaryCategorySlug(), nil).Override()
		override.ContractorID = c.ID
	}
	override.PrimaryColor = nil
	override.SecondaryColor = nil
	override.AccentColor = nil

	if !d.saveTemplate(w, r, c, override) {
		return
	}
	d.redirect(w, r, sess, "/dashboard/template", "Colours reset to "+tradeName(c)+" defaults.")
}

// saveTemplate stores o and invalidates the cached public page. On failure
// the editor is re-rendered and false is returned.
func (d *Dashboard) saveTemplate(w http.ResponseWriter, r *http.Request, c *models.Contractor, o *models.TemplateOverride) bool {
	_, err := d.templates.Save(o)
	switch {
	case errors.Is(err, store.ErrTemplateLocked):
		// The tier changed between loading the contractor and saving.
		d.renderLocked(w, r, c)
		return false
	case err != nil && isThemeValidation(err):
		d.renderTemplate(w, r, http.StatusUnprocessableEntity, c, o, themeErrorMessage(err))
		return false
	case err != nil:
		slog.Error("save template failed", "error", err, "contractor", c.Slug)
		d.renderTemplate(w, r, http.StatusInternalServerError, c, o, msgTemplateSaveFailed)
		return false
	}

	d.invalidate(r, c)
	slog.Info("template saved", "contractor", c.Slug, "style", o.Style)
	return true
}

// renderLocked re-renders the editor with the stored settings and 403.
// The template shows the upgrade banner for free-tier contractors; the
// error line covers a tier that changed after the contractor was loaded.
func (d *Dashboard) renderLocked(w http.ResponseWriter, r *http.Request, c *models.Contractor) {
	override, err := d.templates.FindByContractorID(c.ID)
	if err != nil {
		slog.Error("find template override failed", "error", err, "contractor", c.Slug)
	}
	form := theme.Resolve(c.PrimaryCategorySlug(), override).Override()

	msg := ""
	if theme.CanEditTemplate(c.Tier) {
		msg = msgTemplateLocked
	}
	d.renderTemplate(w, r, http.StatusForbidden, c, form, msg)
}
