// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"houstonpro/internal/cache"
	"houstonpro/internal/catalog"
	"houstonpro/internal/middleware"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/session"
	"houstonpro/internal/store"
)

const (
	overviewLeadLimit   = 5
	overviewReviewLimit = 5
	reviewListLimit     = 100
)

// Dashboard groups the contractor dashboard handlers. Every route is
// mounted behind RequireAuth, Require2FA and RequireContractor, so the
// session always names a contractor.
type Dashboard struct {
	renderer    *render.Renderer
	sessions    *session.Store
	users       *store.UserStore
	contractors *store.ContractorStore
	categories  *store.CategoryStore
	leads       *store.LeadStore
	reviews     *store.ReviewStore
	gallery     *store.GalleryStore
	templates   *store.TemplateStore
	objects     ObjectStore
	pageCache   *cache.PageCache
	baseURL     string
	siteName    string
}

// NewDashboard creates a new Dashboard handler group. objects and
// pageCache may be nil: gallery uploads are then disabled and profile
// pages are not cached.
func NewDashboard(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, contractors *store.ContractorStore, categories *store.CategoryStore, leads *store.LeadStore, reviews *store.ReviewStore, gallery *store.GalleryStore, templates *store.TemplateStore, objects ObjectStore, pageCache *cache.PageCache, baseURL, siteName string) *Dashboard {
	return &Dashboard{
		renderer:    renderer,
		sessions:    sessions,
		users:       users,
		contractors: contractors,
		categories:  categories,
		leads:       leads,
		reviews:     reviews,
		gallery:     gallery,
		templates:   templates,
		objects:     objects,
		pageCache:   pageCache,
		baseURL:     baseURL,
		siteName:    siteName,
	}
}

// current returns the session and the contractor it belongs to. When the
// contractor no longer exists the session is dropped and the user is sent
// back to the login page; ok is false and the response is written.
func (d *Dashboard) current(w http.ResponseWriter, r *http.Request) (*session.Data, *models.Contractor, bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.ContractorID == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, nil, false
	}

	c, err := d.contractors.FindByID(*sess.ContractorID)
	if err != nil {
		slog.Error("load dashboard contractor failed", "error", err, "contractor_id", *sess.ContractorID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}
	if c == nil {
		if err := d.sessions.Destroy(r.Context(), w, r); err != nil {
			slog.Warn("destroy stale session failed", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, nil, false
	}
	return sess, c, true
}

// page renders a dashboard page, showing any pending flash message.
func (d *Dashboard) page(w http.ResponseWriter, r *http.Request, status int, name string, pd *render.PageData) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		if msg := d.sessions.PopFlash(r.Context(), r, sess); msg != "" {
			pd.Flashes = append(pd.Flashes, render.Flash{Type: "success", Message: msg})
		}
	}
	d.renderer.PageStatus(w, r, status, name, pd)
}

// redirect stores a flash message and sends the user to target.
func (d *Dashboard) redirect(w http.ResponseWriter, r *http.Request, sess *session.Data, target, flash string) {
	if flash != "" {
		if err := d.sessions.SetFlash(r.Context(), r, sess, flash); err != nil {
			slog.Warn("set flash failed", "error", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// invalidate drops the cached public page of a contractor.
func (d *Dashboard) invalidate(r *http.Request, c *models.Contractor) {
	d.pageCache.Invalidate(r.Context(), c.Slug)
}

func (d *Dashboard) profileURL(c *models.Contractor) string {
	return d.baseURL + "/contractors/" + c.Slug
}

// Overview renders the dashboard landing page.
func (d *Dashboard) Overview(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}

	counts, err := d.leads.Counts(c.ID)
	if err != nil {
		slog.Error("count leads failed", "error", err, "contractor", c.Slug)
	}
	leads, err := d.leads.ListByContractor(c.ID, "", overviewLeadLimit)
	if err != nil {
		slog.Error("list recent leads failed", "error", err, "contractor", c.Slug)
	}
	reviews, err := d.reviews.ListByContractor(c.ID, overviewReviewLimit)
	if err != nil {
		slog.Error("list recent reviews failed", "error", err, "contractor", c.Slug)
	}

	d.page(w, r, http.StatusOK, "dashboard/overview", &render.PageData{
		Title:   "Overview",
		Section: "overview",
		Data: map[string]any{
			"Contractor": c,
			"Counts":     counts,
			"Leads":      leads,
			"Reviews":    reviews,
			"ProfileURL": d.profileURL(c),
		},
	})
}

// QRCode serves a PNG QR code linking to the contractor's public page.
func (d *Dashboard) QRCode(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(d.profileURL(c), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err, "contractor", c.Slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}

// --- Leads ---

func leadsURL(filter string) string {
	if models.LeadStatus(filter).Valid() {
		return "/dashboard/leads?status=" + filter
	}
	return "/dashboard/leads"
}

// Leads renders the lead inbox, optionally filtered by status.
func (d *Dashboard) Leads(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if !models.LeadStatus(status).Valid() {
		status = ""
	}

	leads, err := d.leads.ListByContractor(c.ID, models.LeadStatus(status), 0)
	if err != nil {
		slog.Error("list leads failed", "error", err, "contractor", c.Slug)
	}

	d.page(w, r, http.StatusOK, "dashboard/leads", &render.PageData{
		Title:   "Leads",
		Section: "leads",
		Data: map[string]any{
			"Status":   status,
			"Statuses": models.LeadStatuses,
			"Leads":    leads,
		},
	})
}

// LeadStatus updates the status of one of the contractor's leads.
func (d *Dashboard) LeadStatus(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}

	leadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, d.renderer)
		return
	}
	status := models.LeadStatus(formValue(r, "status"))
	if !status.Valid() {
		http.Error(w, "Unknown lead status", http.StatusBadRequest)
		return
	}

	err = d.leads.UpdateStatus(c.ID, leadID, status)
	if errors.Is(err, store.ErrNotFound) {
		notFound(w, r, d.renderer)
		return
	}
	if err != nil {
		slog.Error("update lead status failed", "error", err, "lead_id", leadID)
		serverError(w, r, d.renderer)
		return
	}

	d.redirect(w, r, sess, leadsURL(formValue(r, "filter")), "Lead marked as "+string(status)+".")
}

// --- Reviews ---

// Reviews renders the contractor's reviews with response forms.
func (d *Dashboard) Reviews(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}

	reviews, err := d.reviews.ListByContractor(c.ID, reviewListLimit)
	if err != nil {
		slog.Error("list reviews failed", "error", err, "contractor", c.Slug)
	}

	d.page(w, r, http.StatusOK, "dashboard/reviews", &render.PageData{
		Title:   "Reviews",
		Section: "reviews",
		Data:    map[string]any{"Reviews": reviews},
	})
}

// ReviewRespond posts, replaces or (when empty) removes the contractor's
// public response to a review.
func (d *Dashboard) ReviewRespond(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, d.renderer)
		return
	}
	response := formValue(r, "response")
	if utf8.RuneCountInString(response) > maxResponseLen {
		d.redirect(w, r, sess, "/dashboard/reviews", "Responses are limited to 2,000 characters.")
		return
	}

	err = d.reviews.Respond(c.ID, reviewID, response)
	if errors.Is(err, store.ErrNotFound) {
		notFound(w, r, d.renderer)
		return
	}
	if err != nil {
		slog.Error("respond to review failed", "error", err, "review_id", reviewID)
		serverError(w, r, d.renderer)
		return
	}

	d.invalidate(r, c)
	msg := "Response posted."
	if response == "" {
		msg = "Response removed."
	}
	d.redirect(w, r, sess, "/dashboard/reviews", msg)
}

// --- Business profile ---

// ProfileForm holds the editable business profile fields as strings, so
// invalid input can be shown back unchanged.
type ProfileForm struct {
	BusinessName    string
	Phone           string
	Email           string
	Website         string
	Address         string
	City            string
	ZipCode         string
	LicenseNumber   string
	YearsInBusiness string
	Description     string
	CategoryIDs     []uuid.UUID
	ServiceArea     []string
	Errors          map[string]string
}

func profileFormFrom(c *models.Contractor) *ProfileForm {
	f := &ProfileForm{
		BusinessName: c.BusinessName,
		Phone:        c.Phone,
		Email:        c.Email,
		Website:      c.Website,
		Address:      c.Address,
		City:         c.City,
		ZipCode:      c.ZipCode,
		Description:  c.Description,
		ServiceArea:  c.ServiceArea,
		Errors:       map[string]string{},
	}
	if c.LicenseNumber != nil {
		f.LicenseNumber = *c.LicenseNumber
	}
	if c.YearsInBusiness != nil {
		f.YearsInBusiness = strconv.Itoa(*c.YearsInBusiness)
	}
	for _, cat := range c.Categories {
		f.CategoryIDs = append(f.CategoryIDs, cat.ID)
	}
	return f
}

func (d *Dashboard) renderProfile(w http.ResponseWriter, r *http.Request, status int, form *ProfileForm) {
	cats, err := d.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}
	d.page(w, r, status, "dashboard/profile", &render.PageData{
		Title:   "Business Profile",
		Section: "profile",
		Data: map[string]any{
			"Form":       form,
			"Categories": cats,
			"Areas":      catalog.Areas(),
		},
	})
}

// Profile renders the business profile editor.
func (d *Dashboard) Profile(w http.ResponseWriter, r *http.Request) {
	_, c, ok := d.current(w, r)
	if !ok {
		return
	}
	d.renderProfile(w, r, http.StatusOK, profileFormFrom(c))
}

// ProfileSave validates and saves the business profile. The first checked
// category becomes the main trade, which drives the page's default colours.
func (d *Dashboard) ProfileSave(w http.ResponseWriter, r *http.Request) {
	sess, c, ok := d.current(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := &ProfileForm{
		BusinessName:    formValue(r, "business_name"),
		Phone:           formValue(r, "phone"),
		Email:           formValue(r, "email"),
		Website:         formValue(r, "website"),
		Address:         formValue(r, "address"),
		City:            formValue(r, "city"),
		ZipCode:         formValue(r, "zip_code"),
		LicenseNumber:   formValue(r, "license_number"),
		YearsInBusiness: formValue(r, "years_in_business"),
		Description:     formValue(r, "description"),
		ServiceArea:     knownAreas(formValues(r, "service_area")),
	}

	ids, idErr := parseIDs(formValues(r, "categories"))
	if idErr == nil {
		var err error
		if ids, err = knownCategories(d.categories, ids); err != nil {
			slog.Error("check categories failed", "error", err)
			serverError(w, r, d.renderer)
			return
		}
	}
	form.CategoryIDs = ids

	years, errs := validateProfile(form)
	if idErr != nil {
		errs.add("categories", "Please pick services from the list.")
	}
	if len(errs) > 0 {
		form.Errors = errs
		d.renderProfile(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	err := d.contractors.UpdateProfile(c.ID, store.ProfileUpdate{
		BusinessName:    form.BusinessName,
		Description:     form.Description,
		Phone:           form.Phone,
		Email:           form.Email,
		Website:         form.Website,
		Address:         form.Address,
		City:            form.City,
		ZipCode:         form.ZipCode,
		ServiceArea:     form.ServiceArea,
		LicenseNumber:   optional(form.LicenseNumber),
		YearsInBusiness: years,
		CategoryIDs:     form.CategoryIDs,
	})
	if err != nil {
		slog.Error("update profile failed", "error", err, "contractor", c.Slug)
		form.Errors = map[string]string{"form": "Failed to save your profile. Please try again."}
		d.renderProfile(w, r, http.StatusInternalServerError, form)
		return
	}

	d.invalidate(r, c)
	slog.Info("contractor profile updated", "contractor", c.Slug)
	d.redirect(w, r, sess, "/dashboard/profile", "Profile saved.")
}
