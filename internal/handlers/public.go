// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"houstonpro/internal/cache"
	"houstonpro/internal/catalog"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/store"
	"houstonpro/internal/theme"
)

const (
	// featuredLimit is how many featured contractors the home page shows.
	featuredLimit = 6

	// profileReviewLimit caps the testimonials shown on a profile page.
	profileReviewLimit = 20

	// honeypotField is a form field hidden from people; bots fill it in.
	honeypotField = "company_website"
)

// Public groups handlers for the public directory: home, categories,
// search and the themed contractor profile pages. Profile pages are
// served from the Valkey page cache when possible and stored on miss.
type Public struct {
	renderer    *render.Renderer
	contractors *store.ContractorStore
	categories  *store.CategoryStore
	reviews     *store.ReviewStore
	gallery     *store.GalleryStore
	templates   *store.TemplateStore
	leads       *store.LeadStore
	pageCache   *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil, in
// which case every profile view is rendered fresh.
func NewPublic(renderer *render.Renderer, contractors *store.ContractorStore, categories *store.CategoryStore, reviews *store.ReviewStore, gallery *store.GalleryStore, templates *store.TemplateStore, leads *store.LeadStore, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:    renderer,
		contractors: contractors,
		categories:  categories,
		reviews:     reviews,
		gallery:     gallery,
		templates:   templates,
		leads:       leads,
		pageCache:   pageCache,
	}
}

// SearchForm holds the directory search inputs and the option lists the
// search form is rendered with.
type SearchForm struct {
	Query    string
	Category string
	Area     string
	Rating   string

	Categories []models.Category
	Areas      []string

	// Active is true when at least one filter was submitted.
	Active bool
}

// LeadForm holds a quote request as submitted on a profile page.
type LeadForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Errors  map[string]string
}

func (p *Public) searchForm(r *http.Request) (*SearchForm, store.SearchFilter) {
	q := r.URL.Query()
	f := &SearchForm{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Area:     strings.TrimSpace(q.Get("area")),
		Areas:    catalog.Areas(),
	}

	filter := store.SearchFilter{Query: f.Query, CategorySlug: f.Category, Area: f.Area}
	if v := strings.TrimSpace(q.Get("rating")); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil && rating > 0 && rating <= 5 {
			f.Rating = v
			filter.MinRating = rating
		}
	}
	f.Active = f.Query != "" || f.Category != "" || f.Area != "" || f.Rating != ""

	cats, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}
	f.Categories = cats
	return f, filter
}

// Home renders the directory home page.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := p.contractors.ListFeatured(featuredLimit)
	if err != nil {
		slog.Error("list featured contractors failed", "error", err)
	}
	search, _ := p.searchForm(r)

	p.renderer.Page(w, r, "public/home", &render.PageData{
		Description: "Find licensed, reviewed contractors across the Greater Houston area.",
		Data: map[string]any{
			"Search":     search,
			"Featured":   featured,
			"Categories": search.Categories,
			"Areas":      search.Areas,
		},
	})
}

// Categories renders the list of trade categories.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
		serverError(w, r, p.renderer)
		return
	}

	p.renderer.Page(w, r, "public/categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Categories": cats},
	})
}

// Category renders the contractors offering one trade.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "category")

	cat, err := p.categories.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find category failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}
	if cat == nil {
		notFound(w, r, p.renderer)
		return
	}

	items, err := p.contractors.Search(store.SearchFilter{CategorySlug: cat.Slug})
	if err != nil {
		slog.Error("list category contractors failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}

	p.renderer.Page(w, r, "public/category", &render.PageData{
		Title:       cat.Name + " in Houston",
		Description: cat.Description,
		Section:     "categories",
		Data: map[string]any{
			"Category":    cat,
			"Contractors": items,
		},
	})
}

// Contractors renders the full directory listing.
func (p *Public) Contractors(w http.ResponseWriter, r *http.Request) {
	items, err := p.contractors.List()
	if err != nil {
		slog.Error("list contractors failed", "error", err)
		serverError(w, r, p.renderer)
		return
	}
	search, _ := p.searchForm(r)

	p.renderer.Page(w, r, "public/contractors", &render.PageData{
		Title:   "Houston Contractors",
		Section: "contractors",
		Data: map[string]any{
			"Search":      search,
			"Contractors": items,
		},
	})
}

// Search renders directory search results.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	search, filter := p.searchForm(r)

	var items []models.Contractor
	if search.Active {
		var err error
		items, err = p.contractors.Search(filter)
		if err != nil {
			slog.Error("search contractors failed", "error", err, "query", search.Query)
			serverError(w, r, p.renderer)
			return
		}
	} else {
		var err error
		items, err = p.contractors.List()
		if err != nil {
			slog.Error("list contractors failed", "error", err)
		}
	}

	p.renderer.Page(w, r, "public/search", &render.PageData{
		Title:   "Search",
		Section: "search",
		Data: map[string]any{
			"Search":      search,
			"Contractors": items,
		},
	})
}

// Profile renders a contractor's themed profile page. Plain GETs are
// served from the page cache; requests with a query string (such as the
// ?sent=1 confirmation) are always rendered fresh and never cached.
func (p *Public) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	cacheable := r.URL.RawQuery == ""

	if cacheable {
		if cached, ok := p.pageCache.Get(ctx, slugParam); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	c, err := p.contractors.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find contractor failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}
	if c == nil {
		notFound(w, r, p.renderer)
		return
	}

	data, err := p.profileData(c, &LeadForm{Errors: map[string]string{}})
	if err != nil {
		slog.Error("load profile failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}

	if !cacheable {
		data.Data["LeadSent"] = r.URL.Query().Get("sent") == "1"
		p.renderer.Page(w, r, "public/profile", data)
		return
	}

	body, err := p.renderer.Bytes("public/profile", data)
	if err != nil {
		slog.Error("render profile failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}
	p.pageCache.Set(ctx, c.Slug, body)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// profileData loads everything the profile page shows besides the
// contractor itself. The queries are independent and run concurrently.
func (p *Public) profileData(c *models.Contractor, form *LeadForm) (*render.PageData, error) {
	var (
		reviews  []models.Review
		images   []models.GalleryImage
		override *models.TemplateOverride
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		reviews, err = p.reviews.ListByContractor(c.ID, profileReviewLimit)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = p.gallery.ListByContractor(c.ID)
		return err
	})
	g.Go(func() error {
		var err error
		override, err = p.templates.FindByContractorID(c.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	th := theme.Resolve(c.PrimaryCategorySlug(), override)
	tagline := th.Tagline
	if tagline == "" {
		tagline = c.DefaultTagline()
	}

	return &render.PageData{
		Title:       c.BusinessName,
		Description: tagline,
		Data: map[string]any{
			"Contractor":   c,
			"Theme":        th,
			"WrapperClass": th.WrapperClass(c.Tier),
			"Tagline":      tagline,
			"Reviews":      reviews,
			"Gallery":      images,
			"Form":         form,
			"LeadSent":     false,
		},
	}, nil
}

// LeadSubmit handles the quote request form on a profile page. Invalid
// submissions re-render the profile with field errors; valid ones create
// a lead and redirect to the confirmation view.
func (p *Public) LeadSubmit(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := r.ParseForm(); err != nil {
		renderError(w, r, p.renderer, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	c, err := p.contractors.FindBySlug(slugParam)
	if err != nil {
		slog.Error("find contractor failed", "error", err, "slug", slugParam)
		serverError(w, r, p.renderer)
		return
	}
	if c == nil {
		notFound(w, r, p.renderer)
		return
	}

	sentURL := "/contractors/" + c.Slug + "?sent=1#quote"

	// Bots get the same response as people so they learn nothing.
	if formValue(r, honeypotField) != "" {
		slog.Info("lead honeypot triggered", "contractor", c.Slug)
		http.Redirect(w, r, sentURL, http.StatusSeeOther)
		return
	}

	form := &LeadForm{
		Name:    formValue(r, "name"),
		Email:   formValue(r, "email"),
		Phone:   formValue(r, "phone"),
		Message: formValue(r, "message"),
	}
	if errs := validateLead(form); len(errs) > 0 {
		form.Errors = errs
		data, err := p.profileData(c, form)
		if err != nil {
			slog.Error("load profile failed", "error", err, "slug", slugParam)
			serverError(w, r, p.renderer)
			return
		}
		p.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "public/profile", data)
		return
	}

	lead, err := p.leads.Create(&models.Lead{
		ContractorID: c.ID,
		Name:         form.Name,
		Email:        optional(form.Email),
		Phone:        optional(form.Phone),
		Message:      optional(form.Message),
		Source:       models.LeadSourceForm,
	})
	if err != nil {
		slog.Error("create lead failed", "error", err, "contractor", c.Slug)
		serverError(w, r, p.renderer)
		return
	}

	slog.Info("lead created", "lead_id", lead.ID, "contractor", c.Slug)
	http.Redirect(w, r, sentURL, http.StatusSeeOther)
}

// NotFound renders the directory's 404 page for unmatched routes.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	notFound(w, r, p.renderer)
}

// TooManyRequests is the response for a rate-limited quote request.
func (p *Public) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, p.renderer, http.StatusTooManyRequests, "Too many requests",
		"You've sent several requests in a short time. Please wait a few minutes and try again.")
}
