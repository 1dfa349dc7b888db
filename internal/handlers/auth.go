package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"houstonpro/internal/catalog"
	"houstonpro/internal/middleware"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/session"
	"houstonpro/internal/store"
)

// Auth groups the contractor login, two-factor and registration handlers.
type Auth struct {
	renderer    *render.Renderer
	sessions    *session.Store
	users       *store.UserStore
	contractors *store.ContractorStore
	categories  *store.CategoryStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, contractors *store.ContractorStore, categories *store.CategoryStore) *Auth {
	return &Auth{
		renderer:    renderer,
		sessions:    sessions,
		users:       users,
		contractors: contractors,
		categories:  categories,
	}
}

// RegisterForm holds the contractor sign-up form. The password is never
// kept here so it is not echoed back on validation errors.
type RegisterForm struct {
	FullName     string
	Email        string
	BusinessName string
	Phone        string
	ZipCode      string
	Description  string
	CategoryIDs  []uuid.UUID
	ServiceArea  []string
	Errors       map[string]string
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already logged in with 2FA complete.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "auth/login", &render.PageData{
		Title: "Contractor Login",
	})
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")
	password := r.FormValue("password")

	loginError := func(status int, msg string) {
		a.renderer.PageStatus(w, r, status, "auth/login", &render.PageData{
			Title: "Contractor Login",
			Data:  map[string]any{"Error": msg, "Email": email},
		})
	}

	user, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		loginError(http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, password) {
		loginError(http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if !user.IsContractor() {
		loginError(http.StatusForbidden, "This login is for contractor accounts.")
		return
	}

	contractor, err := a.contractors.FindByUserID(user.ID)
	if err != nil {
		slog.Error("login contractor lookup failed", "error", err, "user_id", user.ID)
		loginError(http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	data := &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		TwoFADone: !user.Requires2FA(),
	}
	if contractor != nil {
		data.ContractorID = &contractor.ID
	}

	// Drop any previous session so its ID cannot be reused.
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("destroy previous session failed", "error", err)
	}
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("contractor logged in", "user_id", user.ID, "two_fa_pending", !data.TwoFADone)
	if !data.TwoFADone {
		http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the 2FA code entry form.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "auth/2fa_verify", &render.PageData{
		Title: "Two-Factor Verification",
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// A user who turned 2FA off since the password check passes through.
	if user.Requires2FA() && !totp.Validate(formValue(r, "code"), *user.TOTPSecret) {
		a.renderer.PageStatus(w, r, http.StatusUnprocessableEntity, "auth/2fa_verify", &render.PageData{
			Title: "Two-Factor Verification",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegisterPage renders the contractor sign-up form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	a.renderRegister(w, r, http.StatusOK, &RegisterForm{Errors: map[string]string{}})
}

func (a *Auth) renderRegister(w http.ResponseWriter, r *http.Request, status int, form *RegisterForm) {
	cats, err := a.categories.List()
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}
	a.renderer.PageStatus(w, r, status, "auth/register", &render.PageData{
		Title: "List Your Business",
		Data: map[string]any{
			"Form":       form,
			"Categories": cats,
			"Areas":      catalog.Areas(),
		},
	})
}

// RegisterSubmit creates the account and the free-tier listing in one
// step, then logs the new contractor in.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := &RegisterForm{
		FullName:     formValue(r, "full_name"),
		Email:        strings.ToLower(formValue(r, "email")),
		BusinessName: formValue(r, "business_name"),
		Phone:        formValue(r, "phone"),
		ZipCode:      formValue(r, "zip_code"),
		Description:  formValue(r, "description"),
		ServiceArea:  knownAreas(formValues(r, "service_area")),
	}
	password := r.FormValue("password")

	ids, idErr := parseIDs(formValues(r, "categories"))
	if idErr == nil {
		var err error
		ids, err = knownCategories(a.categories, ids)
		if err != nil {
			slog.Error("check categories failed", "error", err)
			a.renderRegister(w, r, http.StatusInternalServerError, withFormError(form, "An unexpected error occurred."))
			return
		}
	}
	form.CategoryIDs = ids

	errs := validateRegistration(form, password)
	if idErr != nil {
		errs.add("categories", "Please pick services from the list.")
	}
	if len(errs) > 0 {
		form.Errors = errs
		a.renderRegister(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	contractor, err := a.contractors.Register(store.Registration{
		Email:        form.Email,
		Password:     password,
		FullName:     form.FullName,
		BusinessName: form.BusinessName,
		Description:  form.Description,
		Phone:        form.Phone,
		ZipCode:      form.ZipCode,
		ServiceArea:  form.ServiceArea,
		CategoryIDs:  form.CategoryIDs,
	})
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		form.Errors = map[string]string{"email": "An account with this email already exists. Try logging in."}
		a.renderRegister(w, r, http.StatusConflict, form)
		return
	case errors.Is(err, store.ErrSlugTaken):
		a.renderRegister(w, r, http.StatusConflict, withFormError(form, "A listing with this business name already exists."))
		return
	case err != nil:
		slog.Error("register contractor failed", "error", err)
		a.renderRegister(w, r, http.StatusInternalServerError, withFormError(form, "An unexpected error occurred."))
		return
	}

	slog.Info("contractor registered", "contractor", contractor.Slug, "user_id", contractor.UserID)

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:       contractor.UserID,
		ContractorID: &contractor.ID,
		Email:        form.Email,
		FullName:     form.FullName,
		Role:         string(models.RoleContractor),
		TwoFADone:    true,
		Flash:        "Welcome! Your listing is live at /contractors/" + contractor.Slug + ".",
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func withFormError(form *RegisterForm, msg string) *RegisterForm {
	form.Errors = map[string]string{"form": msg}
	return form
}

// knownAreas keeps the areas that are in the catalog.
func knownAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		if catalog.IsArea(a) && !contains(out, a) {
			out = append(out, a)
		}
	}
	return out
}

// knownCategories drops IDs that do not name a category, keeping order.
func knownCategories(categories *store.CategoryStore, ids []uuid.UUID) ([]uuid.UUID, error) {
	found, err := categories.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, len(found))
	for i, c := range found {
		out[i] = c.ID
	}
	return out, nil
}

func contains(items []string, s string) bool {
	for _, v := range items {
		if v == s {
			return true
		}
	}
	return false
}
