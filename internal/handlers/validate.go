package handlers

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"houstonpro/internal/theme"
)

// Validation limits for public and dashboard form fields.
const (
	maxNameLen         = 100
	maxEmailLen        = 200
	maxPhoneLen        = 30
	maxMessageLen      = 2_000
	maxBusinessNameLen = 150
	maxDescriptionLen  = 5_000
	maxWebsiteLen      = 300
	maxResponseLen     = 2_000
	maxCaptionLen      = 200
	maxProjectTypeLen  = 100
	maxLicenseLen      = 100
	maxYearsInBusiness = 200
	minPasswordLen     = 8
	maxPasswordLen     = 72 // bcrypt ignores anything longer
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// fieldErrors maps a form field name to a user-facing message. The key
// "form" holds errors that belong to the whole form.
type fieldErrors map[string]string

func (fe fieldErrors) add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func tooLong(s string, n int) bool {
	return utf8.RuneCountInString(s) > n
}

func validEmail(s string) bool {
	if s == "" || tooLong(s, maxEmailLen) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	// Reject "Name <addr>" forms; the field takes a bare address.
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

// validPhone accepts any formatting with 10 digits, or 11 starting with 1.
func validPhone(s string) bool {
	if tooLong(s, maxPhoneLen) {
		return false
	}
	digits := 0
	first := rune(0)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if digits == 0 {
				first = r
			}
			digits++
		}
	}
	return digits == 10 || (digits == 11 && first == '1')
}

func validZip(s string) bool {
	return zipPattern.MatchString(s)
}

func validWebsite(s string) bool {
	if tooLong(s, maxWebsiteLen) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validateLead checks a public quote request.
func validateLead(f *LeadForm) fieldErrors {
	errs := fieldErrors{}

	switch {
	case f.Name == "":
		errs.add("name", "Please tell us your name.")
	case tooLong(f.Name, maxNameLen):
		errs.add("name", fmt.Sprintf("Name is too long (max %d characters).", maxNameLen))
	}

	switch {
	case f.Email == "" && f.Phone == "":
		errs.add("contact", "Please give an email address or phone number so they can reach you.")
	case f.Email != "" && !validEmail(f.Email):
		errs.add("contact", "Please enter a valid email address.")
	case f.Phone != "" && !validPhone(f.Phone):
		errs.add("contact", "Please enter a 10-digit phone number.")
	}

	if tooLong(f.Message, maxMessageLen) {
		errs.add("message", "Message is too long (max 2,000 characters).")
	}
	return errs
}

// validateRegistration checks the contractor sign-up form.
func validateRegistration(f *RegisterForm, password string) fieldErrors {
	errs := fieldErrors{}

	switch {
	case f.FullName == "":
		errs.add("full_name", "Your name is required.")
	case tooLong(f.FullName, maxNameLen):
		errs.add("full_name", fmt.Sprintf("Name is too long (max %d characters).", maxNameLen))
	}
	if !validEmail(f.Email) {
		errs.add("email", "Please enter a valid email address.")
	}
	switch n := utf8.RuneCountInString(password); {
	case n < minPasswordLen:
		errs.add("password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLen))
	case len(password) > maxPasswordLen:
		errs.add("password", fmt.Sprintf("Password is too long (max %d bytes).", maxPasswordLen))
	}

	validateBusiness(errs, f.BusinessName, f.Description, f.ZipCode, f.CategoryIDs)
	if f.Phone != "" && !validPhone(f.Phone) {
		errs.add("form", "Please enter a 10-digit business phone number.")
	}
	return errs
}

// validateProfile checks the dashboard business profile form and returns
// the parsed years in business (nil when blank).
func validateProfile(f *ProfileForm) (*int, fieldErrors) {
	errs := fieldErrors{}

	validateBusiness(errs, f.BusinessName, f.Description, f.ZipCode, f.CategoryIDs)
	if f.Email != "" && !validEmail(f.Email) {
		errs.add("email", "Please enter a valid email address.")
	}
	if f.Website != "" && !validWebsite(f.Website) {
		errs.add("website", "Website must be a full http:// or https:// address.")
	}
	if f.Phone != "" && !validPhone(f.Phone) {
		errs.add("form", "Please enter a 10-digit phone number.")
	}
	if tooLong(f.LicenseNumber, maxLicenseLen) {
		errs.add("form", "License number is too long.")
	}

	var years *int
	if f.YearsInBusiness != "" {
		n, err := strconv.Atoi(f.YearsInBusiness)
		if err != nil || n < 0 || n > maxYearsInBusiness {
			errs.add("years_in_business", "Years in business must be a whole number between 0 and 200.")
		} else {
			years = &n
		}
	}
	return years, errs
}

func validateBusiness(errs fieldErrors, name, description, zip string, categoryIDs []uuid.UUID) {
	switch {
	case name == "":
		errs.add("business_name", "Business name is required.")
	case tooLong(name, maxBusinessNameLen):
		errs.add("business_name", fmt.Sprintf("Business name is too long (max %d characters).", maxBusinessNameLen))
	}
	if tooLong(description, maxDescriptionLen) {
		errs.add("form", "Description is too long (max 5,000 characters).")
	}
	if zip != "" && !validZip(zip) {
		errs.add("zip_code", "ZIP code must be 5 digits.")
	}
	if len(categoryIDs) == 0 {
		errs.add("categories", "Pick at least one service.")
	}
}

// parseIDs parses form values as UUIDs, dropping duplicates and keeping
// the submitted order. The first invalid value is returned as an error.
func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	seen := make(map[uuid.UUID]bool, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", v, err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// themeErrorMessage turns a theme validation error into a form message.
func themeErrorMessage(err error) string {
	switch {
	case errors.Is(err, theme.ErrInvalidColor):
		return "Colours must be in #rrggbb format."
	case errors.Is(err, theme.ErrInvalidStyle):
		return "Please choose one of the listed styles."
	case errors.Is(err, theme.ErrInvalidFont):
		return "Please choose one of the listed fonts."
	case errors.Is(err, theme.ErrInvalidLayout):
		return "Please choose one of the listed hero layouts."
	case errors.Is(err, theme.ErrTooLong):
		return fmt.Sprintf("Tagline is limited to %d characters and button text to %d.",
			theme.MaxTaglineLength, theme.MaxCTALength)
	}
	return ""
}

// isThemeValidation reports whether err came from theme.ValidateOverride.
func isThemeValidation(err error) bool {
	return themeErrorMessage(err) != ""
}
