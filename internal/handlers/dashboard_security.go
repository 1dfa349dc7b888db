package handlers

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"houstonpro/internal/models"
	"houstonpro/internal/render"
)

// totpURL builds the otpauth:// URL authenticator apps scan.
func totpURL(issuer, account, secret string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", issuer)
	return "otpauth://totp/" + url.PathEscape(issuer+":"+account) + "?" + v.Encode()
}

// qrDataURI encodes content as a PNG QR code data URI for an <img> tag.
func qrDataURI(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

func (d *Dashboard) renderSecurity(w http.ResponseWriter, r *http.Request, status int, user *models.User, errMsg string) {
	data := map[string]any{
		"Enabled": user.TOTPEnabled,
		"Error":   errMsg,
	}

	if !user.TOTPEnabled && user.TOTPSecret != nil {
		qr, err := qrDataURI(totpURL(d.siteName, user.Email, *user.TOTPSecret))
		if err != nil {
			slog.Error("qr code generation failed", "error", err)
		}
		data["QRCode"] = qr
		data["Secret"] = *user.TOTPSecret
	}

	d.page(w, r, status, "dashboard/security", &render.PageData{
		Title:   "Security",
		Section: "security",
		Data:    data,
	})
}

// Security renders the two-factor settings. When 2FA is off a fresh TOTP
// secret is generated and shown as a QR code for enrolment.
func (d *Dashboard) Security(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := d.current(w, r)
	if !ok {
		return
	}

	user, err := d.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !user.TOTPEnabled {
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      d.siteName,
			AccountName: user.Email,
		})
		if err != nil {
			slog.Error("totp generate failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := d.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
			slog.Error("save totp secret failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		secret := key.Secret()
		user.TOTPSecret = &secret
	}

	d.renderSecurity(w, r, http.StatusOK, user, "")
}

// TwoFAEnable turns on 2FA after the user proves their app produces valid
// codes for the pending secret.
func (d *Dashboard) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := d.current(w, r)
	if !ok {
		return
	}

	user, err := d.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPEnabled {
		http.Redirect(w, r, "/dashboard/security", http.StatusSeeOther)
		return
	}
	if user.TOTPSecret == nil {
		// The setup page was never loaded; start over.
		http.Redirect(w, r, "/dashboard/security", http.StatusSeeOther)
		return
	}

	if !totp.Validate(formValue(r, "code"), *user.TOTPSecret) {
		d.renderSecurity(w, r, http.StatusUnprocessableEntity, user, "Invalid code. Please try again.")
		return
	}

	if err := d.users.EnableTOTP(user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("two-factor enabled", "user_id", user.ID)
	d.redirect(w, r, sess, "/dashboard/security", "Two-factor authentication is on.")
}

// TwoFADisable turns 2FA off. A current code is required so a hijacked
// session cannot silently remove it.
func (d *Dashboard) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := d.current(w, r)
	if !ok {
		return
	}

	user, err := d.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup failed", "error", err, "user_id", sess.UserID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !user.Requires2FA() {
		http.Redirect(w, r, "/dashboard/security", http.StatusSeeOther)
		return
	}

	if !totp.Validate(formValue(r, "code"), *user.TOTPSecret) {
		d.renderSecurity(w, r, http.StatusUnprocessableEntity, user, "Invalid code. Please try again.")
		return
	}

	if err := d.users.DisableTOTP(user.ID); err != nil {
		slog.Error("disable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("two-factor disabled", "user_id", user.ID)
	d.redirect(w, r, sess, "/dashboard/security", "Two-factor authentication is off.")
}
