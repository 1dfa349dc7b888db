// Package store holds the PostgreSQL queries for every Houston Pro entity.
// Each store wraps a *sql.DB; lookups return (nil, nil) when nothing
// matches and scoped updates return ErrNotFound.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"houstonpro/internal/models"
)

// UserStore reads and writes login accounts.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, role, totp_secret, totp_enabled, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := new(models.User)
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

// normalizeEmail makes address lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword is shared by Create and ContractorStore.Register.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserStore) findOne(column string, value any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return u, nil
}

// FindByEmail returns the account for email, ignoring case.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	return s.findOne("email", normalizeEmail(email))
}

func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	return s.findOne("id", id)
}

// Create inserts an account. ErrEmailTaken reports a duplicate address.
func (s *UserStore) Create(email, password, fullName string, role models.Role) (*models.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		normalizeEmail(email), hash, fullName, role,
	))
	switch {
	case isUniqueViolation(err):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the bcrypt hash. Sessions already issued stay
// valid until they expire.
func (s *UserStore) SetPassword(userID uuid.UUID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.update("set password", userID, `password_hash = $2`, hash)
}

// SetTOTPSecret stores a pending secret during 2FA enrolment. It does not
// turn 2FA on; EnableTOTP does that once a code has been verified.
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	return s.update("set totp secret", userID, `totp_secret = $2`, secret)
}

func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	return s.update("enable totp", userID, `totp_enabled = TRUE`)
}

// DisableTOTP turns 2FA off and forgets the secret.
func (s *UserStore) DisableTOTP(userID uuid.UUID) error {
	return s.update("disable totp", userID, `totp_secret = NULL, totp_enabled = FALSE`)
}

// update applies set to one user row and bumps updated_at. Extra args
// bind from $2 onwards.
func (s *UserStore) update(op string, userID uuid.UUID, set string, args ...any) error {
	res, err := s.db.Exec(`UPDATE users SET `+set+`, updated_at = NOW() WHERE id = $1`, append([]any{userID}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an account. Its contractor row and everything under it
// cascade.
func (s *UserStore) Delete(userID uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
