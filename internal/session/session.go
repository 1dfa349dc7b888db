// Package session stores logged-in contractor sessions in Valkey. The
// browser only holds a random ID in the htp_session cookie; the payload,
// including the pending flash message, lives under "session:<id>" and
// expires with the TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "htp_session"

	// DefaultTTL is how long an idle session survives. Every write resets it.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
	idLength  = 32 // bytes, 64 hex chars
)

// ErrNoSession is returned by writes on a request without a session cookie.
var ErrNoSession = errors.New("no session cookie")

// Data is the session payload.
//
// A session with TwoFADone=false belongs to a user who passed the password
// check but still owes a TOTP code; it only grants access to /2fa/verify.
type Data struct {
	UserID       uuid.UUID  `json:"user_id"`
	ContractorID *uuid.UUID `json:"contractor_id,omitempty"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	TwoFADone    bool       `json:"two_fa_done"`
	Flash        string     `json:"flash,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure controls the Secure attribute on the session cookie.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

// Create starts a new session and sets its cookie. It returns the ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	id := hex.EncodeToString(b)

	data.CreatedAt = time.Now()
	if err := s.write(ctx, id, data); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return id, nil
}

// Get loads the session named by the request cookie. A request without a
// cookie, or whose session has expired, yields (nil, nil).
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id, ok := sessionID(r)
	if !ok {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &data, nil
}

// Update overwrites the session payload in place and resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id, ok := sessionID(r)
	if !ok {
		return fmt.Errorf("session update: %w", ErrNoSession)
	}
	if err := s.write(ctx, id, data); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// SetFlash stores a one-shot message shown on the next dashboard render.
func (s *Store) SetFlash(ctx context.Context, r *http.Request, data *Data, msg string) error {
	data.Flash = msg
	return s.Update(ctx, r, data)
}

// PopFlash returns the pending flash message and clears it.
func (s *Store) PopFlash(ctx context.Context, r *http.Request, data *Data) string {
	msg := data.Flash
	if msg == "" {
		return ""
	}
	data.Flash = ""
	// Losing the clear only shows the message twice.
	_ = s.Update(ctx, r, data)
	return msg
}

// Destroy deletes the session and expires the cookie. It is a no-op
// without a cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(r)
	if !ok {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) write(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err()
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
