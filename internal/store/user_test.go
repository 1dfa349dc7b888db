// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"houstonpro/internal/models"
)

// newTestUser creates an account and removes it when the test ends.
func newTestUser(t *testing.T, s *UserStore, email string, role models.Role) *models.User {
	t.Helper()
	u, err := s.Create(email, "correct-horse", "Store Test", role)
	if err != nil {
		t.Fatalf("Create %s: %v", email, err)
	}
	t.Cleanup(func() { s.Delete(u.ID) })
	return u
}

func TestUserStoreCreate(t *testing.T) {
	s := NewUserStore(testDB(t))

	u := newTestUser(t, s, "  Mixed-Case@Store-Test.local ", models.RoleCustomer)

	got := struct {
		Email string
		Role  models.Role
		TOTP  bool
	}{u.Email, u.Role, u.TOTPEnabled}
	want := struct {
		Email string
		Role  models.Role
		TOTP  bool
	}{"mixed-case@store-test.local", models.RoleCustomer, false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("created user (-want +got):\n%s", diff)
	}
	if u.ID == uuid.Nil {
		t.Error("no ID assigned")
	}
	if u.PasswordHash == "" || u.PasswordHash == "correct-horse" {
		t.Error("password stored in the clear")
	}

	if _, err := s.Create("MIXED-CASE@store-test.local", "x", "Dup", models.RoleCustomer); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate address: got %v, want ErrEmailTaken", err)
	}
}

func TestUserStoreLookups(t *testing.T) {
	s := NewUserStore(testDB(t))
	u := newTestUser(t, s, "lookup@store-test.local", models.RoleContractor)

	tests := []struct {
		name   string
		find   func() (*models.User, error)
		wantID uuid.UUID
	}{
		{"email exact", func() (*models.User, error) { return s.FindByEmail("lookup@store-test.local") }, u.ID},
		{"email any case", func() (*models.User, error) { return s.FindByEmail(" LOOKUP@Store-Test.local") }, u.ID},
		{"email unknown", func() (*models.User, error) { return s.FindByEmail("nobody@store-test.local") }, uuid.Nil},
		{"id", func() (*models.User, error) { return s.FindByID(u.ID) }, u.ID},
		{"id unknown", func() (*models.User, error) { return s.FindByID(uuid.New()) }, uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.find()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantID == uuid.Nil {
				if got != nil {
					t.Errorf("got %+v, want nil", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("got %+v, want user %s", got, tt.wantID)
			}
		})
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	s := NewUserStore(testDB(t))
	u := newTestUser(t, s, "password@store-test.local", models.RoleCustomer)

	for pw, want := range map[string]bool{"correct-horse": true, "Correct-Horse": false, "": false} {
		if got := s.CheckPassword(u, pw); got != want {
			t.Errorf("CheckPassword(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestUserStoreSetPassword(t *testing.T) {
	s := NewUserStore(testDB(t))
	u := newTestUser(t, s, "reset@store-test.local", models.RoleContractor)

	if err := s.SetPassword(u.ID, "battery-staple"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	got, err := s.FindByID(u.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID: %v, %v", got, err)
	}
	if s.CheckPassword(got, "correct-horse") {
		t.Error("old password still accepted")
	}
	if !s.CheckPassword(got, "battery-staple") {
		t.Error("new password rejected")
	}

	if err := s.SetPassword(uuid.New(), "battery-staple"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	s := NewUserStore(testDB(t))
	u := newTestUser(t, s, "totp@store-test.local", models.RoleContractor)

	reload := func() *models.User {
		t.Helper()
		got, err := s.FindByID(u.ID)
		if err != nil || got == nil {
			t.Fatalf("reload: %v, %v", got, err)
		}
		return got
	}

	if err := s.SetTOTPSecret(u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if reload().Requires2FA() {
		t.Error("pending secret must not require 2FA before it is enabled")
	}

	if err := s.EnableTOTP(u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	if !reload().Requires2FA() {
		t.Error("2FA not required after enable")
	}

	if err := s.DisableTOTP(u.ID); err != nil {
		t.Fatalf("DisableTOTP: %v", err)
	}
	if got := reload(); got.Requires2FA() || got.TOTPSecret != nil {
		t.Errorf("after disable: enabled=%v secret=%v", got.TOTPEnabled, got.TOTPSecret)
	}

	if err := s.EnableTOTP(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}
