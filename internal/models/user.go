// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models holds the row types shared by the stores, handlers and
// templates, plus the small rules that belong to them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is stored in users.role.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleContractor Role = "contractor"
	RoleAdmin      Role = "admin"
)

// User is a login account. A contractor user owns exactly one Contractor.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // set when 2FA enrolment starts
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsContractor reports dashboard access. Admins count so they can inspect
// accounts.
func (u *User) IsContractor() bool {
	return u.Role == RoleContractor || u.IsAdmin()
}

// Requires2FA reports whether login must be finished with a TOTP code.
// Only users who completed enrolment are challenged.
func (u *User) Requires2FA() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}
