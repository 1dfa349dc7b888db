// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrTemplateLocked is returned when a contractor whose tier does not
	// allow template customisation tries to save one.
	ErrTemplateLocked = errors.New("template customisation requires the premium tier")

	// ErrSlugTaken is returned when no unique slug could be derived for a
	// business name.
	ErrSlugTaken = errors.New("slug already taken")

	// ErrEmailTaken is returned when registering an address that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound is returned by updates that matched no row the caller
	// owns.
	ErrNotFound = errors.New("not found")
)

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
