package store

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"

	"houstonpro/internal/config"
	"houstonpro/internal/database"
	"houstonpro/internal/models"
)

var migrateOnce sync.Once

// testDB connects with the same POSTGRES_* settings the server reads and
// migrates once per test binary. Tests skip when Postgres is down.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var migrateErr error
	migrateOnce.Do(func() { migrateErr = database.Migrate(db) })
	if migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}
	return db
}

// cleanUsers removes test users by email. Owned contractors and their
// leads, reviews, gallery rows and templates cascade.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// categoryID looks up a seeded category by slug.
func categoryID(t *testing.T, db *sql.DB, slug string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM categories WHERE slug = $1", slug).Scan(&id); err != nil {
		t.Fatalf("category %s: %v", slug, err)
	}
	return id
}

// testContractor registers a throwaway contractor on the given tier with
// the given categories. It is removed when the test finishes.
func testContractor(t *testing.T, db *sql.DB, tier models.Tier, categorySlugs ...string) *models.Contractor {
	t.Helper()

	email := "store-test-" + uuid.NewString()[:8] + "@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	ids := make([]uuid.UUID, len(categorySlugs))
	for i, s := range categorySlugs {
		ids[i] = categoryID(t, db, s)
	}

	cs := NewContractorStore(db)
	c, err := cs.Register(Registration{
		Email:        email,
		Password:     "testpass123",
		FullName:     "Store Test",
		BusinessName: "Store Test " + email[11:19],
		Description:  "Integration test contractor.",
		Phone:        "(713) 555-0000",
		ServiceArea:  []string{"Katy", "Cypress"},
		CategoryIDs:  ids,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if tier != models.TierFree {
		if err := cs.SetTier(c.Slug, tier); err != nil {
			t.Fatalf("SetTier: %v", err)
		}
		c.Tier = tier
	}
	return c
}
