package database

import "testing"

func TestSeedIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only writes when the users table is empty. We don't clear the
	// database first because other test packages may be running
	// concurrently against the same database.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users < 1 {
		t.Errorf("expected at least 1 user, got %d", users)
	}
}

func TestSyncCategoriesIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	var before, after int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&before); err != nil {
		t.Fatalf("count: %v", err)
	}
	if err := SyncCategories(db); err != nil {
		t.Fatalf("SyncCategories: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&after); err != nil {
		t.Fatalf("count: %v", err)
	}
	if before != after {
		t.Errorf("sync changed row count: %d -> %d", before, after)
	}

	var icon string
	if err := db.QueryRow("SELECT icon FROM categories WHERE slug = 'electrical'").Scan(&icon); err != nil {
		t.Fatalf("select electrical: %v", err)
	}
	if icon != "Zap" {
		t.Errorf("electrical icon: got %q, want Zap", icon)
	}
}
