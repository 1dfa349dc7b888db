package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"houstonpro/internal/catalog"
)

// SyncCategories upserts the catalog's trade categories. It runs on every
// migrate so that catalog edits reach existing databases; rows are matched
// by slug and never deleted.
func SyncCategories(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("sync categories begin: %w", err)
	}
	defer tx.Rollback()

	for i, c := range catalog.Categories() {
		_, err := tx.Exec(`
			INSERT INTO categories (name, slug, icon, description, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (slug) DO UPDATE
			SET name = EXCLUDED.name, icon = EXCLUDED.icon,
			    description = EXCLUDED.description, sort_order = EXCLUDED.sort_order`,
			c.Name, c.Slug, c.Icon, c.Description, i,
		)
		if err != nil {
			return fmt.Errorf("sync category %s: %w", c.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sync categories commit: %w", err)
	}
	return nil
}

type seedContractor struct {
	email       string
	name        string
	business    string
	slug        string
	description string
	phone       string
	areas       []string
	categories  []string
	tier        string
	featured    bool
	verified    bool
	years       int
	license     string
}

var seedContractors = []seedContractor{
	{
		email:       "bayou.electric@houstonpro.local",
		name:        "Luis Ramirez",
		business:    "Bayou City Electric",
		slug:        "bayou-city-electric",
		description: "Licensed master electricians serving Greater Houston since 2006. Panel upgrades, EV chargers, whole-home rewiring and 24/7 emergency service.",
		phone:       "(713) 555-0142",
		areas:       []string{"The Heights", "Montrose", "Midtown", "Downtown Houston"},
		categories:  []string{"electrical"},
		tier:        "premium",
		featured:    true,
		verified:    true,
		years:       18,
		license:     "TECL 31245",
	},
	{
		email:       "gulf.plumbing@houstonpro.local",
		name:        "Dana Whitfield",
		business:    "Gulf Coast Plumbing Co",
		slug:        "gulf-coast-plumbing-co",
		description: "Family-owned plumbing company. Water heaters, slab leaks, repiping and drain cleaning.",
		phone:       "(281) 555-0178",
		areas:       []string{"Katy", "Cypress", "Memorial"},
		categories:  []string{"plumbing", "handyman-services"},
		tier:        "free",
		verified:    true,
		years:       9,
		license:     "M-40112",
	},
	{
		email:       "lonestar.roofing@houstonpro.local",
		name:        "Avery Chen",
		business:    "Lone Star Roofing",
		slug:        "lone-star-roofing",
		description: "Storm damage specialists. Free roof inspections and insurance claim assistance.",
		phone:       "(832) 555-0109",
		areas:       []string{"Sugar Land", "Pearland", "Clear Lake"},
		categories:  []string{"roofing"},
		tier:        "free",
		years:       12,
	},
}

type seedReview struct {
	slug    string
	author  string
	rating  int
	title   string
	content string
}

var seedReviews = []seedReview{
	{"bayou-city-electric", "Maria G.", 5, "Fast panel upgrade", "Showed up on time, pulled the permit and finished in a day."},
	{"bayou-city-electric", "Tom B.", 4, "", "Good work on our EV charger install. Slightly over the estimate."},
	{"gulf-coast-plumbing-co", "Priya K.", 5, "Saved us from a slab leak", "Found the leak in an hour and explained every option."},
}

// Seed populates the database with development data: an admin account and
// a few demo contractors with reviews. It does nothing if any user exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, 'admin')
	`, "admin@houstonpro.local", string(hash), "Admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	contractorIDs := make(map[string]string, len(seedContractors))
	for _, sc := range seedContractors {
		var userID, contractorID string
		err := tx.QueryRow(`
			INSERT INTO users (email, password_hash, full_name, role)
			VALUES ($1, $2, $3, 'contractor')
			RETURNING id`,
			sc.email, string(hash), sc.name,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", sc.email, err)
		}

		var license *string
		if sc.license != "" {
			license = &sc.license
		}
		err = tx.QueryRow(`
			INSERT INTO contractors (user_id, business_name, slug, description, phone, email,
			                         service_area, license_number, years_in_business,
			                         insurance_verified, is_featured, is_verified, tier)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`,
			userID, sc.business, sc.slug, sc.description, sc.phone, sc.email,
			sc.areas, license, sc.years, sc.verified, sc.featured, sc.verified, sc.tier,
		).Scan(&contractorID)
		if err != nil {
			return fmt.Errorf("seed insert contractor %s: %w", sc.slug, err)
		}
		contractorIDs[sc.slug] = contractorID

		for pos, cat := range sc.categories {
			_, err := tx.Exec(`
				INSERT INTO contractor_categories (contractor_id, category_id, position)
				SELECT $1, id, $3 FROM categories WHERE slug = $2`,
				contractorID, cat, pos,
			)
			if err != nil {
				return fmt.Errorf("seed assign category %s: %w", cat, err)
			}
		}
	}

	// The premium demo contractor gets a customised template.
	_, err = tx.Exec(`
		INSERT INTO contractor_templates (contractor_id, template_style, primary_color, font_family,
		                                  hero_layout, custom_tagline, custom_cta_text)
		VALUES ($1, 'bold', '#f59e0b', 'Montserrat', 'split', $2, 'Book an Electrician')`,
		contractorIDs["bayou-city-electric"], "Houston's 24/7 electricians",
	)
	if err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	for _, r := range seedReviews {
		var title *string
		if r.title != "" {
			title = &r.title
		}
		_, err := tx.Exec(`
			INSERT INTO reviews (contractor_id, author_name, rating, title, content, is_verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)`,
			contractorIDs[r.slug], r.author, r.rating, title, r.content,
		)
		if err != nil {
			return fmt.Errorf("seed insert review: %w", err)
		}
	}

	_, err = tx.Exec(`
		UPDATE contractors c
		SET avg_rating = COALESCE(s.avg, 0), review_count = COALESCE(s.n, 0)
		FROM (SELECT contractor_id, ROUND(AVG(rating)::numeric, 1) AS avg, COUNT(*) AS n
		      FROM reviews GROUP BY contractor_id) s
		WHERE s.contractor_id = c.id`)
	if err != nil {
		return fmt.Errorf("seed recompute ratings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo data",
		"admin", "admin@houstonpro.local",
		"password", "admin",
		"contractors", len(seedContractors),
	)

	return nil
}
