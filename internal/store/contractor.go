// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"houstonpro/internal/models"
	"houstonpro/internal/slug"
)

// DefaultListLimit caps directory listings and search results.
const DefaultListLimit = 50

// ContractorStore handles contractor listings, registration and profiles.
type ContractorStore struct {
	db         *sql.DB
	categories *CategoryStore
}

// NewContractorStore creates a new ContractorStore.
func NewContractorStore(db *sql.DB) *ContractorStore {
	return &ContractorStore{db: db, categories: NewCategoryStore(db)}
}

const contractorColumns = `co.id, co.user_id, co.business_name, co.slug, co.description,
	co.phone, co.email, co.website, co.address, co.city, co.zip_code, co.service_area,
	co.license_number, co.insurance_verified, co.years_in_business, co.logo_url,
	co.cover_image_url, co.is_featured, co.is_verified, co.avg_rating::float8,
	co.review_count, co.tier, co.created_at, co.updated_at`

// contractorOrder is the directory ranking: featured first, then rating.
const contractorOrder = `co.is_featured DESC, co.avg_rating DESC, co.review_count DESC, co.business_name`

func scanContractor(scanner rowScanner) (*models.Contractor, error) {
	var c models.Contractor
	// pgtype.Map is not safe for concurrent use, so each scan gets its own.
	areas := pgtype.NewMap().SQLScanner(&c.ServiceArea)
	err := scanner.Scan(
		&c.ID, &c.UserID, &c.BusinessName, &c.Slug, &c.Description,
		&c.Phone, &c.Email, &c.Website, &c.Address, &c.City, &c.ZipCode, areas,
		&c.LicenseNumber, &c.InsuranceVerified, &c.YearsInBusiness, &c.LogoURL,
		&c.CoverImageURL, &c.IsFeatured, &c.IsVerified, &c.AvgRating,
		&c.ReviewCount, &c.Tier, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContractorStore) findOne(query string, arg any) (*models.Contractor, error) {
	c, err := scanContractor(s.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.ForContractor(c.ID)
	if err != nil {
		return nil, err
	}
	c.Categories = cats
	return c, nil
}

// FindBySlug retrieves a contractor and its categories by slug. Returns
// nil if not found.
func (s *ContractorStore) FindBySlug(slug string) (*models.Contractor, error) {
	c, err := s.findOne(`SELECT `+contractorColumns+` FROM contractors co WHERE co.slug = $1`, slug)
	if err != nil {
		return nil, fmt.Errorf("find contractor by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a contractor and its categories by ID. Returns nil if
// not found.
func (s *ContractorStore) FindByID(id uuid.UUID) (*models.Contractor, error) {
	c, err := s.findOne(`SELECT `+contractorColumns+` FROM contractors co WHERE co.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find contractor by id: %w", err)
	}
	return c, nil
}

// FindByUserID retrieves the contractor owned by a user. Returns nil if
// the user owns none.
func (s *ContractorStore) FindByUserID(userID uuid.UUID) (*models.Contractor, error) {
	c, err := s.findOne(`SELECT `+contractorColumns+` FROM contractors co WHERE co.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("find contractor by user: %w", err)
	}
	return c, nil
}

// SearchFilter narrows a directory listing. Zero values disable a filter.
type SearchFilter struct {
	Query        string // Matched against business name and description
	CategorySlug string
	Area         string // Must appear in the contractor's service area
	MinRating    float64
	FeaturedOnly bool
	Limit        int // DefaultListLimit when <= 0
}

// Search returns contractors matching the filter in directory order, with
// their categories attached.
func (s *ContractorStore) Search(f SearchFilter) ([]models.Contractor, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	pattern := ""
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern = "%" + escapeLike(q) + "%"
	}

	rows, err := s.db.Query(`
		SELECT `+contractorColumns+`
		FROM contractors co
		WHERE ($1::text = '' OR co.business_name ILIKE $1::text OR co.description ILIKE $1::text)
		  AND co.avg_rating >= $2::numeric
		  AND ($3::text = '' OR $3::text = ANY(co.service_area))
		  AND ($4::text = '' OR EXISTS (
		        SELECT 1 FROM contractor_categories cc
		        JOIN categories c ON c.id = cc.category_id
		        WHERE cc.contractor_id = co.id AND c.slug = $4::text))
		  AND (NOT $5::bool OR co.is_featured)
		ORDER BY `+contractorOrder+`
		LIMIT $6
	`, pattern, f.MinRating, f.Area, f.CategorySlug, f.FeaturedOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("search contractors: %w", err)
	}
	defer rows.Close()

	var items []models.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachCategories(items); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns the directory's top contractors.
func (s *ContractorStore) List() ([]models.Contractor, error) {
	return s.Search(SearchFilter{})
}

// ListFeatured returns up to limit featured contractors.
func (s *ContractorStore) ListFeatured(limit int) ([]models.Contractor, error) {
	return s.Search(SearchFilter{FeaturedOnly: true, Limit: limit})
}

func (s *ContractorStore) attachCategories(items []models.Contractor) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	byContractor, err := s.categories.ForContractors(ids)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Categories = byContractor[items[i].ID]
	}
	return nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Registration is everything collected by the contractor sign-up form.
type Registration struct {
	Email        string
	Password     string
	FullName     string
	BusinessName string
	Description  string
	Phone        string
	ZipCode      string
	ServiceArea  []string
	CategoryIDs  []uuid.UUID
}

// Register creates the user account, the contractor row on the free tier
// with a unique slug derived from the business name, and the category
// assignments, all in one transaction.
func (s *ContractorStore) Register(r Registration) (*models.Contractor, error) {
	hash, err := hashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("register begin: %w", err)
	}
	defer tx.Rollback()

	var userID uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, normalizeEmail(r.Email), hash, r.FullName, r.Phone, models.RoleContractor).Scan(&userID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	contractorSlug, err := uniqueSlug(tx, r.BusinessName)
	if err != nil {
		return nil, err
	}

	areas := r.ServiceArea
	if areas == nil {
		areas = []string{}
	}

	var contractorID uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO contractors (user_id, business_name, slug, description, phone, email,
		                         zip_code, service_area, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, userID, r.BusinessName, contractorSlug, r.Description, r.Phone, normalizeEmail(r.Email),
		r.ZipCode, areas, models.TierFree,
	).Scan(&contractorID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("register contractor: %w", err)
	}

	if err := assignCategories(tx, contractorID, r.CategoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("register commit: %w", err)
	}

	return s.FindByID(contractorID)
}

// uniqueSlug derives a slug from name that no contractor uses yet.
func uniqueSlug(tx *sql.Tx, name string) (string, error) {
	base := slug.Generate(name)
	if base == "" {
		base = "contractor"
	}

	rows, err := tx.Query(`
		SELECT slug FROM contractors WHERE slug = $1 OR slug LIKE $2
	`, base, escapeLike(base)+"-%")
	if err != nil {
		return "", fmt.Errorf("check slugs: %w", err)
	}
	defer rows.Close()

	var taken []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", fmt.Errorf("scan slug: %w", err)
		}
		taken = append(taken, s)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return slug.Unique(base, "contractor", taken), nil
}

// ProfileUpdate holds the editable business fields of a contractor.
type ProfileUpdate struct {
	BusinessName    string
	Description     string
	Phone           string
	Email           string
	Website         string
	Address         string
	City            string
	ZipCode         string
	ServiceArea     []string
	LicenseNumber   *string
	YearsInBusiness *int
	CategoryIDs     []uuid.UUID
}

// UpdateProfile saves business fields and replaces the category
// assignments. The slug is kept stable so existing links keep working.
func (s *ContractorStore) UpdateProfile(id uuid.UUID, p ProfileUpdate) error {
	areas := p.ServiceArea
	if areas == nil {
		areas = []string{}
	}
	city := p.City
	if city == "" {
		city = "Houston"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update profile begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE contractors
		SET business_name = $1, description = $2, phone = $3, email = $4, website = $5,
		    address = $6, city = $7, zip_code = $8, service_area = $9,
		    license_number = $10, years_in_business = $11, updated_at = NOW()
		WHERE id = $12
	`, p.BusinessName, p.Description, p.Phone, p.Email, p.Website,
		p.Address, city, p.ZipCode, areas, p.LicenseNumber, p.YearsInBusiness, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := assignCategories(tx, id, p.CategoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update profile commit: %w", err)
	}
	return nil
}

// SetTier changes a contractor's access tier. Downgrading keeps any saved
// template override; it is still displayed but can no longer be changed.
func (s *ContractorStore) SetTier(slug string, tier models.Tier) error {
	if !tier.Valid() {
		return fmt.Errorf("set tier: unknown tier %q", tier)
	}
	res, err := s.db.Exec(`
		UPDATE contractors SET tier = $1, updated_at = NOW() WHERE slug = $2
	`, tier, slug)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
