// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"houstonpro/internal/models"
)

// CategoryStore manages trade categories and contractor assignments.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `c.id, c.name, c.slug, c.icon, c.description, c.sort_order`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon, &c.Description, &c.SortOrder)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories in catalog order, with contractor counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `, COUNT(cc.contractor_id) AS contractor_count
		FROM categories c
		LEFT JOIN contractor_categories cc ON cc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Icon, &c.Description, &c.SortOrder, &c.ContractorCount,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories c WHERE c.slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByIDs returns the categories with the given IDs in the order the IDs
// were given. Unknown IDs are skipped.
func (s *CategoryStore) FindByIDs(ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(ids, 1)
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.Category, len(ids))
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		byID[c.ID] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			items = append(items, c)
		}
	}
	return items, nil
}

// ForContractor returns the contractor's categories, primary first.
func (s *CategoryStore) ForContractor(contractorID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+`
		FROM contractor_categories cc
		JOIN categories c ON c.id = cc.category_id
		WHERE cc.contractor_id = $1
		ORDER BY cc.position, c.sort_order
	`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("categories for contractor: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ForContractors returns categories for multiple contractors at once, keyed
// by contractor ID, each list primary first. Used by directory listings.
func (s *CategoryStore) ForContractors(contractorIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	if len(contractorIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(contractorIDs, 1)
	rows, err := s.db.Query(`
		SELECT cc.contractor_id, `+categoryColumns+`
		FROM contractor_categories cc
		JOIN categories c ON c.id = cc.category_id
		WHERE cc.contractor_id IN (`+placeholders+`)
		ORDER BY cc.contractor_id, cc.position, c.sort_order
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("categories for contractors: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]models.Category)
	for rows.Next() {
		var contractorID uuid.UUID
		var c models.Category
		if err := rows.Scan(
			&contractorID, &c.ID, &c.Name, &c.Slug, &c.Icon, &c.Description, &c.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result[contractorID] = append(result[contractorID], c)
	}
	return result, rows.Err()
}

// SetForContractor replaces the contractor's category assignments. The
// first ID becomes the primary trade.
func (s *CategoryStore) SetForContractor(contractorID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("set categories begin: %w", err)
	}
	defer tx.Rollback()

	if err := assignCategories(tx, contractorID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set categories commit: %w", err)
	}
	return nil
}

// assignCategories replaces assignments inside an existing transaction.
func assignCategories(tx *sql.Tx, contractorID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM contractor_categories WHERE contractor_id = $1`, contractorID); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(categoryIDs))
	pos := 0
	for _, id := range categoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		_, err := tx.Exec(`
			INSERT INTO contractor_categories (contractor_id, category_id, position)
			VALUES ($1, $2, $3)
		`, contractorID, id, pos)
		if err != nil {
			return fmt.Errorf("assign category: %w", err)
		}
		pos++
	}
	return nil
}

// inClause builds a "$n, $n+1, ..." placeholder list starting at $start.
func inClause(ids []uuid.UUID, start int) (string, []any) {
	placeholders := ""
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return placeholders, args
}
