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

// ReviewStore handles customer reviews and contractor responses.
type ReviewStore struct {
	db *sql.DB
}

// NewReviewStore creates a new ReviewStore.
func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

const reviewColumns = `id, contractor_id, user_id, author_name, rating, title, content, project_type,
	is_verified, helpful_count, contractor_response, response_date, created_at, updated_at`

func scanReview(scanner rowScanner) (*models.Review, error) {
	var r models.Review
	err := scanner.Scan(
		&r.ID, &r.ContractorID, &r.UserID, &r.AuthorName, &r.Rating, &r.Title, &r.Content, &r.ProjectType,
		&r.IsVerified, &r.HelpfulCount, &r.ContractorResponse, &r.ResponseDate, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a review and recomputes the contractor's average rating
// and review count in the same transaction.
func (s *ReviewStore) Create(r *models.Review) (*models.Review, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return nil, fmt.Errorf("create review: rating %d out of range", r.Rating)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create review begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO reviews (contractor_id, user_id, author_name, rating, title, content, project_type, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+reviewColumns,
		r.ContractorID, r.UserID, r.AuthorName, r.Rating, r.Title, r.Content, r.ProjectType, r.IsVerified,
	)
	created, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := recomputeRating(tx, r.ContractorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create review commit: %w", err)
	}
	return created, nil
}

func recomputeRating(tx *sql.Tx, contractorID uuid.UUID) error {
	_, err := tx.Exec(`
		UPDATE contractors SET
			avg_rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE contractor_id = $1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE contractor_id = $1),
			updated_at = NOW()
		WHERE id = $1
	`, contractorID)
	if err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	return nil
}

// ListByContractor returns a contractor's reviews newest first.
func (s *ReviewStore) ListByContractor(contractorID uuid.UUID, limit int) ([]models.Review, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE contractor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, contractorID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var items []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}

// Respond sets or replaces the contractor's public response to a review.
// An empty response clears it. The update is scoped to the contractor.
func (s *ReviewStore) Respond(contractorID, reviewID uuid.UUID, response string) error {
	var resp any
	if response != "" {
		resp = response
	}
	res, err := s.db.Exec(`
		UPDATE reviews
		SET contractor_response = $1,
		    response_date = CASE WHEN $1::text IS NULL THEN NULL ELSE NOW() END,
		    updated_at = NOW()
		WHERE id = $2 AND contractor_id = $3
	`, resp, reviewID, contractorID)
	if err != nil {
		return fmt.Errorf("respond to review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
