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

// GalleryStore handles contractor project photos.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore with the given database connection.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

// galleryColumns lists the columns selected in gallery queries.
const galleryColumns = `id, contractor_id, image_url, thumb_url, s3_key, thumb_s3_key,
	content_type, size_bytes, caption, project_type, display_order, created_at`

// scanGallery scans a gallery row from the result set.
func scanGallery(scanner rowScanner) (*models.GalleryImage, error) {
	var g models.GalleryImage
	err := scanner.Scan(
		&g.ID, &g.ContractorID, &g.ImageURL, &g.ThumbURL, &g.S3Key, &g.ThumbS3Key,
		&g.ContentType, &g.SizeBytes, &g.Caption, &g.ProjectType, &g.DisplayOrder, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a gallery image at the end of the contractor's display
// order and returns it with the generated ID.
func (s *GalleryStore) Create(g *models.GalleryImage) (*models.GalleryImage, error) {
	row := s.db.QueryRow(`
		INSERT INTO gallery_images (contractor_id, image_url, thumb_url, s3_key, thumb_s3_key,
			content_type, size_bytes, caption, project_type, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(display_order) + 1, 0) FROM gallery_images WHERE contractor_id = $1))
		RETURNING `+galleryColumns,
		g.ContractorID, g.ImageURL, g.ThumbURL, g.S3Key, g.ThumbS3Key,
		g.ContentType, g.SizeBytes, g.Caption, g.ProjectType,
	)
	created, err := scanGallery(row)
	if err != nil {
		return nil, fmt.Errorf("create gallery image: %w", err)
	}
	return created, nil
}

// ListByContractor returns a contractor's images in display order.
func (s *GalleryStore) ListByContractor(contractorID uuid.UUID) ([]models.GalleryImage, error) {
	rows, err := s.db.Query(`
		SELECT `+galleryColumns+`
		FROM gallery_images
		WHERE contractor_id = $1
		ORDER BY display_order, created_at
	`, contractorID)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryImage
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// Delete removes a contractor's image and returns it so the caller can
// clean up the corresponding S3 objects. Returns nil if no image with that
// ID belongs to the contractor.
func (s *GalleryStore) Delete(contractorID, id uuid.UUID) (*models.GalleryImage, error) {
	row := s.db.QueryRow(`
		DELETE FROM gallery_images WHERE id = $1 AND contractor_id = $2
		RETURNING `+galleryColumns, id, contractorID)
	g, err := scanGallery(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete gallery image: %w", err)
	}
	return g, nil
}

// Count returns the number of images a contractor has uploaded.
func (s *GalleryStore) Count(contractorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM gallery_images WHERE contractor_id = $1`, contractorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count gallery images: %w", err)
	}
	return count, nil
}
