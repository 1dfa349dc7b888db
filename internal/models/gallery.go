// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// GalleryImage is a project photo uploaded by a contractor. The file lives
// in the S3 bucket; the row holds its keys and public URLs.
type GalleryImage struct {
	ID           uuid.UUID `json:"id"`
	ContractorID uuid.UUID `json:"contractor_id"`
	ImageURL     string    `json:"image_url"`
	ThumbURL     *string   `json:"thumb_url,omitempty"`
	S3Key        string    `json:"s3_key"`
	ThumbS3Key   *string   `json:"thumb_s3_key,omitempty"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Caption      *string   `json:"caption,omitempty"`
	ProjectType  *string   `json:"project_type,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsImage returns true if the stored object is an image type.
func (g *GalleryImage) IsImage() bool {
	return strings.HasPrefix(g.ContentType, "image/")
}

// HumanSize returns a human-readable file size string, e.g. "1.5 MB".
func (g *GalleryImage) HumanSize() string {
	return humanize.Bytes(uint64(g.SizeBytes))
}

// DisplayURL returns the thumbnail URL when one exists, else the original.
func (g *GalleryImage) DisplayURL() string {
	if g.ThumbURL != nil && *g.ThumbURL != "" {
		return *g.ThumbURL
	}
	return g.ImageURL
}

// AltText returns the caption, or a generic description when none is set.
func (g *GalleryImage) AltText() string {
	if g.Caption != nil && *g.Caption != "" {
		return *g.Caption
	}
	return "Project photo"
}
