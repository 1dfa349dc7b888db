// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of a contractor, optionally answered by the
// contractor.
type Review struct {
	ID                 uuid.UUID  `json:"id"`
	ContractorID       uuid.UUID  `json:"contractor_id"`
	UserID             *uuid.UUID `json:"user_id,omitempty"`
	Rating             int        `json:"rating"`
	Title              *string    `json:"title,omitempty"`
	Content            string     `json:"content"`
	ProjectType        *string    `json:"project_type,omitempty"`
	IsVerified         bool       `json:"is_verified"`
	HelpfulCount       int        `json:"helpful_count"`
	ContractorResponse *string    `json:"contractor_response,omitempty"`
	ResponseDate       *time.Time `json:"response_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Virtual field populated by store methods.
	AuthorName string `json:"author_name"`
}

// HasResponse returns true if the contractor has answered the review.
func (r *Review) HasResponse() bool {
	return r.ContractorResponse != nil && *r.ContractorResponse != ""
}

// Author returns the reviewer's display name, "Anonymous" when unknown.
func (r *Review) Author() string {
	if r.AuthorName == "" {
		return "Anonymous"
	}
	return r.AuthorName
}
