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

// LeadStore handles lead capture and the contractor's lead inbox.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore creates a new LeadStore.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `id, contractor_id, name, email, phone, message, source, status,
	call_recording_url, call_transcript, created_at`

func scanLead(scanner rowScanner) (*models.Lead, error) {
	var l models.Lead
	err := scanner.Scan(
		&l.ID, &l.ContractorID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.Source, &l.Status,
		&l.CallRecordingURL, &l.CallTranscript, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a lead. Source defaults to form and status is always new.
func (s *LeadStore) Create(l *models.Lead) (*models.Lead, error) {
	source := l.Source
	if source == "" {
		source = models.LeadSourceForm
	}
	row := s.db.QueryRow(`
		INSERT INTO leads (contractor_id, name, email, phone, message, source, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		l.ContractorID, l.Name, l.Email, l.Phone, l.Message, source, models.LeadStatusNew,
	)
	created, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

// ListByContractor returns the contractor's leads newest first. An empty
// status returns leads in every status.
func (s *LeadStore) ListByContractor(contractorID uuid.UUID, status models.LeadStatus, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT `+leadColumns+`
		FROM leads
		WHERE contractor_id = $1 AND ($2::text = '' OR status = $2::text)
		ORDER BY created_at DESC
		LIMIT $3
	`, contractorID, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var items []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// UpdateStatus changes a lead's status. The update is scoped to the
// contractor so one contractor cannot touch another's leads; ErrNotFound
// is returned when nothing matched.
func (s *LeadStore) UpdateStatus(contractorID, leadID uuid.UUID, status models.LeadStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update lead status: unknown status %q", status)
	}
	res, err := s.db.Exec(`
		UPDATE leads SET status = $1 WHERE id = $2 AND contractor_id = $3
	`, status, leadID, contractorID)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LeadCounts summarises a contractor's inbox.
type LeadCounts struct {
	Total     int
	New       int
	Converted int
}

// Counts returns total, new and converted lead counts for a contractor.
func (s *LeadStore) Counts(contractorID uuid.UUID) (LeadCounts, error) {
	var c LeadCounts
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'new'),
		       COUNT(*) FILTER (WHERE status = 'converted')
		FROM leads WHERE contractor_id = $1
	`, contractorID).Scan(&c.Total, &c.New, &c.Converted)
	if err != nil {
		return LeadCounts{}, fmt.Errorf("count leads: %w", err)
	}
	return c, nil
}
