// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadSource records how a lead reached the contractor.
type LeadSource string

const (
	LeadSourceForm LeadSource = "form"
	LeadSourceCall LeadSource = "call"
	LeadSourceAiva LeadSource = "aiva" // AI voice assistant
)

// LeadStatus is the contractor's progress on a lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusClosed    LeadStatus = "closed"
)

// LeadStatuses lists every status in workflow order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusConverted,
	LeadStatusClosed,
}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead is a homeowner's request for contact, routed to one contractor.
type Lead struct {
	ID               uuid.UUID  `json:"id"`
	ContractorID     uuid.UUID  `json:"contractor_id"`
	Name             string     `json:"name"`
	Email            *string    `json:"email,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Message          *string    `json:"message,omitempty"`
	Source           LeadSource `json:"source"`
	Status           LeadStatus `json:"status"`
	CallRecordingURL *string    `json:"call_recording_url,omitempty"`
	CallTranscript   *string    `json:"call_transcript,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsNew returns true if the contractor has not acted on the lead yet.
func (l *Lead) IsNew() bool {
	return l.Status == LeadStatusNew
}
