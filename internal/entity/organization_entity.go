package entity

import (
	"time"

	"github.com/google/uuid"
)

type OrganizationStatus string

const (
	OrganizationStatusActive   OrganizationStatus = "Active"
	OrganizationStatusInactive OrganizationStatus = "Inactive"
)

// Organization is a program: it groups approved studies and is assigned a
// data concierge who is the contact for its submissions.
type Organization struct {
	Id             uuid.UUID
	Name           string
	Abbreviation   string
	Description    string
	Status         OrganizationStatus
	ConciergeId    *uuid.UUID
	ConciergeName  string
	ConciergeEmail string
	Studies        []*ApprovedStudy
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (o *Organization) StudyIds() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Studies))
	for _, s := range o.Studies {
		ids = append(ids, s.Id)
	}
	return ids
}
