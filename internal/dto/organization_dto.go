package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConciergeRequest struct {
	Id    uuid.UUID `json:"id" validate:"required"`
	Name  string    `json:"name" validate:"required,max=255"`
	Email string    `json:"email" validate:"required,email"`
}

type CreateOrganizationRequest struct {
	Name         string            `json:"name" validate:"required,max=255"`
	Abbreviation string            `json:"abbreviation" validate:"max=64"`
	Description  string            `json:"description" validate:"max=2000"`
	Concierge    *ConciergeRequest `json:"concierge"`
	StudyIds     []uuid.UUID       `json:"studies" validate:"omitempty,dive,required"`
}

// EditOrganizationRequest is a partial update. Nil fields are left as is;
// StudyIds, when present, replaces the whole approved-study set.
type EditOrganizationRequest struct {
	Id              uuid.UUID
	Name            *string           `json:"name" validate:"omitempty,min=1,max=255"`
	Abbreviation    *string           `json:"abbreviation" validate:"omitempty,max=64"`
	Description     *string           `json:"description" validate:"omitempty,max=2000"`
	Status          *string           `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Concierge       *ConciergeRequest `json:"concierge"`
	RemoveConcierge bool              `json:"removeConcierge"`
	StudyIds        *[]uuid.UUID      `json:"studies" validate:"omitempty,dive,required"`
}

type ListOrganizationsRequest struct {
	Status        string `query:"status" validate:"omitempty,oneof=All Active Inactive"`
	First         int    `query:"first"`
	Offset        int    `query:"offset"`
	OrderBy       string `query:"orderBy"`
	SortDirection string `query:"sortDirection"`
}

type StudyResponse struct {
	Id                uuid.UUID `json:"id"`
	StudyName         string    `json:"studyName"`
	StudyAbbreviation string    `json:"studyAbbreviation"`
	DbGaPID           string    `json:"dbGaPID"`
	ControlledAccess  bool      `json:"controlledAccess"`
}

type OrganizationResponse struct {
	Id             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Abbreviation   string           `json:"abbreviation"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	ConciergeId    *uuid.UUID       `json:"conciergeId"`
	ConciergeName  string           `json:"conciergeName"`
	ConciergeEmail string           `json:"conciergeEmail"`
	Studies        []*StudyResponse `json:"studies"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type ListOrganizationsResponse struct {
	Total         int64                   `json:"total"`
	Organizations []*OrganizationResponse `json:"organizations"`
	Sort          []map[string]any        `json:"sort"`
}

type ListApprovedStudiesRequest struct {
	Search        string `query:"search" validate:"max=255"`
	First         int    `query:"first"`
	Offset        int    `query:"offset"`
	OrderBy       string `query:"orderBy"`
	SortDirection string `query:"sortDirection"`
}

type ListApprovedStudiesResponse struct {
	Total   int64            `json:"total"`
	Studies []*StudyResponse `json:"studies"`
}
