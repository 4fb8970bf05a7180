package dto

import "github.com/google/uuid"

// SelectionView names one list a user selects records in.
type SelectionView struct {
	UserId       uuid.UUID
	SubmissionId uuid.UUID
	NodeType     string
}

// Actor is the authenticated caller of a delete or export.
type Actor struct {
	UserId uuid.UUID
	Admin  bool
}

type SelectionHeader struct {
	Checked       bool `json:"checked"`
	Indeterminate bool `json:"indeterminate"`
}

type SelectionResponse struct {
	Mode           string          `json:"mode"`
	Count          int             `json:"count"`
	TotalMatching  int             `json:"totalMatching"`
	Header         SelectionHeader `json:"header"`
	ScopeVersion   uint64          `json:"scopeVersion"`
	SelectedOnPage []string        `json:"selectedOnPage"`
	// Applied is false when a toggle was dropped because the list changed.
	Applied bool `json:"applied"`
}

type ToggleRowRequest struct {
	ScopeVersion uint64 `json:"scopeVersion" validate:"required"`
	Id           string `json:"id" validate:"required"`
}

type ToggleAllRequest struct {
	ScopeVersion uint64 `json:"scopeVersion" validate:"required"`
}

type ExportSelectedRequest struct {
	Format string `query:"format" validate:"omitempty,oneof=csv tsv"`
}
