package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListNodesRequest struct {
	SubmissionId  uuid.UUID
	UserId        uuid.UUID
	NodeType      string `query:"nodeType" validate:"required,max=64"`
	Status        string `query:"status" validate:"omitempty,oneof=New Passed Warning Error"`
	Search        string `query:"search" validate:"max=255"`
	First         int    `query:"first"`
	Offset        int    `query:"offset"`
	OrderBy       string `query:"orderBy"`
	SortDirection string `query:"sortDirection"`
}

type NodeResponse struct {
	Id         string                 `json:"id"`
	NodeType   string                 `json:"nodeType"`
	NodeId     string                 `json:"nodeId"`
	Status     string                 `json:"status"`
	Properties map[string]interface{} `json:"props"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

type ListNodesResponse struct {
	Total      int64              `json:"total"`
	Nodes      []*NodeResponse    `json:"nodes"`
	Properties []string           `json:"properties"`
	Sort       []map[string]any   `json:"sort"`
	Warnings   []string           `json:"warnings,omitempty"`
	Selection  *SelectionResponse `json:"selection,omitempty"`
}

// DeleteRecordsRequest either names records (NodeIds) or asks for every
// record matching the filter except ExclusiveIds (DeleteAll).
type DeleteRecordsRequest struct {
	SubmissionId uuid.UUID
	NodeType     string   `json:"nodeType" validate:"required,max=64"`
	NodeIds      []string `json:"nodeIds" validate:"omitempty,dive,required"`
	DeleteAll    bool     `json:"deleteAll"`
	ExclusiveIds []string `json:"exclusiveIDs" validate:"omitempty,dive,required"`
	Status       string   `json:"status" validate:"omitempty,oneof=New Passed Warning Error"`
	Search       string   `json:"search" validate:"max=255"`
}

type DeleteRecordsResponse struct {
	Affected int64 `json:"affected"`
}

type ExportRecordsRequest struct {
	SubmissionId  uuid.UUID
	NodeType      string   `json:"nodeType" query:"nodeType" validate:"required,max=64"`
	NodeIds       []string `json:"nodeIds" validate:"omitempty,dive,required"`
	ExportAll     bool     `json:"exportAll" query:"exportAll"`
	ExclusiveIds  []string `json:"exclusiveIDs" validate:"omitempty,dive,required"`
	Status        string   `json:"status" query:"status" validate:"omitempty,oneof=New Passed Warning Error"`
	Search        string   `json:"search" query:"search" validate:"max=255"`
	Format        string   `json:"format" query:"format" validate:"omitempty,oneof=csv tsv"`
	OrderBy       string   `json:"orderBy" query:"orderBy"`
	SortDirection string   `json:"sortDirection" query:"sortDirection"`
}
