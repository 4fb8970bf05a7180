package contract

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/pkg/pagination"
)

// NodeSelector narrows a record query to a filter and then either to
// IncludeIds or to everything except ExcludeIds.
type NodeSelector struct {
	Filter     entity.NodeFilter
	IncludeIds []string
	ExcludeIds []string
}

// SubmissionNodeRepository is implemented by both record stores, so it takes
// store-neutral pagination queries instead of GORM specifications.
type SubmissionNodeRepository interface {
	List(ctx context.Context, sel NodeSelector, q pagination.Query) ([]*entity.SubmissionNode, int64, error)
	Delete(ctx context.Context, sel NodeSelector) (int64, error)
	CreateBulk(ctx context.Context, nodes []*entity.SubmissionNode) error
}

// NodeSortRoots are the logical fields a record list can be sorted by. Paths
// under properties reach into the record's own columns.
var NodeSortRoots = map[string]bool{
	"nodeId":     true,
	"nodeType":   true,
	"status":     true,
	"createdAt":  true,
	"updatedAt":  true,
	"properties": true,
}

// NodeNestedSortRoots are the sort roots that accept a nested path.
var NodeNestedSortRoots = map[string]bool{
	"properties": true,
}
