package contract

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/pkg/selection"
)

// ViewSelection is what a store keeps per view: the selection and the scope
// it was made under.
type ViewSelection struct {
	Snapshot selection.Snapshot `json:"snapshot"`
	Scope    entity.NodeScope   `json:"scope"`
}

// SelectionStore keeps one ViewSelection per view key.
type SelectionStore interface {
	Get(ctx context.Context, key string) (*ViewSelection, bool, error)
	Save(ctx context.Context, key string, view ViewSelection) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix, except the keys in
	// keep, and returns the removed keys.
	DeletePrefix(ctx context.Context, prefix string, keep ...string) ([]string, error)
}
