package bulk

import (
	"context"

	"datahub-portal-be/pkg/selection"
)

type Kind string

const (
	// KindInclude targets exactly IncludeIDs.
	KindInclude Kind = "include"
	// KindExcludeFromScope targets every item matching Scope except ExcludeIDs.
	KindExcludeFromScope Kind = "exclude_from_scope"
)

// Request is what a bulk action sends downstream.
type Request struct {
	Kind                     Kind
	Scope                    selection.FilterScope
	ApplyToAllMatchingFilter bool
	IncludeIDs               []selection.ItemID
	ExcludeIDs               []selection.ItemID
}

type Result struct {
	Affected int64
}

// Executor performs a Request against the backend.
type Executor interface {
	Execute(ctx context.Context, req Request) (Result, error)
}

type ExecutorFunc func(ctx context.Context, req Request) (Result, error)

func (f ExecutorFunc) Execute(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}
