package bulk

import (
	"context"
	"fmt"

	"datahub-portal-be/pkg/selection"
)

const DefaultMaxIDsLimit = 2000

type Config struct {
	MaxIDsLimit int
}

type Dispatcher struct {
	cfg Config
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.MaxIDsLimit <= 0 {
		cfg.MaxIDsLimit = DefaultMaxIDsLimit
	}
	return &Dispatcher{cfg: cfg}
}

func (d *Dispatcher) Limit() int {
	return d.cfg.MaxIDsLimit
}

// Build turns a final selection into a downstream request.
func (d *Dispatcher) Build(state selection.State, scope selection.FilterScope) (Request, error) {
	switch state.Mode {
	case selection.ModeExclusion:
		if state.Len() > d.cfg.MaxIDsLimit {
			return Request{}, &SelectionTooLargeError{Mode: state.Mode, Size: state.Len(), Limit: d.cfg.MaxIDsLimit}
		}
		return Request{
			Kind:                     KindExcludeFromScope,
			Scope:                    scope,
			ApplyToAllMatchingFilter: true,
			ExcludeIDs:               state.SortedIDs(),
		}, nil

	case selection.ModeInclusion:
		if state.Len() > d.cfg.MaxIDsLimit {
			return Request{}, &SelectionTooLargeError{Mode: state.Mode, Size: state.Len(), Limit: d.cfg.MaxIDsLimit}
		}
		if state.Len() == 0 {
			return Request{}, ErrNothingSelected
		}
		return Request{
			Kind:       KindInclude,
			Scope:      scope,
			IncludeIDs: state.SortedIDs(),
		}, nil
	}

	return Request{}, ErrNothingSelected
}

// Dispatch validates the selection and hands it to exec. exec is never
// called when validation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, state selection.State, scope selection.FilterScope, exec Executor) (Result, error) {
	req, err := d.Build(state, scope)
	if err != nil {
		return Result{}, err
	}

	res, err := exec.Execute(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBackendFailure, err)
	}
	return res, nil
}
