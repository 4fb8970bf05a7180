package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/internal/pkg/keylock"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/pkg/selection"

	"github.com/google/uuid"
)

const selectionKeyPrefix = "selection"

// SelectionKey identifies a view in the selection store. The submission
// comes first so every view of a submission shares a prefix.
func SelectionKey(v dto.SelectionView) string {
	return fmt.Sprintf("%s:%s:%s:%s", selectionKeyPrefix, v.SubmissionId, v.UserId, v.NodeType)
}

func submissionSelectionPrefix(submissionId uuid.UUID) string {
	return fmt.Sprintf("%s:%s:", selectionKeyPrefix, submissionId)
}

// ParseSelectionKey reverses SelectionKey.
func ParseSelectionKey(key string) (dto.SelectionView, bool) {
	parts := strings.SplitN(key, ":", 4)
	if len(parts) != 4 || parts[0] != selectionKeyPrefix {
		return dto.SelectionView{}, false
	}
	submissionId, err := uuid.Parse(parts[1])
	if err != nil {
		return dto.SelectionView{}, false
	}
	userId, err := uuid.Parse(parts[2])
	if err != nil {
		return dto.SelectionView{}, false
	}
	return dto.SelectionView{UserId: userId, SubmissionId: submissionId, NodeType: parts[3]}, true
}

type ISelectionService interface {
	Get(ctx context.Context, view dto.SelectionView) (*dto.SelectionResponse, error)
	ToggleRow(ctx context.Context, view dto.SelectionView, req *dto.ToggleRowRequest) (*dto.SelectionResponse, error)
	ToggleAll(ctx context.Context, view dto.SelectionView, req *dto.ToggleAllRequest) (*dto.SelectionResponse, error)
	Reset(ctx context.Context, view dto.SelectionView) error
	// ResetSubmission drops every view of a submission except skip and
	// returns the views that were dropped.
	ResetSubmission(ctx context.Context, submissionId uuid.UUID, skip *dto.SelectionView) ([]dto.SelectionView, error)
	BeginPage(ctx context.Context, view dto.SelectionView, scope entity.NodeScope) (uint64, error)
	ApplyPage(ctx context.Context, view dto.SelectionView, token uint64, window selection.PageWindow) (*dto.SelectionResponse, error)
	Load(ctx context.Context, view dto.SelectionView) (*selection.Manager, entity.NodeScope, error)
}

type selectionService struct {
	store  contract.SelectionStore
	locks  *keylock.Locker
	logger logger.ILogger
}

func NewSelectionService(store contract.SelectionStore, logger logger.ILogger) ISelectionService {
	return &selectionService{
		store:  store,
		locks:  keylock.New(),
		logger: logger,
	}
}

func (s *selectionService) load(ctx context.Context, key string) (*selection.Manager, entity.NodeScope, error) {
	stored, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, entity.NodeScope{}, err
	}
	if !found {
		return selection.NewManager(), entity.NodeScope{}, nil
	}
	return selection.Restore(stored.Snapshot), stored.Scope, nil
}

func (s *selectionService) save(ctx context.Context, key string, m *selection.Manager, scope entity.NodeScope) error {
	return s.store.Save(ctx, key, contract.ViewSelection{Snapshot: m.Snapshot(), Scope: scope})
}

// update runs fn on the view's manager under the view lock and persists the
// result when fn reports a change.
func (s *selectionService) update(ctx context.Context, view dto.SelectionView, fn func(m *selection.Manager, scope *entity.NodeScope) (bool, error)) (*selection.Manager, bool, error) {
	key := SelectionKey(view)
	unlock := s.locks.Lock(key)
	defer unlock()

	m, scope, err := s.load(ctx, key)
	if err != nil {
		return nil, false, err
	}

	changed, err := fn(m, &scope)
	if err != nil {
		return nil, false, err
	}
	if changed {
		if err := s.save(ctx, key, m, scope); err != nil {
			return nil, false, err
		}
	}
	return m, changed, nil
}

func (s *selectionService) Get(ctx context.Context, view dto.SelectionView) (*dto.SelectionResponse, error) {
	m, _, err := s.load(ctx, SelectionKey(view))
	if err != nil {
		return nil, err
	}
	return selectionResponse(m, true), nil
}

func (s *selectionService) ToggleRow(ctx context.Context, view dto.SelectionView, req *dto.ToggleRowRequest) (*dto.SelectionResponse, error) {
	m, applied, err := s.update(ctx, view, func(m *selection.Manager, _ *entity.NodeScope) (bool, error) {
		return s.toggled(view, m.ToggleRow(req.ScopeVersion, req.Id))
	})
	if err != nil {
		return nil, err
	}
	return selectionResponse(m, applied), nil
}

func (s *selectionService) ToggleAll(ctx context.Context, view dto.SelectionView, req *dto.ToggleAllRequest) (*dto.SelectionResponse, error) {
	m, applied, err := s.update(ctx, view, func(m *selection.Manager, _ *entity.NodeScope) (bool, error) {
		return s.toggled(view, m.ToggleAll(req.ScopeVersion))
	})
	if err != nil {
		return nil, err
	}
	return selectionResponse(m, applied), nil
}

// toggled maps a manager error onto (applied, err). A stale scope version
// is dropped without an error.
func (s *selectionService) toggled(view dto.SelectionView, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, selection.ErrStaleScope):
		s.logger.Debug("SELECTION", "Dropped toggle for stale scope", map[string]interface{}{
			"submission_id": view.SubmissionId,
			"node_type":     view.NodeType,
		})
		return false, nil
	case errors.Is(err, selection.ErrRowNotVisible):
		return false, fmt.Errorf("%w: %w", apperr.ErrBadRequest, err)
	}
	return false, err
}

func (s *selectionService) Reset(ctx context.Context, view dto.SelectionView) error {
	_, _, err := s.update(ctx, view, func(m *selection.Manager, _ *entity.NodeScope) (bool, error) {
		m.Reset()
		return true, nil
	})
	return err
}

func (s *selectionService) ResetSubmission(ctx context.Context, submissionId uuid.UUID, skip *dto.SelectionView) ([]dto.SelectionView, error) {
	var keep []string
	if skip != nil {
		keep = append(keep, SelectionKey(*skip))
	}
	keys, err := s.store.DeletePrefix(ctx, submissionSelectionPrefix(submissionId), keep...)
	if err != nil {
		return nil, err
	}

	views := make([]dto.SelectionView, 0, len(keys))
	for _, key := range keys {
		if view, ok := ParseSelectionKey(key); ok {
			views = append(views, view)
		}
	}
	return views, nil
}

func (s *selectionService) BeginPage(ctx context.Context, view dto.SelectionView, scope entity.NodeScope) (uint64, error) {
	var token uint64
	_, _, err := s.update(ctx, view, func(m *selection.Manager, current *entity.NodeScope) (bool, error) {
		if _, changed := m.ApplyFilterScope(scope); changed {
			*current = scope
		}
		token = m.BeginPageRequest()
		return true, nil
	})
	return token, err
}

func (s *selectionService) ApplyPage(ctx context.Context, view dto.SelectionView, token uint64, window selection.PageWindow) (*dto.SelectionResponse, error) {
	m, applied, err := s.update(ctx, view, func(m *selection.Manager, _ *entity.NodeScope) (bool, error) {
		return m.ApplyPageWindow(token, window), nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		s.logger.Debug("SELECTION", "Dropped superseded page", map[string]interface{}{
			"submission_id": view.SubmissionId,
			"node_type":     view.NodeType,
			"token":         token,
		})
	}
	return selectionResponse(m, applied), nil
}

func (s *selectionService) Load(ctx context.Context, view dto.SelectionView) (*selection.Manager, entity.NodeScope, error) {
	return s.load(ctx, SelectionKey(view))
}

func selectionResponse(m *selection.Manager, applied bool) *dto.SelectionResponse {
	header := m.Header()
	return &dto.SelectionResponse{
		Mode:          string(m.State().Mode),
		Count:         m.EffectiveCount(),
		TotalMatching: m.Window().TotalMatching,
		Header: dto.SelectionHeader{
			Checked:       header.Checked(),
			Indeterminate: header.Indeterminate(),
		},
		ScopeVersion:   m.ScopeVersion(),
		SelectedOnPage: m.SelectedOnPage(),
		Applied:        applied,
	}
}
