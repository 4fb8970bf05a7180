package service

import (
	"context"
	"io"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/pkg/logger"
)

// IBulkService runs bulk actions on the selection a user built in a view.
// The selection is cleared after a successful action and kept when the
// action fails, so the user can retry. Only the submitter or an admin may
// run them.
type IBulkService interface {
	DeleteSelected(ctx context.Context, actor dto.Actor, view dto.SelectionView) (*dto.DeleteRecordsResponse, error)
	ExportSelected(ctx context.Context, actor dto.Actor, view dto.SelectionView, format string, w io.Writer) error
}

type bulkService struct {
	selections ISelectionService
	nodes      INodeService
	logger     logger.ILogger
}

func NewBulkService(selections ISelectionService, nodes INodeService, logger logger.ILogger) IBulkService {
	return &bulkService{
		selections: selections,
		nodes:      nodes,
		logger:     logger,
	}
}

func (s *bulkService) DeleteSelected(ctx context.Context, actor dto.Actor, view dto.SelectionView) (*dto.DeleteRecordsResponse, error) {
	if err := s.nodes.Authorize(ctx, view.SubmissionId, actor); err != nil {
		return nil, err
	}
	m, scope, err := s.selections.Load(ctx, view)
	if err != nil {
		return nil, err
	}

	affected, err := s.nodes.DeleteSelection(ctx, view.UserId, m.Resolve(), scope)
	if err != nil {
		return nil, err
	}

	s.reset(ctx, view)
	return &dto.DeleteRecordsResponse{Affected: affected}, nil
}

func (s *bulkService) ExportSelected(ctx context.Context, actor dto.Actor, view dto.SelectionView, format string, w io.Writer) error {
	if err := s.nodes.Authorize(ctx, view.SubmissionId, actor); err != nil {
		return err
	}
	m, scope, err := s.selections.Load(ctx, view)
	if err != nil {
		return err
	}

	if _, err := s.nodes.ExportSelection(ctx, m.Resolve(), scope, format, w); err != nil {
		return err
	}

	s.reset(ctx, view)
	return nil
}

func (s *bulkService) reset(ctx context.Context, view dto.SelectionView) {
	if err := s.selections.Reset(ctx, view); err != nil {
		s.logger.Warn("BULK", "Failed to reset selection", map[string]interface{}{
			"error":         err.Error(),
			"submission_id": view.SubmissionId,
			"node_type":     view.NodeType,
		})
	}
}
