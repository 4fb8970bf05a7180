package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"
	"datahub-portal-be/internal/repository/unitofwork"
	"datahub-portal-be/pkg/bulk"
	"datahub-portal-be/pkg/pagination"
	"datahub-portal-be/pkg/selection"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatTSV = "tsv"
)

var (
	ErrSubmissionNotFound = fmt.Errorf("submission not found: %w", apperr.ErrNotFound)
	ErrNotSubmitter       = fmt.Errorf("only the submitter or an admin may change these records: %w", apperr.ErrForbidden)
)

type INodeService interface {
	ListNodes(ctx context.Context, req *dto.ListNodesRequest) (*dto.ListNodesResponse, error)
	DeleteRecords(ctx context.Context, actor dto.Actor, req *dto.DeleteRecordsRequest) (*dto.DeleteRecordsResponse, error)
	ExportRecords(ctx context.Context, actor dto.Actor, req *dto.ExportRecordsRequest, w io.Writer) error
	// Authorize fails with ErrNotSubmitter unless actor submitted the
	// submission or is an admin.
	Authorize(ctx context.Context, submissionId uuid.UUID, actor dto.Actor) error
	// DeleteSelection and ExportSelection run a resolved selection through
	// the bulk dispatcher.
	DeleteSelection(ctx context.Context, userId uuid.UUID, state selection.State, scope entity.NodeScope) (int64, error)
	ExportSelection(ctx context.Context, state selection.State, scope entity.NodeScope, format string, w io.Writer) (int64, error)
}

type nodeService struct {
	nodes      contract.SubmissionNodeRepository
	uowFactory unitofwork.RepositoryFactory
	selections ISelectionService
	builder    *pagination.Builder
	dispatcher *bulk.Dispatcher
	publisher  IPublisherService
	audit      IAuditPublisher
	logger     logger.ILogger
	// last sort that built successfully, per view
	lastSorts *cache.Cache
}

func NewNodeService(
	nodes contract.SubmissionNodeRepository,
	uowFactory unitofwork.RepositoryFactory,
	selections ISelectionService,
	builder *pagination.Builder,
	dispatcher *bulk.Dispatcher,
	publisher IPublisherService,
	audit IAuditPublisher,
	logger logger.ILogger,
) INodeService {
	return &nodeService{
		nodes:      nodes,
		uowFactory: uowFactory,
		selections: selections,
		builder:    builder,
		dispatcher: dispatcher,
		publisher:  publisher,
		audit:      audit,
		logger:     logger,
		lastSorts:  cache.New(time.Hour, 10*time.Minute),
	}
}

func (s *nodeService) requireSubmission(ctx context.Context, id uuid.UUID) (*entity.Submission, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	submission, err := uow.SubmissionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}
	return submission, nil
}

func (s *nodeService) Authorize(ctx context.Context, submissionId uuid.UUID, actor dto.Actor) error {
	submission, err := s.requireSubmission(ctx, submissionId)
	if err != nil {
		return err
	}
	if actor.Admin || submission.SubmitterId == actor.UserId {
		return nil
	}
	s.logger.Warn("NODE", "Rejected records change by non-submitter", map[string]interface{}{
		"submission_id": submissionId,
		"user_id":       actor.UserId,
	})
	return ErrNotSubmitter
}

func (s *nodeService) resetView(ctx context.Context, view dto.SelectionView, action string) {
	if err := s.selections.Reset(ctx, view); err != nil {
		s.logger.Warn("NODE", "Failed to reset selection after "+action, map[string]interface{}{"error": err.Error()})
	}
}

func (s *nodeService) ListNodes(ctx context.Context, req *dto.ListNodesRequest) (*dto.ListNodesResponse, error) {
	if _, err := s.requireSubmission(ctx, req.SubmissionId); err != nil {
		return nil, err
	}

	view := dto.SelectionView{UserId: req.UserId, SubmissionId: req.SubmissionId, NodeType: req.NodeType}
	q, warnings, err := s.buildQuery(view, pagination.Request{
		PageSize:      req.First,
		Offset:        req.Offset,
		SortFields:    []string{req.OrderBy},
		SortDirection: req.SortDirection,
	})
	if err != nil {
		return nil, err
	}

	scope := entity.NodeScope{
		Filter: entity.NodeFilter{
			SubmissionId: req.SubmissionId,
			NodeType:     req.NodeType,
			Status:       req.Status,
			Search:       req.Search,
		},
		Sort: EncodeSort(q.Sort),
	}

	token, err := s.selections.BeginPage(ctx, view, scope)
	if err != nil {
		return nil, err
	}

	nodes, total, err := s.nodes.List(ctx, contract.NodeSelector{Filter: scope.Filter}, q)
	if err != nil {
		return nil, err
	}

	window := selection.PageWindow{Rows: make([]selection.ItemID, 0, len(nodes)), TotalMatching: int(total)}
	for _, n := range nodes {
		window.Rows = append(window.Rows, n.Id.String())
	}
	sel, err := s.selections.ApplyPage(ctx, view, token, window)
	if err != nil {
		return nil, err
	}

	res := &dto.ListNodesResponse{
		Total:      total,
		Nodes:      make([]*dto.NodeResponse, 0, len(nodes)),
		Properties: propertyNames(nodes),
		Sort:       q.Tree(),
		Warnings:   warnings,
		Selection:  sel,
	}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, toNodeResponse(n))
	}
	return res, nil
}

// buildQuery builds the page query. An unusable sort field does not fail
// the request: the view's last valid sort (or the default) is used and a
// warning is returned.
func (s *nodeService) buildQuery(view dto.SelectionView, req pagination.Request) (pagination.Query, []string, error) {
	key := SelectionKey(view)

	q, err := s.builder.Build(req)
	if err == nil {
		err = restrictNodeSort(q)
	}
	if err == nil {
		s.lastSorts.Set(key, q.Sort, cache.DefaultExpiration)
		return q, nil, nil
	}

	var sortErr *pagination.InvalidSortFieldError
	if !errors.As(err, &sortErr) {
		return pagination.Query{}, nil, err
	}

	s.logger.Warn("NODE", "Invalid sort field, falling back", map[string]interface{}{
		"field":  sortErr.Field,
		"reason": sortErr.Reason,
		"view":   key,
	})

	req.SortFields = nil
	q, err = s.builder.Build(req)
	if err != nil {
		return pagination.Query{}, nil, err
	}
	if last, found := s.lastSorts.Get(key); found {
		q = q.WithSort(last.([]pagination.SortField))
	}
	return q, []string{sortErr.Error()}, nil
}

func restrictNodeSort(q pagination.Query) error {
	if err := q.RestrictTo(contract.NodeSortRoots); err != nil {
		return err
	}
	return q.RestrictNesting(contract.NodeNestedSortRoots)
}

func (s *nodeService) DeleteRecords(ctx context.Context, actor dto.Actor, req *dto.DeleteRecordsRequest) (*dto.DeleteRecordsResponse, error) {
	if err := s.Authorize(ctx, req.SubmissionId, actor); err != nil {
		return nil, err
	}

	scope := entity.NodeScope{Filter: entity.NodeFilter{
		SubmissionId: req.SubmissionId,
		NodeType:     req.NodeType,
		Status:       req.Status,
		Search:       req.Search,
	}}
	state := StateFromRequest(req.DeleteAll, req.NodeIds, req.ExclusiveIds)

	affected, err := s.DeleteSelection(ctx, actor.UserId, state, scope)
	if err != nil {
		return nil, err
	}

	s.resetView(ctx, dto.SelectionView{UserId: actor.UserId, SubmissionId: req.SubmissionId, NodeType: req.NodeType}, "delete")
	return &dto.DeleteRecordsResponse{Affected: affected}, nil
}

func (s *nodeService) DeleteSelection(ctx context.Context, userId uuid.UUID, state selection.State, scope entity.NodeScope) (int64, error) {
	res, err := s.dispatcher.Dispatch(ctx, state, scope, bulk.ExecutorFunc(func(ctx context.Context, req bulk.Request) (bulk.Result, error) {
		sel, err := SelectorFor(req)
		if err != nil {
			return bulk.Result{}, err
		}
		affected, err := s.nodes.Delete(ctx, sel)
		return bulk.Result{Affected: affected}, err
	}))
	if err != nil {
		return 0, err
	}

	submissionId := scope.Filter.SubmissionId
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SubmissionRepository().Touch(ctx, submissionId); err != nil {
		s.logger.Warn("NODE", "Failed to touch submission", map[string]interface{}{"error": err.Error(), "submission_id": submissionId})
	}

	if err := s.publisher.Publish(ctx, dto.RecordsDeletedMessage{
		SubmissionId: submissionId,
		NodeType:     scope.Filter.NodeType,
		UserId:       userId,
		Affected:     res.Affected,
	}); err != nil {
		s.logger.Error("NODE", "Failed to publish records-deleted message", map[string]interface{}{"error": err.Error()})
	}
	s.audit.RecordsDeleted(ctx, userId, submissionId, scope.Filter.NodeType, res.Affected, state.Mode == selection.ModeExclusion)

	s.logger.Info("NODE", "Records deleted", map[string]interface{}{
		"submission_id": submissionId,
		"node_type":     scope.Filter.NodeType,
		"mode":          state.Mode,
		"affected":      res.Affected,
	})
	return res.Affected, nil
}

func (s *nodeService) ExportRecords(ctx context.Context, actor dto.Actor, req *dto.ExportRecordsRequest, w io.Writer) error {
	if err := s.Authorize(ctx, req.SubmissionId, actor); err != nil {
		return err
	}

	q, err := s.builder.Build(pagination.Request{
		SortFields:    []string{req.OrderBy},
		SortDirection: req.SortDirection,
	})
	if err == nil {
		err = restrictNodeSort(q)
	}
	if err != nil {
		return err
	}

	scope := entity.NodeScope{
		Filter: entity.NodeFilter{
			SubmissionId: req.SubmissionId,
			NodeType:     req.NodeType,
			Status:       req.Status,
			Search:       req.Search,
		},
		Sort: EncodeSort(q.Sort),
	}
	state := StateFromRequest(req.ExportAll, req.NodeIds, req.ExclusiveIds)

	if _, err := s.ExportSelection(ctx, state, scope, req.Format, w); err != nil {
		return err
	}

	s.resetView(ctx, dto.SelectionView{UserId: actor.UserId, SubmissionId: req.SubmissionId, NodeType: req.NodeType}, "export")
	return nil
}

func (s *nodeService) ExportSelection(ctx context.Context, state selection.State, scope entity.NodeScope, format string, w io.Writer) (int64, error) {
	comma := ','
	switch format {
	case "", ExportFormatCSV:
	case ExportFormatTSV:
		comma = '\t'
	default:
		return 0, fmt.Errorf("%w: unsupported export format %q", apperr.ErrBadRequest, format)
	}

	q := pagination.Query{Unbounded: true, Sort: DecodeSort(scope.Sort)}
	res, err := s.dispatcher.Dispatch(ctx, state, scope, bulk.ExecutorFunc(func(ctx context.Context, req bulk.Request) (bulk.Result, error) {
		sel, err := SelectorFor(req)
		if err != nil {
			return bulk.Result{}, err
		}
		nodes, _, err := s.nodes.List(ctx, sel, q)
		if err != nil {
			return bulk.Result{}, err
		}
		if err := writeRecords(w, comma, nodes); err != nil {
			return bulk.Result{}, err
		}
		return bulk.Result{Affected: int64(len(nodes))}, nil
	}))
	if err != nil {
		return 0, err
	}
	return res.Affected, nil
}

// StateFromRequest turns the wire shapes { nodeIds } and
// { deleteAll, exclusiveIDs } into a selection state.
func StateFromRequest(all bool, ids, exclusive []string) selection.State {
	if all {
		return selection.State{Mode: selection.ModeExclusion, IDs: idSet(exclusive)}
	}
	if len(ids) == 0 {
		return selection.State{Mode: selection.ModeNone, IDs: map[selection.ItemID]struct{}{}}
	}
	return selection.State{Mode: selection.ModeInclusion, IDs: idSet(ids)}
}

func idSet(ids []string) map[selection.ItemID]struct{} {
	set := make(map[selection.ItemID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// SelectorFor maps a bulk request onto a record selector. Explicit ids are
// only bounded by submission and node type; status and search filters
// apply to the exclusion form.
func SelectorFor(req bulk.Request) (contract.NodeSelector, error) {
	scope, ok := req.Scope.(entity.NodeScope)
	if !ok {
		return contract.NodeSelector{}, fmt.Errorf("unexpected filter scope %T", req.Scope)
	}

	switch req.Kind {
	case bulk.KindInclude:
		return contract.NodeSelector{
			Filter: entity.NodeFilter{
				SubmissionId: scope.Filter.SubmissionId,
				NodeType:     scope.Filter.NodeType,
			},
			IncludeIds: append([]string{}, req.IncludeIDs...),
		}, nil
	case bulk.KindExcludeFromScope:
		return contract.NodeSelector{
			Filter:     scope.Filter,
			ExcludeIds: req.ExcludeIDs,
		}, nil
	}
	return contract.NodeSelector{}, fmt.Errorf("unknown bulk request kind %q", req.Kind)
}

// EncodeSort renders sort keys as "path:direction" pairs. It is part of the
// scope key, so any sort change resets the selection.
func EncodeSort(fields []pagination.SortField) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name() + ":" + string(f.Direction)
	}
	return strings.Join(parts, ",")
}

// DecodeSort reverses EncodeSort. Entries that no longer parse are skipped.
func DecodeSort(raw string) []pagination.SortField {
	if raw == "" {
		return nil
	}
	var fields []pagination.SortField
	for _, part := range strings.Split(raw, ",") {
		name, dirRaw, _ := strings.Cut(part, ":")
		dir, err := pagination.ParseDirection(dirRaw, pagination.Desc)
		if err != nil {
			continue
		}
		f, err := pagination.ParseSortField(name, dir)
		if err != nil {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func propertyNames(nodes []*entity.SubmissionNode) []string {
	seen := map[string]struct{}{}
	for _, n := range nodes {
		for k := range n.Properties {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func writeRecords(w io.Writer, comma rune, nodes []*entity.SubmissionNode) error {
	props := propertyNames(nodes)

	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(append([]string{"type", "nodeId", "status"}, props...)); err != nil {
		return err
	}

	row := make([]string, 3+len(props))
	for _, n := range nodes {
		row[0], row[1], row[2] = n.NodeType, n.NodeId, string(n.Status)
		for i, p := range props {
			row[3+i] = formatProperty(n.Properties[p])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatProperty(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func toNodeResponse(n *entity.SubmissionNode) *dto.NodeResponse {
	return &dto.NodeResponse{
		Id:         n.Id.String(),
		NodeType:   n.NodeType,
		NodeId:     n.NodeId,
		Status:     string(n.Status),
		Properties: n.Properties,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}
