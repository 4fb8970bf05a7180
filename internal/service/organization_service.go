package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/pkg/mailer"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"
	"datahub-portal-be/internal/repository/unitofwork"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
)

var (
	ErrOrganizationNotFound = fmt.Errorf("organization not found: %w", apperr.ErrNotFound)
	ErrStudyNotFound        = fmt.Errorf("approved study not found: %w", apperr.ErrBadRequest)
)

var organizationSortColumns = func() map[string]bool {
	roots := make(map[string]bool, len(specification.OrganizationColumns))
	for k := range specification.OrganizationColumns {
		roots[k] = true
	}
	return roots
}()

var studySortColumns = map[string]bool{"studyName": true, "studyAbbreviation": true, "createdAt": true}

type IOrganizationService interface {
	CreateOrganization(ctx context.Context, userId uuid.UUID, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error)
	EditOrganization(ctx context.Context, userId uuid.UUID, req *dto.EditOrganizationRequest) (*dto.OrganizationResponse, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*dto.OrganizationResponse, error)
	ListOrganizations(ctx context.Context, req *dto.ListOrganizationsRequest) (*dto.ListOrganizationsResponse, error)
	ListApprovedStudies(ctx context.Context, req *dto.ListApprovedStudiesRequest) (*dto.ListApprovedStudiesResponse, error)
}

type organizationService struct {
	uowFactory unitofwork.RepositoryFactory
	builder    *pagination.Builder
	mailer     mailer.IEmailService
	audit      IAuditPublisher
	logger     logger.ILogger
}

func NewOrganizationService(
	uowFactory unitofwork.RepositoryFactory,
	builder *pagination.Builder,
	mailer mailer.IEmailService,
	audit IAuditPublisher,
	logger logger.ILogger,
) IOrganizationService {
	return &organizationService{
		uowFactory: uowFactory,
		builder:    builder,
		mailer:     mailer,
		audit:      audit,
		logger:     logger,
	}
}

func (s *organizationService) CreateOrganization(ctx context.Context, userId uuid.UUID, req *dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, uow, name, uuid.Nil); err != nil {
		return nil, err
	}

	studyIds, err := s.resolveStudies(ctx, uow, req.StudyIds)
	if err != nil {
		return nil, err
	}

	org := &entity.Organization{
		Id:           uuid.New(),
		Name:         name,
		Abbreviation: strings.TrimSpace(req.Abbreviation),
		Description:  req.Description,
		Status:       entity.OrganizationStatusActive,
	}
	if req.Concierge != nil {
		applyConcierge(org, req.Concierge)
	}

	if err := uow.OrganizationRepository().Create(ctx, org); err != nil {
		return nil, err
	}
	if err := uow.OrganizationRepository().ReplaceStudies(ctx, org.Id, studyIds); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.audit.OrganizationCreated(ctx, userId, org.Id, org.Name)
	if org.ConciergeEmail != "" {
		s.notifyConcierge(org)
	}
	return s.GetOrganization(ctx, org.Id)
}

// EditOrganization applies a partial update. A rename is copied onto every
// submission of the organization; a concierge change only onto submissions
// that are still open.
func (s *organizationService) EditOrganization(ctx context.Context, userId uuid.UUID, req *dto.EditOrganizationRequest) (*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: req.Id}, specification.PreloadStudies{})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}

	changes := map[string]interface{}{}

	nameChanged := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", apperr.ErrBadRequest)
		}
		if name != org.Name {
			if err := s.ensureNameFree(ctx, uow, name, org.Id); err != nil {
				return nil, err
			}
			changes["name"] = map[string]string{"old": org.Name, "new": name}
			org.Name = name
			nameChanged = true
		}
	}
	if req.Abbreviation != nil && strings.TrimSpace(*req.Abbreviation) != org.Abbreviation {
		org.Abbreviation = strings.TrimSpace(*req.Abbreviation)
		changes["abbreviation"] = org.Abbreviation
	}
	if req.Description != nil && *req.Description != org.Description {
		org.Description = *req.Description
		changes["description"] = true
	}
	if req.Status != nil && entity.OrganizationStatus(*req.Status) != org.Status {
		org.Status = entity.OrganizationStatus(*req.Status)
		changes["status"] = org.Status
	}

	conciergeChanged, newConcierge := false, false
	switch {
	case req.RemoveConcierge && org.ConciergeId != nil:
		org.ConciergeId, org.ConciergeName, org.ConciergeEmail = nil, "", ""
		conciergeChanged = true
	case req.Concierge != nil && !sameConcierge(org, req.Concierge):
		newConcierge = org.ConciergeId == nil || *org.ConciergeId != req.Concierge.Id
		applyConcierge(org, req.Concierge)
		conciergeChanged = true
	}
	if conciergeChanged {
		changes["concierge"] = org.ConciergeId
	}

	if req.StudyIds != nil {
		requested, err := s.resolveStudies(ctx, uow, *req.StudyIds)
		if err != nil {
			return nil, err
		}
		added, removed := ReconcileStudies(org.StudyIds(), requested)
		if len(added) > 0 || len(removed) > 0 {
			if err := uow.OrganizationRepository().ReplaceStudies(ctx, org.Id, requested); err != nil {
				return nil, err
			}
			changes["studies"] = map[string]interface{}{"added": added, "removed": removed}
		}
	}

	if len(changes) == 0 {
		return s.toResponse(org), nil
	}

	if err := uow.OrganizationRepository().Update(ctx, org); err != nil {
		return nil, err
	}

	if nameChanged {
		n, err := uow.SubmissionRepository().UpdateOrganizationName(ctx, org.Id, org.Name)
		if err != nil {
			return nil, err
		}
		changes["submissions_renamed"] = n
	}
	if conciergeChanged {
		n, err := uow.SubmissionRepository().UpdateConcierge(ctx, org.Id, org.ConciergeName, org.ConciergeEmail, entity.FinalSubmissionStatuses)
		if err != nil {
			return nil, err
		}
		changes["submissions_reassigned"] = n
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.audit.OrganizationUpdated(ctx, userId, org.Id, changes)
	s.logger.Info("ORGANIZATION", "Organization updated", map[string]interface{}{"organization_id": org.Id, "changes": changes})
	if newConcierge {
		s.notifyConcierge(org)
	}
	return s.GetOrganization(ctx, org.Id)
}

func (s *organizationService) GetOrganization(ctx context.Context, id uuid.UUID) (*dto.OrganizationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	org, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: id}, specification.PreloadStudies{})
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}
	return s.toResponse(org), nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, req *dto.ListOrganizationsRequest) (*dto.ListOrganizationsResponse, error) {
	q, err := s.builder.Build(pagination.Request{
		PageSize:      req.First,
		Offset:        req.Offset,
		SortFields:    []string{defaultSort(req.OrderBy, "name")},
		SortDirection: req.SortDirection,
	})
	if err != nil {
		return nil, err
	}
	if err := q.RestrictToFlat(organizationSortColumns); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "All" {
		status = ""
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	filter := specification.ByOrganizationStatus{Status: status}
	total, err := uow.OrganizationRepository().Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	orgs, err := uow.OrganizationRepository().FindAll(ctx,
		filter,
		specification.PreloadStudies{},
		specification.Page{Query: q, Columns: pagination.SQLColumns{
			Table:   "organizations",
			Aliases: specification.OrganizationColumns,
		}},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ListOrganizationsResponse{
		Total:         total,
		Organizations: make([]*dto.OrganizationResponse, 0, len(orgs)),
		Sort:          q.Tree(),
	}
	for _, org := range orgs {
		res.Organizations = append(res.Organizations, s.toResponse(org))
	}
	return res, nil
}

func (s *organizationService) ListApprovedStudies(ctx context.Context, req *dto.ListApprovedStudiesRequest) (*dto.ListApprovedStudiesResponse, error) {
	q, err := s.builder.Build(pagination.Request{
		PageSize:      req.First,
		Offset:        req.Offset,
		SortFields:    []string{defaultSort(req.OrderBy, "studyName")},
		SortDirection: req.SortDirection,
	})
	if err != nil {
		return nil, err
	}
	if err := q.RestrictToFlat(studySortColumns); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	filter := specification.StudyNameLike{Term: req.Search}
	total, err := uow.StudyRepository().Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	studies, err := uow.StudyRepository().FindAll(ctx, filter, specification.Page{Query: q, Columns: pagination.SQLColumns{
		Table: "approved_studies",
		Aliases: map[string]string{
			"studyName":         "study_name",
			"studyAbbreviation": "study_abbreviation",
			"createdAt":         "created_at",
		},
	}})
	if err != nil {
		return nil, err
	}

	res := &dto.ListApprovedStudiesResponse{Total: total, Studies: make([]*dto.StudyResponse, 0, len(studies))}
	for _, st := range studies {
		res.Studies = append(res.Studies, toStudyResponse(st))
	}
	return res, nil
}

func (s *organizationService) ensureNameFree(ctx context.Context, uow unitofwork.UnitOfWork, name string, self uuid.UUID) error {
	specs := []specification.Specification{specification.ByNameInsensitive{Name: name}}
	if self != uuid.Nil {
		specs = append(specs, specification.ExcludeID{ID: self})
	}
	n, err := uow.OrganizationRepository().Count(ctx, specs...)
	if err != nil {
		return err
	}
	if n > 0 {
		return contract.ErrOrganizationExists
	}
	return nil
}

// resolveStudies dedupes ids and checks that every one exists.
func (s *organizationService) resolveStudies(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]uuid.UUID, error) {
	unique := dedupeIDs(ids)
	if len(unique) == 0 {
		return unique, nil
	}

	studies, err := uow.StudyRepository().FindAll(ctx, specification.ByIDs{IDs: unique})
	if err != nil {
		return nil, err
	}
	if len(studies) != len(unique) {
		found := make(map[uuid.UUID]bool, len(studies))
		for _, st := range studies {
			found[st.Id] = true
		}
		for _, id := range unique {
			if !found[id] {
				return nil, fmt.Errorf("%w: %s", ErrStudyNotFound, id)
			}
		}
	}
	return unique, nil
}

func (s *organizationService) notifyConcierge(org *entity.Organization) {
	if err := s.mailer.SendConciergeAssigned(org.ConciergeEmail, org.ConciergeName, org.Name); err != nil {
		s.logger.Warn("ORGANIZATION", "Concierge email failed", map[string]interface{}{
			"organization_id": org.Id,
			"error":           err.Error(),
		})
	}
}

func (s *organizationService) toResponse(org *entity.Organization) *dto.OrganizationResponse {
	res := &dto.OrganizationResponse{
		Id:             org.Id,
		Name:           org.Name,
		Abbreviation:   org.Abbreviation,
		Description:    org.Description,
		Status:         string(org.Status),
		ConciergeId:    org.ConciergeId,
		ConciergeName:  org.ConciergeName,
		ConciergeEmail: org.ConciergeEmail,
		Studies:        make([]*dto.StudyResponse, 0, len(org.Studies)),
		CreatedAt:      org.CreatedAt,
		UpdatedAt:      org.UpdatedAt,
	}
	for _, st := range org.Studies {
		res.Studies = append(res.Studies, toStudyResponse(st))
	}
	return res
}

// ReconcileStudies returns the ids to link and to unlink to turn current
// into requested. Both results are sorted.
func ReconcileStudies(current, requested []uuid.UUID) (added, removed []uuid.UUID) {
	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		want[id] = true
		if !have[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			removed = append(removed, id)
		}
	}
	sortIDs(added)
	sortIDs(removed)
	return added, removed
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func applyConcierge(org *entity.Organization, c *dto.ConciergeRequest) {
	id := c.Id
	org.ConciergeId = &id
	org.ConciergeName = strings.TrimSpace(c.Name)
	org.ConciergeEmail = strings.TrimSpace(c.Email)
}

func sameConcierge(org *entity.Organization, c *dto.ConciergeRequest) bool {
	return org.ConciergeId != nil &&
		*org.ConciergeId == c.Id &&
		org.ConciergeName == strings.TrimSpace(c.Name) &&
		org.ConciergeEmail == strings.TrimSpace(c.Email)
}

func defaultSort(orderBy, fallback string) string {
	if strings.TrimSpace(orderBy) == "" {
		return fallback
	}
	return orderBy
}

func toStudyResponse(st *entity.ApprovedStudy) *dto.StudyResponse {
	return &dto.StudyResponse{
		Id:                st.Id,
		StudyName:         st.StudyName,
		StudyAbbreviation: st.StudyAbbreviation,
		DbGaPID:           st.DbGaPID,
		ControlledAccess:  st.ControlledAccess,
	}
}
