package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/memory"
	"datahub-portal-be/internal/repository/specification"
	"datahub-portal-be/internal/repository/unitofwork"
	"datahub-portal-be/pkg/bulk"
	"datahub-portal-be/pkg/events"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
)

var errBackendDown = errors.New("backend down")

// fakeNodeRepository keeps records in slice order; sort keys are ignored.
type fakeNodeRepository struct {
	mu        sync.Mutex
	nodes     []*entity.SubmissionNode
	lists     []contract.NodeSelector
	queries   []pagination.Query
	deletes   []contract.NodeSelector
	deleteErr error
}

func (r *fakeNodeRepository) matches(n *entity.SubmissionNode, sel contract.NodeSelector) bool {
	f := sel.Filter
	if f.SubmissionId != uuid.Nil && n.SubmissionId != f.SubmissionId {
		return false
	}
	if f.NodeType != "" && n.NodeType != f.NodeType {
		return false
	}
	if f.Status != "" && string(n.Status) != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(n.NodeId), strings.ToLower(f.Search)) {
		return false
	}
	id := n.Id.String()
	if sel.IncludeIds != nil && !containsString(sel.IncludeIds, id) {
		return false
	}
	return !containsString(sel.ExcludeIds, id)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r *fakeNodeRepository) List(_ context.Context, sel contract.NodeSelector, q pagination.Query) ([]*entity.SubmissionNode, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, sel)
	r.queries = append(r.queries, q)

	var out []*entity.SubmissionNode
	for _, n := range r.nodes {
		if r.matches(n, sel) {
			out = append(out, n)
		}
	}
	total := int64(len(out))

	if q.Skip > 0 {
		if q.Skip >= len(out) {
			out = nil
		} else {
			out = out[q.Skip:]
		}
	}
	if !q.Unbounded && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, total, nil
}

func (r *fakeNodeRepository) Delete(_ context.Context, sel contract.NodeSelector) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, sel)
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}

	kept := r.nodes[:0]
	var n int64
	for _, node := range r.nodes {
		if r.matches(node, sel) {
			n++
			continue
		}
		kept = append(kept, node)
	}
	r.nodes = kept
	return n, nil
}

func (r *fakeNodeRepository) CreateBulk(_ context.Context, nodes []*entity.SubmissionNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes = append(r.nodes, nodes...)
	return nil
}

type fakeSubmissionRepository struct {
	submissions map[uuid.UUID]*entity.Submission
	touched     []uuid.UUID
}

func (r *fakeSubmissionRepository) Create(_ context.Context, s *entity.Submission) error {
	r.submissions[s.Id] = s
	return nil
}

func (r *fakeSubmissionRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Submission, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return r.submissions[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepository) FindAll(context.Context, ...specification.Specification) ([]*entity.Submission, error) {
	out := make([]*entity.Submission, 0, len(r.submissions))
	for _, s := range r.submissions {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSubmissionRepository) UpdateOrganizationName(_ context.Context, orgId uuid.UUID, name string) (int64, error) {
	var n int64
	for _, s := range r.submissions {
		if s.OrganizationId != nil && *s.OrganizationId == orgId {
			s.OrganizationName = name
			n++
		}
	}
	return n, nil
}

func (r *fakeSubmissionRepository) UpdateConcierge(_ context.Context, orgId uuid.UUID, name, email string, skip []entity.SubmissionStatus) (int64, error) {
	var n int64
	for _, s := range r.submissions {
		if s.OrganizationId == nil || *s.OrganizationId != orgId {
			continue
		}
		final := false
		for _, st := range skip {
			if s.Status == st {
				final = true
			}
		}
		if final {
			continue
		}
		s.ConciergeName, s.ConciergeEmail = name, email
		n++
	}
	return n, nil
}

func (r *fakeSubmissionRepository) Touch(_ context.Context, id uuid.UUID) error {
	r.touched = append(r.touched, id)
	return nil
}

type fakeStudyRepository struct {
	studies []*entity.ApprovedStudy
}

func (r *fakeStudyRepository) Create(_ context.Context, st *entity.ApprovedStudy) error {
	r.studies = append(r.studies, st)
	return nil
}

func (r *fakeStudyRepository) find(specs []specification.Specification) []*entity.ApprovedStudy {
	var out []*entity.ApprovedStudy
	for _, st := range r.studies {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByIDs:
				found := false
				for _, id := range s.IDs {
					if id == st.Id {
						found = true
					}
				}
				ok = ok && found
			case specification.StudyNameLike:
				ok = ok && strings.Contains(strings.ToLower(st.StudyName), strings.ToLower(s.Term))
			}
		}
		if ok {
			out = append(out, st)
		}
	}
	return out
}

func (r *fakeStudyRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ApprovedStudy, error) {
	return r.find(specs), nil
}

func (r *fakeStudyRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.find(specs))), nil
}

type fakeOrganizationRepository struct {
	orgs    map[uuid.UUID]*entity.Organization
	links   map[uuid.UUID][]uuid.UUID
	studies *fakeStudyRepository
	updates int
}

func (r *fakeOrganizationRepository) Create(_ context.Context, org *entity.Organization) error {
	for _, o := range r.orgs {
		if strings.EqualFold(o.Name, org.Name) {
			return contract.ErrOrganizationExists
		}
	}
	cp := *org
	cp.Studies = nil
	cp.CreatedAt, cp.UpdatedAt = time.Now(), time.Now()
	r.orgs[org.Id] = &cp
	return nil
}

func (r *fakeOrganizationRepository) Update(_ context.Context, org *entity.Organization) error {
	r.updates++
	cp := *org
	cp.Studies = nil
	cp.UpdatedAt = time.Now()
	r.orgs[org.Id] = &cp
	return nil
}

func (r *fakeOrganizationRepository) ReplaceStudies(_ context.Context, orgId uuid.UUID, studyIds []uuid.UUID) error {
	r.links[orgId] = append([]uuid.UUID(nil), studyIds...)
	return nil
}

func (r *fakeOrganizationRepository) find(specs []specification.Specification) []*entity.Organization {
	var out []*entity.Organization
	for _, o := range r.orgs {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				ok = ok && o.Id == s.ID
			case specification.ExcludeID:
				ok = ok && o.Id != s.ID
			case specification.ByNameInsensitive:
				ok = ok && strings.EqualFold(o.Name, s.Name)
			case specification.ByOrganizationStatus:
				ok = ok && (s.Status == "" || string(o.Status) == s.Status)
			}
		}
		if !ok {
			continue
		}
		cp := *o
		cp.Studies = r.studies.find([]specification.Specification{specification.ByIDs{IDs: r.links[o.Id]}})
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeOrganizationRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Organization, error) {
	found := r.find(specs)
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

func (r *fakeOrganizationRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Organization, error) {
	return r.find(specs), nil
}

func (r *fakeOrganizationRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.find(specs))), nil
}

// fakeUnitOfWork shares one set of repositories across units; Commit only
// counts.
type fakeUnitOfWork struct {
	orgs        *fakeOrganizationRepository
	studies     *fakeStudyRepository
	submissions *fakeSubmissionRepository
	nodes       *fakeNodeRepository
	commits     int
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error {
	u.commits++
	return nil
}
func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) OrganizationRepository() contract.OrganizationRepository { return u.orgs }
func (u *fakeUnitOfWork) StudyRepository() contract.StudyRepository               { return u.studies }
func (u *fakeUnitOfWork) SubmissionRepository() contract.SubmissionRepository     { return u.submissions }
func (u *fakeUnitOfWork) SubmissionNodeRepository() contract.SubmissionNodeRepository {
	return u.nodes
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newFakeUnitOfWork() *fakeUnitOfWork {
	studies := &fakeStudyRepository{}
	return &fakeUnitOfWork{
		orgs: &fakeOrganizationRepository{
			orgs:    map[uuid.UUID]*entity.Organization{},
			links:   map[uuid.UUID][]uuid.UUID{},
			studies: studies,
		},
		studies:     studies,
		submissions: &fakeSubmissionRepository{submissions: map[uuid.UUID]*entity.Submission{}},
		nodes:       &fakeNodeRepository{},
	}
}

type fakePublisher struct {
	payloads []any
}

func (p *fakePublisher) Publish(_ context.Context, payload any) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type fakeEventPublisher struct {
	events []events.Event
}

func (p *fakeEventPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *fakeEventPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

type sentMail struct {
	to, concierge, organization string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) SendConciergeAssigned(to, concierge, organization string) error {
	m.sent = append(m.sent, sentMail{to: to, concierge: concierge, organization: organization})
	return nil
}

// nodeFixture wires the record services over fakes and a memory selection
// store, with one submission holding n "sample" records.
type nodeFixture struct {
	uow        *fakeUnitOfWork
	submission *entity.Submission
	records    []*entity.SubmissionNode
	selections ISelectionService
	nodes      INodeService
	bulk       IBulkService
	publisher  *fakePublisher
	events     *fakeEventPublisher
	user       uuid.UUID
}

func (f *nodeFixture) view() dto.SelectionView {
	return dto.SelectionView{UserId: f.user, SubmissionId: f.submission.Id, NodeType: "sample"}
}

func (f *nodeFixture) actor() dto.Actor {
	return dto.Actor{UserId: f.user}
}

func (f *nodeFixture) listRequest() *dto.ListNodesRequest {
	return &dto.ListNodesRequest{SubmissionId: f.submission.Id, UserId: f.user, NodeType: "sample"}
}

func newNodeFixture(n int, maxIDs int) *nodeFixture {
	uow := newFakeUnitOfWork()
	user := uuid.New()
	sub := &entity.Submission{Id: uuid.New(), Name: "batch", SubmitterId: user, Status: entity.SubmissionStatusInProgress}
	uow.submissions.submissions[sub.Id] = sub

	statuses := []entity.NodeStatus{entity.NodeStatusNew, entity.NodeStatusPassed, entity.NodeStatusError}
	records := make([]*entity.SubmissionNode, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, &entity.SubmissionNode{
			Id:           uuid.New(),
			SubmissionId: sub.Id,
			NodeType:     "sample",
			NodeId:       fmt.Sprintf("sample-%03d", i),
			Status:       statuses[i%len(statuses)],
			Properties:   map[string]interface{}{"idx": float64(i), "tissue": "blood"},
		})
	}
	uow.nodes.nodes = append(uow.nodes.nodes, records...)

	log := logger.NewNopLogger()
	selections := NewSelectionService(memory.NewSelectionStore(time.Hour), log)
	publisher := &fakePublisher{}
	evts := &fakeEventPublisher{}
	builder := pagination.NewBuilder(pagination.Config{
		DefaultPageSize:  10,
		MaxPageSize:      100,
		DefaultDirection: pagination.Desc,
		DefaultSortField: "updatedAt",
	})
	nodes := NewNodeService(
		uow.nodes,
		&fakeFactory{uow: uow},
		selections,
		builder,
		bulk.NewDispatcher(bulk.Config{MaxIDsLimit: maxIDs}),
		publisher,
		NewAuditPublisher(evts, log),
		log,
	)

	return &nodeFixture{
		uow:        uow,
		submission: sub,
		records:    records,
		selections: selections,
		nodes:      nodes,
		bulk:       NewBulkService(selections, nodes, log),
		publisher:  publisher,
		events:     evts,
		user:       user,
	}
}
