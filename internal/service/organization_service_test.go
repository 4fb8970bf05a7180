package service

import (
	"context"
	"testing"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/pkg/apperr"
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/pkg/events"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orgFixture struct {
	uow     *fakeUnitOfWork
	svc     IOrganizationService
	mailer  *fakeMailer
	events  *fakeEventPublisher
	studies []*entity.ApprovedStudy
	admin   uuid.UUID
}

func newOrgFixture() *orgFixture {
	uow := newFakeUnitOfWork()
	studies := []*entity.ApprovedStudy{
		{Id: uuid.New(), StudyName: "Alpha Study", StudyAbbreviation: "ALPHA"},
		{Id: uuid.New(), StudyName: "Beta Study", StudyAbbreviation: "BETA"},
		{Id: uuid.New(), StudyName: "Gamma Trial", StudyAbbreviation: "GAMMA"},
	}
	uow.studies.studies = studies

	mailer := &fakeMailer{}
	evts := &fakeEventPublisher{}
	log := logger.NewNopLogger()
	builder := pagination.NewBuilder(pagination.Config{DefaultPageSize: 20, MaxPageSize: 100, DefaultDirection: pagination.Desc})

	return &orgFixture{
		uow:     uow,
		svc:     NewOrganizationService(&fakeFactory{uow: uow}, builder, mailer, NewAuditPublisher(evts, log), log),
		mailer:  mailer,
		events:  evts,
		studies: studies,
		admin:   uuid.New(),
	}
}

func (f *orgFixture) create(t *testing.T, name string, studies ...uuid.UUID) *dto.OrganizationResponse {
	t.Helper()
	res, err := f.svc.CreateOrganization(context.Background(), f.admin, &dto.CreateOrganizationRequest{Name: name, StudyIds: studies})
	require.NoError(t, err)
	return res
}

func (f *orgFixture) addSubmission(orgId uuid.UUID, status entity.SubmissionStatus) *entity.Submission {
	sub := &entity.Submission{Id: uuid.New(), OrganizationId: &orgId, Status: status}
	f.uow.submissions.submissions[sub.Id] = sub
	return sub
}

func strPtr(s string) *string { return &s }

func TestCreateOrganization(t *testing.T) {
	f := newOrgFixture()
	conciergeID := uuid.New()

	res, err := f.svc.CreateOrganization(context.Background(), f.admin, &dto.CreateOrganizationRequest{
		Name:         "  National Cancer Org ",
		Abbreviation: "NCO",
		Concierge:    &dto.ConciergeRequest{Id: conciergeID, Name: "Dana", Email: "dana@example.org"},
		StudyIds:     []uuid.UUID{f.studies[1].Id, f.studies[0].Id, f.studies[1].Id},
	})
	require.NoError(t, err)

	assert.Equal(t, "National Cancer Org", res.Name)
	assert.Equal(t, string(entity.OrganizationStatusActive), res.Status)
	require.NotNil(t, res.ConciergeId)
	assert.Equal(t, conciergeID, *res.ConciergeId)
	assert.Len(t, res.Studies, 2)

	assert.Equal(t, []sentMail{{to: "dana@example.org", concierge: "Dana", organization: "National Cancer Org"}}, f.mailer.sent)
	assert.Equal(t, []string{events.TypeOrganizationCreated}, f.events.types())
}

func TestCreateOrganizationDuplicateName(t *testing.T) {
	f := newOrgFixture()
	f.create(t, "Acme")

	_, err := f.svc.CreateOrganization(context.Background(), f.admin, &dto.CreateOrganizationRequest{Name: "ACME"})
	assert.ErrorIs(t, err, contract.ErrOrganizationExists)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCreateOrganizationUnknownStudy(t *testing.T) {
	f := newOrgFixture()

	_, err := f.svc.CreateOrganization(context.Background(), f.admin, &dto.CreateOrganizationRequest{
		Name:     "Acme",
		StudyIds: []uuid.UUID{f.studies[0].Id, uuid.New()},
	})
	assert.ErrorIs(t, err, ErrStudyNotFound)
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.Empty(t, f.uow.orgs.orgs)
}

func TestEditOrganizationRenameCascades(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme")
	open := f.addSubmission(org.Id, entity.SubmissionStatusInProgress)
	done := f.addSubmission(org.Id, entity.SubmissionStatusCompleted)

	res, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, Name: strPtr("Acme Labs")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Labs", res.Name)

	// renames reach every submission, final ones included
	assert.Equal(t, "Acme Labs", open.OrganizationName)
	assert.Equal(t, "Acme Labs", done.OrganizationName)
	assert.Equal(t, []string{events.TypeOrganizationCreated, events.TypeOrganizationUpdated}, f.events.types())
	assert.Empty(t, f.mailer.sent)
}

func TestEditOrganizationRenameToTakenName(t *testing.T) {
	f := newOrgFixture()
	f.create(t, "Acme")
	other := f.create(t, "Globex")

	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: other.Id, Name: strPtr("acme")})
	assert.ErrorIs(t, err, contract.ErrOrganizationExists)
}

func TestEditOrganizationRenameOnlyCaseOfItself(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme")

	res, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, Name: strPtr("ACME")})
	require.NoError(t, err)
	assert.Equal(t, "ACME", res.Name)
}

func TestEditOrganizationBlankName(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme")

	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, Name: strPtr("   ")})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
}

func TestEditOrganizationConciergeSkipsFinalSubmissions(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme")
	open := f.addSubmission(org.Id, entity.SubmissionStatusSubmitted)
	canceled := f.addSubmission(org.Id, entity.SubmissionStatusCanceled)

	concierge := &dto.ConciergeRequest{Id: uuid.New(), Name: "Sam", Email: "sam@example.org"}
	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, Concierge: concierge})
	require.NoError(t, err)

	assert.Equal(t, "Sam", open.ConciergeName)
	assert.Equal(t, "sam@example.org", open.ConciergeEmail)
	assert.Empty(t, canceled.ConciergeName)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "sam@example.org", f.mailer.sent[0].to)

	// a contact detail change for the same person is not a new assignment
	concierge.Email = "sam.new@example.org"
	_, err = f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, Concierge: concierge})
	require.NoError(t, err)
	assert.Equal(t, "sam.new@example.org", open.ConciergeEmail)
	assert.Len(t, f.mailer.sent, 1)
}

func TestEditOrganizationRemoveConcierge(t *testing.T) {
	f := newOrgFixture()
	res, err := f.svc.CreateOrganization(context.Background(), f.admin, &dto.CreateOrganizationRequest{
		Name:      "Acme",
		Concierge: &dto.ConciergeRequest{Id: uuid.New(), Name: "Dana", Email: "dana@example.org"},
	})
	require.NoError(t, err)
	sub := f.addSubmission(res.Id, entity.SubmissionStatusNew)
	sub.ConciergeName = "Dana"

	res, err = f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: res.Id, RemoveConcierge: true})
	require.NoError(t, err)
	assert.Nil(t, res.ConciergeId)
	assert.Empty(t, sub.ConciergeName)
}

func TestEditOrganizationReplacesStudies(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme", f.studies[0].Id, f.studies[1].Id)

	ids := []uuid.UUID{f.studies[1].Id, f.studies[2].Id}
	res, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: org.Id, StudyIds: &ids})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Studies))
	for _, st := range res.Studies {
		names = append(names, st.StudyAbbreviation)
	}
	assert.ElementsMatch(t, []string{"BETA", "GAMMA"}, names)

	changes := f.events.events[len(f.events.events)-1].Payload()["changes"].(map[string]interface{})
	studies := changes["studies"].(map[string]interface{})
	assert.Equal(t, []uuid.UUID{f.studies[2].Id}, studies["added"])
	assert.Equal(t, []uuid.UUID{f.studies[0].Id}, studies["removed"])
}

func TestEditOrganizationWithoutChanges(t *testing.T) {
	f := newOrgFixture()
	org := f.create(t, "Acme", f.studies[0].Id)

	ids := []uuid.UUID{f.studies[0].Id}
	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{
		Id:       org.Id,
		Name:     strPtr("Acme"),
		StudyIds: &ids,
	})
	require.NoError(t, err)
	assert.Zero(t, f.uow.orgs.updates)
	assert.Equal(t, []string{events.TypeOrganizationCreated}, f.events.types())
}

func TestEditOrganizationNotFound(t *testing.T) {
	f := newOrgFixture()

	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: uuid.New(), Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListOrganizations(t *testing.T) {
	f := newOrgFixture()
	f.create(t, "Acme")
	globex := f.create(t, "Globex")
	_, err := f.svc.EditOrganization(context.Background(), f.admin, &dto.EditOrganizationRequest{Id: globex.Id, Status: strPtr("Inactive")})
	require.NoError(t, err)

	res, err := f.svc.ListOrganizations(context.Background(), &dto.ListOrganizationsRequest{Status: "All"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = f.svc.ListOrganizations(context.Background(), &dto.ListOrganizationsRequest{Status: "Inactive"})
	require.NoError(t, err)
	require.EqualValues(t, 1, res.Total)
	assert.Equal(t, "Globex", res.Organizations[0].Name)
}

func TestListOrganizationsRejectsNestedSort(t *testing.T) {
	f := newOrgFixture()

	_, err := f.svc.ListOrganizations(context.Background(), &dto.ListOrganizationsRequest{OrderBy: "studies.studyName"})
	var sortErr *pagination.InvalidSortFieldError
	assert.ErrorAs(t, err, &sortErr)

	_, err = f.svc.ListOrganizations(context.Background(), &dto.ListOrganizationsRequest{OrderBy: "studyCount"})
	assert.ErrorAs(t, err, &sortErr)
}

func TestListApprovedStudiesSearch(t *testing.T) {
	f := newOrgFixture()

	res, err := f.svc.ListApprovedStudies(context.Background(), &dto.ListApprovedStudiesRequest{Search: "study"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Studies, 2)
}

func TestReconcileStudies(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	added, removed := ReconcileStudies([]uuid.UUID{a, b}, []uuid.UUID{b, c})
	assert.Equal(t, []uuid.UUID{c}, added)
	assert.Equal(t, []uuid.UUID{a}, removed)

	added, removed = ReconcileStudies([]uuid.UUID{a}, []uuid.UUID{a})
	assert.Empty(t, added)
	assert.Empty(t, removed)

	added, removed = ReconcileStudies(nil, []uuid.UUID{c, a})
	assert.ElementsMatch(t, []uuid.UUID{a, c}, added)
	assert.True(t, added[0].String() < added[1].String())
	assert.Empty(t, removed)
}
