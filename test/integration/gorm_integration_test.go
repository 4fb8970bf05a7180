package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/model"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"
	"datahub-portal-be/internal/repository/unitofwork"
	"datahub-portal-be/pkg/database"
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	require.NoError(t, db.SetupJoinTable(&model.Organization{}, "Studies", &model.OrganizationStudy{}))
	require.NoError(t, db.AutoMigrate(
		&model.ApprovedStudy{},
		&model.Organization{},
		&model.OrganizationStudy{},
		&model.Submission{},
		&model.SubmissionNode{},
	))
	return db
}

func TestOrganizationRepository(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	suffix := uuid.NewString()[:8]

	study := &entity.ApprovedStudy{Id: uuid.New(), StudyName: "Integration Study " + suffix, StudyAbbreviation: "IS"}
	require.NoError(t, uow.StudyRepository().Create(ctx, study))

	org := &entity.Organization{Name: "Integration Org " + suffix, Status: entity.OrganizationStatusActive}
	require.NoError(t, uow.OrganizationRepository().Create(ctx, org))
	require.NotEqual(t, uuid.Nil, org.Id)

	t.Cleanup(func() {
		db.Where("organization_id = ?", org.Id).Delete(&model.Submission{})
		db.Where("organization_id = ?", org.Id).Delete(&model.OrganizationStudy{})
		db.Where("id = ?", org.Id).Delete(&model.Organization{})
		db.Where("id = ?", study.Id).Delete(&model.ApprovedStudy{})
	})

	t.Run("Duplicate name differs only in case", func(t *testing.T) {
		dup := &entity.Organization{Name: "INTEGRATION ORG " + suffix, Status: entity.OrganizationStatusActive}
		count, err := uow.OrganizationRepository().Count(ctx, specification.ByNameInsensitive{Name: dup.Name})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		err = uow.OrganizationRepository().Create(ctx, dup)
		assert.ErrorIs(t, err, contract.ErrOrganizationExists)
	})

	t.Run("Replace studies", func(t *testing.T) {
		require.NoError(t, uow.OrganizationRepository().ReplaceStudies(ctx, org.Id, []uuid.UUID{study.Id}))

		found, err := uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: org.Id}, specification.PreloadStudies{})
		require.NoError(t, err)
		require.Len(t, found.Studies, 1)
		assert.Equal(t, study.Id, found.Studies[0].Id)

		require.NoError(t, uow.OrganizationRepository().ReplaceStudies(ctx, org.Id, nil))
		found, err = uow.OrganizationRepository().FindOne(ctx, specification.ByID{ID: org.Id}, specification.PreloadStudies{})
		require.NoError(t, err)
		assert.Empty(t, found.Studies)
	})

	t.Run("Rename cascades to submissions in one transaction", func(t *testing.T) {
		orgId := org.Id
		sub := &entity.Submission{
			Id:               uuid.New(),
			Name:             "sub-" + suffix,
			StudyId:          study.Id,
			OrganizationId:   &orgId,
			OrganizationName: org.Name,
			Status:           entity.SubmissionStatusInProgress,
			SubmitterId:      uuid.New(),
		}
		require.NoError(t, uow.SubmissionRepository().Create(ctx, sub))

		tx := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		org.Name = "Renamed Org " + suffix
		require.NoError(t, tx.OrganizationRepository().Update(ctx, org))
		affected, err := tx.SubmissionRepository().UpdateOrganizationName(ctx, org.Id, org.Name)
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)
		require.NoError(t, tx.Commit())

		got, err := uow.SubmissionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
		require.NoError(t, err)
		assert.Equal(t, org.Name, got.OrganizationName)
	})
}

func TestSubmissionNodeRepository(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx).SubmissionNodeRepository()
	submissionId := uuid.New()

	t.Cleanup(func() {
		db.Where("submission_id = ?", submissionId).Delete(&model.SubmissionNode{})
	})

	now := time.Now()
	nodes := make([]*entity.SubmissionNode, 0, 12)
	for i := 0; i < 12; i++ {
		status := entity.NodeStatusPassed
		if i%3 == 0 {
			status = entity.NodeStatusError
		}
		nodes = append(nodes, &entity.SubmissionNode{
			Id:           uuid.New(),
			SubmissionId: submissionId,
			NodeType:     "sample",
			NodeId:       fmt.Sprintf("sample-%02d", i),
			Status:       status,
			Properties:   map[string]interface{}{"age": 12 - i},
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	require.NoError(t, repo.CreateBulk(ctx, nodes))

	builder := pagination.NewBuilder(pagination.Config{DefaultPageSize: 5, MaxPageSize: 100, DefaultDirection: pagination.Desc})
	filter := entity.NodeFilter{SubmissionId: submissionId, NodeType: "sample"}

	t.Run("Sort by a property", func(t *testing.T) {
		q, err := builder.Build(pagination.Request{SortFields: []string{"properties.age"}, SortDirection: "asc"})
		require.NoError(t, err)

		got, total, err := repo.List(ctx, contract.NodeSelector{Filter: filter}, q)
		require.NoError(t, err)
		assert.EqualValues(t, 12, total)
		require.Len(t, got, 5)
		assert.Equal(t, "sample-11", got[0].NodeId)
	})

	t.Run("Filter by status", func(t *testing.T) {
		q, err := builder.Build(pagination.Request{PageSize: pagination.Unbounded})
		require.NoError(t, err)

		errored := filter
		errored.Status = string(entity.NodeStatusError)
		_, total, err := repo.List(ctx, contract.NodeSelector{Filter: errored}, q)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
	})

	t.Run("Delete all except exclusions", func(t *testing.T) {
		keep := []string{nodes[0].Id.String(), nodes[1].Id.String()}
		affected, err := repo.Delete(ctx, contract.NodeSelector{Filter: filter, ExcludeIds: keep})
		require.NoError(t, err)
		assert.EqualValues(t, 10, affected)

		q, err := builder.Build(pagination.Request{PageSize: pagination.Unbounded})
		require.NoError(t, err)
		left, total, err := repo.List(ctx, contract.NodeSelector{Filter: filter}, q)
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, left, 2)
	})

	t.Run("Empty include list deletes nothing", func(t *testing.T) {
		affected, err := repo.Delete(ctx, contract.NodeSelector{Filter: filter, IncludeIds: []string{}})
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}
