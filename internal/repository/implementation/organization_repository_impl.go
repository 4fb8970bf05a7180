package implementation

import (
	"context"
	"errors"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/mapper"
	"datahub-portal-be/internal/model"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type OrganizationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.OrganizationMapper
}

func NewOrganizationRepository(db *gorm.DB) contract.OrganizationRepository {
	return &OrganizationRepositoryImpl{
		db:     db,
		mapper: mapper.NewOrganizationMapper(),
	}
}

func (r *OrganizationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *OrganizationRepositoryImpl) Create(ctx context.Context, org *entity.Organization) error {
	m := r.mapper.ToModel(org)
	if err := r.db.WithContext(ctx).Omit("Studies").Create(m).Error; err != nil {
		return translateOrganizationError(err)
	}
	org.Id = m.Id
	org.CreatedAt = m.CreatedAt
	org.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OrganizationRepositoryImpl) Update(ctx context.Context, org *entity.Organization) error {
	m := r.mapper.ToModel(org)
	if err := r.db.WithContext(ctx).Omit("Studies").Save(m).Error; err != nil {
		return translateOrganizationError(err)
	}
	org.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OrganizationRepositoryImpl) ReplaceStudies(ctx context.Context, orgId uuid.UUID, studyIds []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("organization_id = ?", orgId).Delete(&model.OrganizationStudy{}).Error; err != nil {
		return err
	}
	if len(studyIds) == 0 {
		return nil
	}

	links := make([]model.OrganizationStudy, len(studyIds))
	for i, id := range studyIds {
		links[i] = model.OrganizationStudy{OrganizationId: orgId, ApprovedStudyId: id}
	}
	return db.Create(&links).Error
}

func (r *OrganizationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Organization, error) {
	var m model.Organization
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *OrganizationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Organization, error) {
	var models []*model.Organization
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *OrganizationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Organization{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func translateOrganizationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return contract.ErrOrganizationExists
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return contract.ErrOrganizationExists
	}
	return err
}
