package implementation

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/mapper"
	"datahub-portal-be/internal/model"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"

	"gorm.io/gorm"
)

type StudyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudyMapper
}

func NewStudyRepository(db *gorm.DB) contract.StudyRepository {
	return &StudyRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudyMapper(),
	}
}

func (r *StudyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StudyRepositoryImpl) Create(ctx context.Context, study *entity.ApprovedStudy) error {
	m := r.mapper.ToModel(study)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*study = *r.mapper.ToEntity(m)
	return nil
}

func (r *StudyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ApprovedStudy, error) {
	var models []*model.ApprovedStudy
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StudyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ApprovedStudy{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
