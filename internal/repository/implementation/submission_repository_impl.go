package implementation

import (
	"context"
	"errors"
	"time"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/mapper"
	"datahub-portal-be/internal/model"
	"datahub-portal-be/internal/repository/contract"
	"datahub-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubmissionMapper
}

func NewSubmissionRepository(db *gorm.DB) contract.SubmissionRepository {
	return &SubmissionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubmissionMapper(),
	}
}

func (r *SubmissionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, submission *entity.Submission) error {
	m := r.mapper.ToModel(submission)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*submission = *r.mapper.ToEntity(m)
	return nil
}

func (r *SubmissionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Submission, error) {
	var m model.Submission
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SubmissionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Submission, error) {
	var models []*model.Submission
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SubmissionRepositoryImpl) UpdateOrganizationName(ctx context.Context, orgId uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Submission{}).
		Scopes(specification.ByOrganizationID{OrganizationID: orgId}.Apply).
		Updates(map[string]interface{}{"organization_name": name, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *SubmissionRepositoryImpl) UpdateConcierge(ctx context.Context, orgId uuid.UUID, name, email string, skip []entity.SubmissionStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Submission{}).
		Scopes(
			specification.ByOrganizationID{OrganizationID: orgId}.Apply,
			specification.SubmissionStatusNotIn{Statuses: skip}.Apply,
		).
		Updates(map[string]interface{}{
			"concierge_name":  name,
			"concierge_email": email,
			"updated_at":      time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *SubmissionRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}
