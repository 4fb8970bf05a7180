package contract

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/repository/specification"
)

type StudyRepository interface {
	Create(ctx context.Context, study *entity.ApprovedStudy) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ApprovedStudy, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
