package contract

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	Update(ctx context.Context, org *entity.Organization) error
	// ReplaceStudies makes studyIds the complete approved-study set of the organization.
	ReplaceStudies(ctx context.Context, orgId uuid.UUID, studyIds []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Organization, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Organization, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
