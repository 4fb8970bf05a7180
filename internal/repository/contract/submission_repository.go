package contract

import (
	"context"

	"datahub-portal-be/internal/entity"
	"datahub-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Submission, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Submission, error)
	// UpdateOrganizationName copies a renamed organization onto its submissions.
	UpdateOrganizationName(ctx context.Context, orgId uuid.UUID, name string) (int64, error)
	// UpdateConcierge copies a new concierge onto submissions not in skip.
	UpdateConcierge(ctx context.Context, orgId uuid.UUID, name, email string, skip []entity.SubmissionStatus) (int64, error)
	Touch(ctx context.Context, id uuid.UUID) error
}
