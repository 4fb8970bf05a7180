package unitofwork

import (
	"context"

	"datahub-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrganizationRepository() contract.OrganizationRepository
	StudyRepository() contract.StudyRepository
	SubmissionRepository() contract.SubmissionRepository
	SubmissionNodeRepository() contract.SubmissionNodeRepository
}
