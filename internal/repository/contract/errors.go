package contract

import (
	"fmt"

	"datahub-portal-be/internal/pkg/apperr"
)

var (
	ErrOrganizationExists = fmt.Errorf("an organization with this name already exists: %w", apperr.ErrConflict)
)
