package specification

import (
	"datahub-portal-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByOrganizationID struct {
	OrganizationID uuid.UUID
}

func (s ByOrganizationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("organization_id = ?", s.OrganizationID)
}

type SubmissionStatusNotIn struct {
	Statuses []entity.SubmissionStatus
}

func (s SubmissionStatusNotIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Statuses) == 0 {
		return db
	}
	statuses := make([]string, len(s.Statuses))
	for i, st := range s.Statuses {
		statuses[i] = string(st)
	}
	return db.Where("status NOT IN ?", statuses)
}

// StudyNameLike is a case-insensitive substring match on study name or
// abbreviation.
type StudyNameLike struct {
	Term string
}

func (s StudyNameLike) Apply(db *gorm.DB) *gorm.DB {
	if s.Term == "" {
		return db
	}
	like := "%" + s.Term + "%"
	return db.Where("study_name ILIKE ? OR study_abbreviation ILIKE ?", like, like)
}
