package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationColumns maps the sortable organization fields to columns.
var OrganizationColumns = map[string]string{
	"name":           "name",
	"abbreviation":   "abbreviation",
	"status":         "status",
	"conciergeName":  "concierge_name",
	"conciergeEmail": "concierge_email",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type ByOrganizationStatus struct {
	Status string
}

func (s ByOrganizationStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("status = ?", s.Status)
}

// ByNameInsensitive matches an organization name ignoring case.
type ByNameInsensitive struct {
	Name string
}

func (s ByNameInsensitive) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lower(name) = lower(?)", s.Name)
}

type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}

type PreloadStudies struct{}

func (s PreloadStudies) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Studies", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("study_name ASC")
	})
}
