package model

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string           `gorm:"type:varchar(255);not null;uniqueIndex:idx_organizations_name_lower,expression:lower(name)"`
	Abbreviation   string           `gorm:"type:varchar(64)"`
	Description    string           `gorm:"type:text"`
	Status         string           `gorm:"type:varchar(16);not null;default:'Active';index"`
	ConciergeId    *uuid.UUID       `gorm:"type:uuid"`
	ConciergeName  string           `gorm:"type:varchar(255)"`
	ConciergeEmail string           `gorm:"type:varchar(255)"`
	Studies        []*ApprovedStudy `gorm:"many2many:organization_studies;"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

type OrganizationStudy struct {
	OrganizationId  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApprovedStudyId uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (OrganizationStudy) TableName() string {
	return "organization_studies"
}
