package model

import (
	"time"

	"github.com/google/uuid"
)

type ApprovedStudy struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudyName         string    `gorm:"type:varchar(255);not null"`
	StudyAbbreviation string    `gorm:"type:varchar(64)"`
	DbGaPID           string    `gorm:"column:dbgap_id;type:varchar(64)"`
	ControlledAccess  bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (ApprovedStudy) TableName() string {
	return "approved_studies"
}
