package model

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string     `gorm:"type:varchar(255);not null"`
	StudyId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrganizationId   *uuid.UUID `gorm:"type:uuid;index"`
	OrganizationName string     `gorm:"type:varchar(255)"`
	ConciergeName    string     `gorm:"type:varchar(255)"`
	ConciergeEmail   string     `gorm:"type:varchar(255)"`
	Status           string     `gorm:"type:varchar(32);not null;default:'New';index"`
	SubmitterId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (Submission) TableName() string {
	return "submissions"
}
