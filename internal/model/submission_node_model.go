package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubmissionNode struct {
	Id           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubmissionId uuid.UUID         `gorm:"type:uuid;not null;index:idx_submission_nodes_scope,priority:1"`
	NodeType     string            `gorm:"type:varchar(64);not null;index:idx_submission_nodes_scope,priority:2"`
	NodeId       string            `gorm:"type:varchar(255);not null"`
	Status       string            `gorm:"type:varchar(16);not null;default:'New';index"`
	Properties   datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime"`
}

func (SubmissionNode) TableName() string {
	return "submission_nodes"
}
