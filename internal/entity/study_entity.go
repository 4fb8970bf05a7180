package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApprovedStudy struct {
	Id                uuid.UUID
	StudyName         string
	StudyAbbreviation string
	DbGaPID           string
	ControlledAccess  bool
	CreatedAt         time.Time
}
