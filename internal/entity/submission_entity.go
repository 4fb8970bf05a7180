package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionStatusNew        SubmissionStatus = "New"
	SubmissionStatusInProgress SubmissionStatus = "In Progress"
	SubmissionStatusSubmitted  SubmissionStatus = "Submitted"
	SubmissionStatusReleased   SubmissionStatus = "Released"
	SubmissionStatusCompleted  SubmissionStatus = "Completed"
	SubmissionStatusCanceled   SubmissionStatus = "Canceled"
	SubmissionStatusDeleted    SubmissionStatus = "Deleted"
)

// FinalSubmissionStatuses no longer receive cascaded organization changes.
var FinalSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusCompleted,
	SubmissionStatusCanceled,
	SubmissionStatusDeleted,
}

// Submission carries denormalized copies of its organization's name and
// concierge so list views need no join.
type Submission struct {
	Id               uuid.UUID
	Name             string
	StudyId          uuid.UUID
	OrganizationId   *uuid.UUID
	OrganizationName string
	ConciergeName    string
	ConciergeEmail   string
	Status           SubmissionStatus
	SubmitterId      uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
