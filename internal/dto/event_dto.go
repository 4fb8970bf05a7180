package dto

import "github.com/google/uuid"

// RecordsDeletedMessage travels on the in-process records-deleted topic.
type RecordsDeletedMessage struct {
	SubmissionId uuid.UUID `json:"submissionId"`
	NodeType     string    `json:"nodeType"`
	UserId       uuid.UUID `json:"userId"`
	Affected     int64     `json:"affected"`
}

// SelectionResetNotification is pushed to users whose selection was dropped
// because records of their submission were deleted by someone else.
type SelectionResetNotification struct {
	SubmissionId uuid.UUID `json:"submissionId"`
	NodeType     string    `json:"nodeType"`
	Reason       string    `json:"reason"`
}
