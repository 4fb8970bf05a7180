package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NodeStatus string

const (
	NodeStatusNew     NodeStatus = "New"
	NodeStatusPassed  NodeStatus = "Passed"
	NodeStatusWarning NodeStatus = "Warning"
	NodeStatusError   NodeStatus = "Error"
)

// SubmissionNode is one uploaded data record (a row of a metadata file) of
// a given node type inside a submission.
type SubmissionNode struct {
	Id           uuid.UUID
	SubmissionId uuid.UUID
	NodeType     string
	NodeId       string
	Status       NodeStatus
	Properties   map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NodeFilter narrows records of one node type within a submission. Zero
// values mean "no filter".
type NodeFilter struct {
	SubmissionId uuid.UUID `json:"submissionId"`
	NodeType     string    `json:"nodeType"`
	Status       string    `json:"status"`
	Search       string    `json:"search"`
}

// NodeScope is the filter and sort a record list is viewed under. Any change
// to it invalidates the selection made against the list.
type NodeScope struct {
	Filter NodeFilter `json:"filter"`
	Sort   string     `json:"sort"`
}

// Key identifies the scope. Two scopes share a key only when every field is
// equal.
func (s NodeScope) Key() string {
	raw, _ := json.Marshal(s)
	return string(raw)
}
