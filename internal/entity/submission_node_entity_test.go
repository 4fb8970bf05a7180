package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNodeScopeKeySeparatorsInValues(t *testing.T) {
	sub := uuid.New()

	a := NodeScope{Filter: NodeFilter{SubmissionId: sub, NodeType: "sample", Search: "a|b"}, Sort: "c"}
	b := NodeScope{Filter: NodeFilter{SubmissionId: sub, NodeType: "sample", Search: "a"}, Sort: "b|c"}
	assert.NotEqual(t, a.Key(), b.Key())

	c := NodeScope{Filter: NodeFilter{SubmissionId: sub, NodeType: "sample|New"}}
	d := NodeScope{Filter: NodeFilter{SubmissionId: sub, NodeType: "sample", Status: "New"}}
	assert.NotEqual(t, c.Key(), d.Key())
}

func TestNodeScopeKeyStable(t *testing.T) {
	scope := NodeScope{Filter: NodeFilter{SubmissionId: uuid.New(), NodeType: "file", Status: "Error"}, Sort: "nodeId:asc"}
	same := scope

	assert.Equal(t, scope.Key(), same.Key())
	assert.NotEqual(t, scope.Key(), NodeScope{Filter: scope.Filter}.Key())
}
