package specification

import (
	"strings"

	"datahub-portal-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NodeColumns maps the logical record sort roots onto submission_nodes.
var NodeColumns = map[string]string{
	"nodeId":    "node_id",
	"nodeType":  "node_type",
	"status":    "status",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern using '\' as the
// escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ByNodeFilter applies every non-zero field of the filter. Search matches
// the node id or any top-level property value, case-insensitively.
type ByNodeFilter struct {
	Filter entity.NodeFilter
}

func (s ByNodeFilter) Apply(db *gorm.DB) *gorm.DB {
	f := s.Filter
	if f.SubmissionId != uuid.Nil {
		db = db.Where("submission_id = ?", f.SubmissionId)
	}
	if f.NodeType != "" {
		db = db.Where("node_type = ?", f.NodeType)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + EscapeLike(f.Search) + "%"
		db = db.Where(`(node_id ILIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM jsonb_each_text(properties) AS prop WHERE prop.value ILIKE ? ESCAPE '\'
		))`, like, like)
	}
	return db
}

// ByNodeRowIDs keeps rows whose id is listed. An empty list matches nothing.
type ByNodeRowIDs struct {
	IDs []uuid.UUID
}

func (s ByNodeRowIDs) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where("id IN ?", s.IDs)
}

type ExcludeNodeRowIDs struct {
	IDs []uuid.UUID
}

func (s ExcludeNodeRowIDs) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db
	}
	return db.Where("id NOT IN ?", s.IDs)
}
