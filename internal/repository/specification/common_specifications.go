package specification

import (
	"datahub-portal-be/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// Page applies skip/limit and the sort of a built pagination query. It must
// not be passed to Count.
type Page struct {
	Query   pagination.Query
	Columns pagination.SQLColumns
}

func (s Page) Apply(db *gorm.DB) *gorm.DB {
	for _, col := range s.Query.SQLOrder(s.Columns) {
		db = db.Order(col)
	}
	if s.Query.Skip > 0 {
		db = db.Offset(s.Query.Skip)
	}
	if !s.Query.Unbounded && s.Query.Limit > 0 {
		db = db.Limit(s.Query.Limit)
	}
	return db
}
