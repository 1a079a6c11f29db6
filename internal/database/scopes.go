package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy adds "column = ownerID" when ownerID is set; nil leaves the query
// unscoped.
func OwnedBy(column string, ownerID *uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == nil {
			return db
		}
		return db.Where(column+" = ?", *ownerID)
	}
}
