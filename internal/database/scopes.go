package database

import (
	"gorm.io/gorm"

	"github.com/skillanthropy/skillanthropy-api/internal/utils"
)

// Paginate applies offset or keyset pagination to a GORM query. Cursor
// pages read one extra row so callers can tell whether another page exists.
func Paginate(req utils.PageRequest, idColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if req.Mode == utils.CursorMode {
			if req.After > 0 {
				db = db.Where(idColumn+" < ?", req.After)
			}
			return db.Order(idColumn + " DESC").Limit(req.Limit + 1)
		}
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}
