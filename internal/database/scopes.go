package database

import (
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// OwnedBy restricts a query to rows belonging to userID.
func OwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// NameContains is a case-insensitive substring match on the name column.
// An empty term matches everything.
func NameContains(term string) func(*gorm.DB) *gorm.DB {
	term = strings.TrimSpace(term)
	return func(db *gorm.DB) *gorm.DB {
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
}

// OrderBy sorts by column, breaking ties on id in the same direction so
// pages stay stable. column must come from an allow-list.
func OrderBy(column string, desc bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		if column != "id" {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
		}
		return db
	}
}

// Paginate applies a 1-based page and page size. Offsets that would
// overflow saturate so the page is empty instead of wrapping to page 1.
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 1
		}
		offset := math.MaxInt
		if page-1 <= math.MaxInt/limit {
			offset = (page - 1) * limit
		}
		return db.Offset(offset).Limit(limit)
	}
}
