package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscaper makes user text match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchScope returns a GORM scope matching term case-insensitively as a
// substring of any of columns. Wildcards in term are matched literally.
// An empty term leaves the query unfiltered.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + likeEscaper.Replace(term) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE LOWER(?) ESCAPE '!'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}
