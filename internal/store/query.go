package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByName        = "name"
	orderByAddedAt     = "added_at"
	orderByLastChecked = "last_checked_at"
	orderByLastStock   = "last_stock"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByName:        "name ASC",
	orderByAddedAt:     "added_at DESC",
	orderByLastChecked: "last_checked_at DESC NULLS LAST",
	orderByLastStock:   "last_stock DESC NULLS LAST",
}

const defaultOrderBy = "name ASC"

const baseItemsSelect = `SELECT ` + itemColumns + `
FROM items`

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an item
// query, returning the SQL string and positional parameters.
func (q *ItemQuery) ToSQL() (string, []any) {
	var conditions []string
	var args []any
	paramIdx := 1

	if q.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", paramIdx))
		args = append(args, *q.UserID)
		paramIdx++
	}

	if q.ActiveOnly {
		conditions = append(conditions, "active")
	}

	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR product_id ILIKE $%d)", paramIdx, paramIdx,
		))
		args = append(args, "%"+q.Search+"%")
		paramIdx++
	}

	sql := baseItemsSelect
	if len(conditions) > 0 {
		sql += "\nWHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := validOrderBy[q.OrderBy]
	if !ok {
		orderBy = defaultOrderBy
	}
	sql += "\nORDER BY " + orderBy

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	sql += fmt.Sprintf("\nLIMIT $%d", paramIdx)
	args = append(args, limit)
	paramIdx++

	if q.Offset > 0 {
		sql += fmt.Sprintf(" OFFSET $%d", paramIdx)
		args = append(args, q.Offset)
	}

	return sql, args
}
