package sqlstore

import (
	"github.com/Masterminds/squirrel"

	"github.com/mmynk/splitbill/internal/storage"
)

// billPredicate composes the WHERE clause for a bill filter. Every field
// adds one clause; zero values add nothing, so an empty filter matches all
// bills. prefix qualifies column names (e.g. "b.") when the bills table is
// joined.
func billPredicate(filter storage.BillFilter, prefix string) squirrel.And {
	where := squirrel.And{}
	if filter.UserID != 0 {
		where = append(where, squirrel.Eq{prefix + "user_id": filter.UserID})
	}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{prefix + "category": filter.Category})
	}
	if !filter.Since.IsZero() {
		where = append(where, squirrel.GtOrEq{prefix + "date": filter.Since})
	}
	return where
}

// whereAll applies the predicate only when it has clauses.
func whereAll(b squirrel.SelectBuilder, where squirrel.And) squirrel.SelectBuilder {
	if len(where) == 0 {
		return b
	}
	return b.Where(where)
}
