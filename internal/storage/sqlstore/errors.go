package sqlstore

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// isUniqueViolation reports whether err is a unique-constraint failure on
// either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
