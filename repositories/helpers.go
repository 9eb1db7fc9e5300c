package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique_violation on
// the given constraint. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isForeignKeyViolation reports whether err is a postgres
// foreign_key_violation.
func isForeignKeyViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23503"
}
