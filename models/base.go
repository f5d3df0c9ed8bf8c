package models

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// generateDocumentNumber builds a human readable document number from a type
// prefix and a uuid derived token, e.g. "PRD-1A2B3C4D5E6F".
// Uniqueness is enforced by the column index; callers retry on a duplicate.
func generateDocumentNumber(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return prefix + "-" + token
}

// isDuplicateKeyError reports whether err is a MySQL duplicate entry error (1062).
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
