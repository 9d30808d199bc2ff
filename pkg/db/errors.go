package db

import (
	"errors"
	"strings"

	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a unique constraint failure. Postgres
// errors are matched by SQLSTATE (and constraint when provided); other drivers
// fall back to the message text.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code := pkgerrors.PGCode(err); code != "" {
		if code != pkgerrors.PGUniqueViolation {
			return false
		}
		return constraintName == "" || pkgerrors.PGConstraint(err) == constraintName
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
