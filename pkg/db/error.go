package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// duplicateKeyMarkers are the driver-level unique-violation messages, one
// per supported dialect: postgres 23505, mysql 1062, sqlite 2067. Gorm only
// yields ErrDuplicatedKey when the dialector translates errors, so the raw
// strings are matched as a fallback.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation on
// any supported dialect. The request layer maps these to a conflict
// response instead of an internal error.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
