package errors

import (
	stdErrors "errors"

	"gorm.io/gorm"
)

// IsRecordNotFound reports whether err is gorm's missing-row sentinel.
func IsRecordNotFound(err error) bool {
	return stdErrors.Is(err, gorm.ErrRecordNotFound)
}
