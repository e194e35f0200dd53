package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the storage-agnostic "no such row" error. Implementations
// map their driver error onto it so services never import gorm.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err is a missing-record condition from any
// repository implementation.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
