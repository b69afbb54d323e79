package validation

import (
	"fmt"

	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
)

const (
	// MaxBodySize is the maximum allowed request body size (1 MB).
	// A full batch import of MaxBatchSize rows fits comfortably.
	MaxBodySize = 1 << 20

	// MaxBatchSize is the maximum number of employees per bulk import.
	MaxBatchSize = 1000
)

// CheckSliceCount validates that a slice is neither empty nor larger than max.
func CheckSliceCount(fieldName string, count, max int) error {
	if count == 0 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must not be empty", fieldName))
	}
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}
