package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "github.com/admin-bn/company-controller/pkg/domain-errors"
)

type sample struct {
	FirmCity string `json:"firmCity" validate:"required,max=5"`
	Email    string `json:"email" validate:"omitempty,email"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(sample{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "firmCity is required", err.Error())

	err = Validate(sample{FirmCity: strings.Repeat("x", 6)})
	assert.Equal(t, "firmCity must be at most 5 characters", err.Error())

	err = Validate(sample{FirmCity: "Bonn", Email: "nope"})
	assert.Equal(t, "email is not a valid address", err.Error())

	assert.NoError(t, Validate(sample{FirmCity: "Bonn"}))
}

func TestErrorMessageForeignError(t *testing.T) {
	assert.Equal(t, "invalid request body", ErrorMessage(errors.New("boom")))
}

func TestCheckSliceCount(t *testing.T) {
	assert.ErrorContains(t, CheckSliceCount("employees", 0, 2), "employees must not be empty")
	assert.NoError(t, CheckSliceCount("employees", 2, 2))

	err := CheckSliceCount("employees", 3, 2)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.ErrorContains(t, err, "max 2 allowed")
}
