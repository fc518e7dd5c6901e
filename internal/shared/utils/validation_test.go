package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keygate/internal/shared/errors"
)

type sampleCommand struct {
	AccountID uint   `json:"account_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=10"`
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(sampleCommand{AccountID: 1, Name: "ok"})
	assert.NoError(t, err)
}

func TestValidateStruct_MissingFields(t *testing.T) {
	err := ValidateStruct(sampleCommand{})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "account_id is required")
	assert.Contains(t, appErr.Details, "name is required")
}

func TestValidateStruct_UsesJSONTagNames(t *testing.T) {
	err := ValidateStruct(sampleCommand{AccountID: 1, Name: "far too long a name"})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "name must be at most 10 characters long")
}
