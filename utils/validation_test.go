package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createCheckInput struct {
	Name           string   `json:"name" validate:"required"`
	SupportedKinds []string `json:"supported_kinds" validate:"required,min=1,dive,oneof=text image"`
	Upstreams      []string `json:"upstream_services"`
}

func TestValidateStruct_Valid(t *testing.T) {
	input := createCheckInput{
		Name:           "toxicity",
		SupportedKinds: []string{"text"},
	}
	assert.NoError(t, ValidateStruct(input))
}

func TestValidateStruct_MissingRequired(t *testing.T) {
	err := ValidateStruct(createCheckInput{SupportedKinds: []string{"text"}})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	fields := GetValidationFields(err)
	assert.Contains(t, fields, "Name")
	assert.Equal(t, "Name is required", fields["Name"])
}

func TestValidateStruct_BadKind(t *testing.T) {
	err := ValidateStruct(createCheckInput{
		Name:           "toxicity",
		SupportedKinds: []string{"video"},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestIsValidationError_OtherError(t *testing.T) {
	assert.False(t, IsValidationError(assert.AnError))
	assert.Nil(t, GetValidationFields(assert.AnError))
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("4b4a9d65-8fc3-4509-a8ce-95a0b599cf7e"))
	assert.Error(t, ValidateUUID("not-a-uuid"))
}
