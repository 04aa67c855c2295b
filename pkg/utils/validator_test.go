package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=50"`
	Birth    string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sample{Email: "a@x.com", Password: "longenough1", Birth: "1990-04-01"})
	assert.Nil(t, errs)
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	errs := ValidateStruct(sample{Email: "nope", Password: "short", Birth: "01/04/1990"})

	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Minimum length is 8", errs["password"])
	assert.Equal(t, "Date has wrong format. Use YYYY-MM-DD", errs["date_of_birth"])
}

func TestValidateStruct_Required(t *testing.T) {
	errs := ValidateStruct(sample{})

	assert.Len(t, errs, 3)
	assert.Equal(t, "This field is required", errs["email"])
}

func TestFormatValidationErrors(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"email": "Invalid email format"})
	assert.Equal(t, "email: Invalid email format", msg)
}
