// file: internals/helpers/json_response_test.go
package helper

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrorsFlattensValidatorErrors(t *testing.T) {
	type payload struct {
		Title string `validate:"required"`
		Type  string `validate:"required,oneof=holiday event exam ptm"`
	}

	err := validator.New().Struct(payload{Type: "liburan"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Contains(t, fields, "title")
	require.Contains(t, fields, "type")
	assert.Equal(t, []string{"required"}, fields["title"])
	assert.Equal(t, []string{"oneof"}, fields["type"])
}

func TestFieldErrorsFallsBackForPlainErrors(t *testing.T) {
	fields := FieldErrors(errors.New("boom"))
	assert.Equal(t, []string{"boom"}, fields["_"])
}
