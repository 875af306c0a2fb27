// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, typed payloads and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "key path not found",
			wantStr: "[NOT_FOUND] key path not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "empty key path",
			wantStr: "[INVALID_INPUT] empty key path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		assert.Equal(t, errors.ErrInternal, err.Code)
		assert.Equal(t, baseErr, err.Wrapped)
		assert.Equal(t, "[INTERNAL] internal error: base error", err.Error())
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "not found").
		WithDetail("path", "a.b").
		WithDetails(map[string]interface{}{"depth": 2})

	assert.Equal(t, "a.b", err.Details["path"])
	assert.Equal(t, 2, err.Details["depth"])
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.True(t, stderrors.Is(err1, err2))
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrFileAccess, "denied"),
			code:     errors.ErrFileAccess,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrParse, errors.GetErrorCode(errors.New(errors.ErrParse, "bad")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestParseFailure(t *testing.T) {
	err := errors.NewParseFailure(errors.SideTemplate, []errors.SyntaxError{
		{Line: 3, Message: "mapping values are not allowed in this context"},
	})

	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
	assert.Equal(t, "template", errors.GetErrorDetails(err)["side"])

	var pf *errors.ParseFailure
	require.True(t, stderrors.As(err, &pf))
	assert.Equal(t, errors.SideTemplate, pf.Side)
	require.Len(t, pf.Errors, 1)
	assert.Equal(t, 3, pf.Errors[0].Line)
	assert.Contains(t, err.Error(), "line 3: mapping values are not allowed")
}

func TestStructuralError(t *testing.T) {
	err := errors.NewStructuralError(7, 4, "end before start")

	assert.True(t, errors.IsErrorCode(err, errors.ErrStructural))

	var se *errors.StructuralError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, 7, se.Start)
	assert.Equal(t, 4, se.End)
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	assert.True(t, errors.IsErrorCode(configErr, errors.ErrConfigLoad))

	var inner *errors.Error
	require.True(t, stderrors.As(configErr.Unwrap(), &inner))
	assert.True(t, errors.IsErrorCode(inner, errors.ErrFileAccess))
	assert.True(t, stderrors.Is(configErr, rootCause))
}
