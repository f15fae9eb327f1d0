package deepdoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alqudimi/deepdoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := deepdoc.Errorf(deepdoc.ENOTFOUND, "project path %q does not exist", "/nope")

	assert.Equal(t, deepdoc.ENOTFOUND, deepdoc.ErrorCode(err))
	assert.Equal(t, "project path \"/nope\" does not exist", deepdoc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, deepdoc.ErrorCode(nil))
	assert.Empty(t, deepdoc.ErrorMessage(nil))
}

func TestErrorCode_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	inner := deepdoc.Errorf(deepdoc.ETIMEOUT, "model call timed out")
	err := &deepdoc.RetryError{Attempts: 3, Err: fmt.Errorf("invoke: %w", inner)}

	assert.Equal(t, deepdoc.ETIMEOUT, deepdoc.ErrorCode(err))
	assert.Equal(t, "model call timed out", deepdoc.ErrorMessage(err))
	assert.Equal(t, 3, deepdoc.Attempts(err))
}

func TestErrorCode_PlainErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, deepdoc.EINTERNAL, deepdoc.ErrorCode(err))
	assert.Equal(t, "Internal error.", deepdoc.ErrorMessage(err))
	assert.Equal(t, 1, deepdoc.Attempts(err))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{deepdoc.ECONNECTION, true},
		{deepdoc.ETIMEOUT, true},
		{deepdoc.EMODEL, true},
		{deepdoc.EINVALID, false},
		{deepdoc.ECANCELED, false},
		{deepdoc.EINTERNAL, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, deepdoc.IsRetryable(deepdoc.Errorf(tt.code, "x")))
		})
	}
}
