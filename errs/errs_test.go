package errs_test

import (
	"errors"
	"testing"

	"github.com/bsurber/vfsimage/errs"
	"github.com/stretchr/testify/assert"
)

func TestWithMessagePreservesKind(t *testing.T) {
	err := errs.ErrNotFound.WithMessage(`no such entry "foo"`)
	assert.Equal(t, `not found: no such entry "foo"`, err.Error())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := errs.ErrHostIO.Wrap(cause)

	assert.ErrorIs(t, err, errs.ErrHostIO)
	assert.ErrorIs(t, err, cause)
}
