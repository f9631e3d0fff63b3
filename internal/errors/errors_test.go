package errors_test

import (
	"fmt"
	"testing"

	"codeberg.org/mutker/ministatus/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	errFactory := errors.New()

	assert.Equal(t, "Invalid interval value", errFactory.New(errors.ErrInvalidInterval).Error())
	assert.Equal(t, "custom", errFactory.WithMessage(errors.ErrInternal, "custom").Error())
	assert.Equal(t, "Unknown collector: foo", errFactory.WithData(errors.ErrUnknownCollector, "foo").Error())
	assert.Equal(t, "some_code", errFactory.New(errors.ErrorCode("some_code")).Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := errors.New().Wrap(errors.ErrOperationFailed, cause)

	assert.Equal(t, "Operation failed: disk on fire", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, errors.ErrOperationFailed, err.Code())
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrNotRunning)
	outer := errFactory.Wrap(errors.ErrOperationFailed, fmt.Errorf("signal: %w", inner))

	assert.True(t, errors.HasCode(outer, errors.ErrOperationFailed))
	assert.True(t, errors.HasCode(outer, errors.ErrNotRunning))
	assert.False(t, errors.HasCode(outer, errors.ErrTimeout))
	assert.False(t, errors.HasCode(nil, errors.ErrTimeout))
	assert.False(t, errors.HasCode(fmt.Errorf("plain"), errors.ErrTimeout))
}
