package dwerr_test

import (
	"errors"
	"strings"
	"testing"

	"deskwise.io/infra/assert"
	"deskwise.io/infra/dwerr"
)

func TestWrapPreservesSentinel(t *testing.T) {
	sentinel := errors.New("base failure")
	wrapped := dwerr.Wrap(dwerr.Wrap(sentinel))
	assert.True(t, errors.Is(wrapped, sentinel))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.IsNil(t, dwerr.Wrap(nil))
}

func TestErrorfWrapping(t *testing.T) {
	sentinel := errors.New("base failure")
	err := dwerr.Errorf("context for %s: %w", "caller", sentinel)
	assert.True(t, errors.Is(err, sentinel))

	var dwe dwerr.DWError
	assert.True(t, errors.As(err, &dwe), assert.Must())
	assert.Equal(t, dwe.BaseError(), "context for caller: base failure")
}

func TestErrorIncludesCallsite(t *testing.T) {
	err := dwerr.New("something broke")
	assert.True(t, strings.Contains(err.Error(), "error_test.go"),
		assert.Errorf("error was %q", err.Error()))
}

func TestFriendlyMessage(t *testing.T) {
	err := dwerr.Friendlyf(errors.New("pq: constraint violation"), "That name is already taken")
	assert.Equal(t, dwerr.UserFriendlyMessage(err), "That name is already taken")

	// friendly message survives further wrapping
	assert.Equal(t, dwerr.UserFriendlyMessage(dwerr.Wrap(err)), "That name is already taken")

	assert.Equal(t, dwerr.UserFriendlyMessage(errors.New("bare")), "an unknown error occurred")
}

func TestBaseErrorOmitsWrapMarkers(t *testing.T) {
	err := dwerr.Wrap(dwerr.New("root cause"))

	var dwe dwerr.DWError
	assert.True(t, errors.As(err, &dwe), assert.Must())
	assert.Equal(t, dwe.BaseError(), "root cause")
	assert.False(t, strings.Contains(dwe.BaseError(), "wrapped"))
}
