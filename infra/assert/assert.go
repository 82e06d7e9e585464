package assert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func apply(opts []Option) options {
	var os options
	for _, o := range opts {
		o.apply(&os)
	}
	return os
}

func fail(t *testing.T, os options, format string, args ...interface{}) {
	t.Helper()
	if os.msg != "" {
		t.Logf("%s", os.msg)
	}
	if os.stop {
		t.Fatalf(format, args...)
	} else {
		t.Errorf(format, args...)
	}
}

// Equal asserts that got and want are equal per go-cmp
func Equal(t *testing.T, got, want interface{}, opts ...Option) {
	t.Helper()
	os := apply(opts)
	if !cmp.Equal(got, want, os.cmpOpts...) {
		if os.diff {
			fail(t, os, "assert.Equal failed, diff (-got +want):\n%s", cmp.Diff(got, want, os.cmpOpts...))
		} else {
			fail(t, os, "assert.Equal failed, got %+v, want %+v", got, want)
		}
	}
}

// NotEqual asserts that got and want are not equal per go-cmp
func NotEqual(t *testing.T, got, want interface{}, opts ...Option) {
	t.Helper()
	os := apply(opts)
	if cmp.Equal(got, want, os.cmpOpts...) {
		fail(t, os, "assert.NotEqual failed, both %+v", got)
	}
}

// True asserts that the condition holds
func True(t *testing.T, cond bool, opts ...Option) {
	t.Helper()
	if !cond {
		fail(t, apply(opts), "assert.True failed")
	}
}

// False asserts that the condition does not hold
func False(t *testing.T, cond bool, opts ...Option) {
	t.Helper()
	if cond {
		fail(t, apply(opts), "assert.False failed")
	}
}

// NoErr asserts that err is nil, and stops the test otherwise since
// subsequent assertions rarely make sense after an unexpected error
func NoErr(t *testing.T, err error, opts ...Option) {
	t.Helper()
	if err != nil {
		os := apply(opts)
		os.stop = true
		fail(t, os, "assert.NoErr failed: %v", err)
	}
}

// NotNil asserts that got is a non-nil value
func NotNil(t *testing.T, got interface{}, opts ...Option) {
	t.Helper()
	if got == nil {
		fail(t, apply(opts), "assert.NotNil failed")
	}
}

// IsNil asserts that got is nil
func IsNil(t *testing.T, got interface{}, opts ...Option) {
	t.Helper()
	if got != nil {
		fail(t, apply(opts), "assert.IsNil failed, got %+v", got)
	}
}
