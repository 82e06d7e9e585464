package dwerr

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// DWError lets us figure out if this is a wrapped error
type DWError interface {
	BaseError() string
	Error() string // include this so DWError implements error for erroras linter
	Friendly() string
}

type dwError struct {
	text     string // this is intended for internal use
	friendly string // (optional) this will get propagated to the user (or developer-user)

	underlying error

	function string
	filename string
	line     int
}

var errorWrappingSuffix = ": %w"
var wrappedText = "(wrapped)"

const repoRoot = "deskwise/"

// Return a path relative to the repo root, assuming that:
// (1) there is no 'deskwise' directory created within the source tree of our repo,
// (2) the repo is cloned into the default directory.
// If the path is not within the repo, return the path unmodified.
func repoRelativePath(s string) string {
	if idx := strings.LastIndex(s, repoRoot); idx >= 0 {
		return s[idx+len(repoRoot):]
	}
	return s
}

// Given a fully qualified go function name "pkgname.[type].func",
// return "func" (or return string unchanged if no period found).
func funcName(s string) string {
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// BaseError implements DWError
// Just return the error message(s), no stack trace
func (e dwError) BaseError() string {
	var msg string
	// keep unwrapping until we're at the bottom of the wrapped stack and
	// start with the error message from the original error
	var dwe DWError
	if errors.As(e.underlying, &dwe) {
		msg = dwe.BaseError()
	} else if e.underlying != nil {
		msg = e.underlying.Error()
	}

	// if the bottom of the stack is just wrapping a non-DWError, don't show (wrapped)
	t := e.text
	if t == wrappedText {
		t = ""
	}

	// if the bottom of the stack was a dwerr.New(), just show the text,
	// and if it was a dwerr.Wrap(), just show the base error
	if msg == "" {
		return t
	} else if t == "" {
		return msg
	}

	// the bottom of the stack was dwerr.Errorf(), show the annotation + base error
	return fmt.Sprintf("%s: %s", t, msg)
}

// Error implements error
func (e dwError) Error() string {
	var u string
	if e.underlying != nil {
		u = fmt.Sprintf("%s\n", e.underlying.Error())
	}

	// fall back to friendly message if no internal message is defined
	t := e.text
	if e.text == "" {
		t = fmt.Sprintf("[friendly] %s", e.friendly)
	}

	return fmt.Sprintf("%s%s (File %s:%d, in %s)", u, t, e.filename, e.line, e.function)
}

// Unwrap implements errors.Unwrap for errors.Is
func (e *dwError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.underlying // ok if this returns nil
}

// New creates a new dwerr
func New(text string) error {
	return newError(text, "", nil, 1)
}

// Errorf is our local version of fmt.Errorf including callsite info
func Errorf(temp string, args ...interface{}) error {
	var wrapped error
	// if using %w to wrap another error, use our wrapping mechanism
	if strings.HasSuffix(temp, errorWrappingSuffix) {
		temp = strings.TrimSuffix(temp, errorWrappingSuffix)
		// use the safe cast in case this fails
		var ok bool
		wrapped, ok = args[len(args)-1].(error)
		if !ok {
			wrapped = New("seems as if dwerr.Errorf() was called with a non-error %w")
		}
		args = args[0 : len(args)-1]
	}
	return newError(fmt.Sprintf(temp, args...), "", wrapped, 1)
}

// Friendlyf wraps an error with a user-friendly message
func Friendlyf(err error, format string, args ...interface{}) error {
	s := fmt.Sprintf(format, args...)
	return newError("", s, err, 1)
}

// Wrap wraps an existing error with an additional level of the callstack
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return newError(wrappedText, "", err, 1)
}

// skips is the number of stack frames (besides newError itself) to skip
func newError(text, friendly string, wraps error, skips int) error {
	function, filename, line := whereAmI(skips + 1)
	return &dwError{
		text:       text,
		friendly:   friendly,
		underlying: wraps,
		function:   function,
		filename:   filename,
		line:       line,
	}
}

// s == stack frames to skip not including myself
func whereAmI(s int) (string, string, int) {
	pc, filename, line, ok := runtime.Caller(s + 1)
	if !ok {
		return "", "", 0
	}
	f := runtime.FuncForPC(pc)
	return funcName(f.Name()), repoRelativePath(filename), line
}

// Friendly returns the friendly message, if any, or default string
// Currently takes the first one in the stack, although we could
// eventually extend this to allow composing etc
func (e dwError) Friendly() string {
	if e.friendly != "" {
		return e.friendly
	}

	var dwe DWError
	if errors.As(e.underlying, &dwe) {
		return dwe.Friendly()
	}

	return "an unspecified error occurred"
}

// UserFriendlyMessage is just a simple wrapper to handle casting error -> dwError
func UserFriendlyMessage(err error) string {
	var dwe DWError
	if errors.As(err, &dwe) {
		return dwe.Friendly()
	}

	// note subtle difference in language from Friendly() identifies an
	// (unlikely) place where we didn't wrap an error with a dwError ever
	return "an unknown error occurred"
}
