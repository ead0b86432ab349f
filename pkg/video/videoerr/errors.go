// Package videoerr holds the failure kinds a pipeline run can end with.
// Each kind is terminal: nothing is retried and no partial output is kept.
package videoerr

import (
	"errors"

	"github.com/tauraamui/xerror"
)

const (
	KindDecode     = xerror.Kind("decode")
	KindEmptyInput = xerror.Kind("empty_input")
	KindEncode     = xerror.Kind("encode")
)

var (
	ErrDecode     = xerror.NewWithKind(KindDecode, "unable to decode media")
	ErrEmptyInput = xerror.NewWithKind(KindEmptyInput, "no frames captured from media")
	ErrEncode     = xerror.NewWithKind(KindEncode, "unable to encode media")
)

// Decode builds an error matching ErrDecode carrying a short detail.
func Decode(format string, a ...interface{}) error {
	return xerror.Errorf("%w: "+format, append([]interface{}{ErrDecode}, a...)...)
}

// Encode builds an error matching ErrEncode carrying a short detail.
func Encode(format string, a ...interface{}) error {
	return xerror.Errorf("%w: "+format, append([]interface{}{ErrEncode}, a...)...)
}

func KindOf(err error) xerror.Kind {
	switch {
	case err == nil:
		return xerror.NA
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrEncode):
		return KindEncode
	default:
		return xerror.NA
	}
}

// Describe gives the single user facing message for the kind of err,
// internal detail such as paths never leaks through it.
func Describe(err error) string {
	switch KindOf(err) {
	case KindDecode:
		return ErrDecode.ErrorMsg()
	case KindEmptyInput:
		return ErrEmptyInput.ErrorMsg()
	case KindEncode:
		return ErrEncode.ErrorMsg()
	default:
		return "unexpected failure processing media"
	}
}
