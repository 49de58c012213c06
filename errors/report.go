package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode is reported for a nil error.
	SuccessCode = 0

	// Errors that do not carry a registered code are reported as internal,
	// with a generic message instead of their own.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Report returns the code and the message that may be shown to a user of
// the node for given error.
//
// Errors that do not descend from a registered error are internal. They
// get code 1 and a generic message unless debug is set. Recovered panics
// keep their code but lose their message. In debug mode the
// message is formatted with %+v and may carry a stack trace.
func Report(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}
	code := Code(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode:
		return internalCode, internalLog
	case ErrPanic.Is(err):
		// The panic value may expose internals.
		return code, ErrPanic.desc
	default:
		return code, err.Error()
	}
}

type coder interface {
	Code() uint32
}

// Code returns the registered code of given error, unwrapping it if needed.
// An error without a registered cause has code 1.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces every error that does not originate from a registered
// error, and every recovered panic, with a generic internal error.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if ErrPanic.Is(err) || Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
