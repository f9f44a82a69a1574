package errors

import (
	"fmt"
)

const (
	// SuccessCode is used to signal that the processing was successful
	// and no error is returned.
	SuccessCode = 0

	// All errors that do not provide a code are clubbed under an
	// internal error code and a generic message.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the error code and the message that can be exposed to a
// client. Any error that does not provide a code is categorized as error
// with code 1 and, unless debug is set, its message is replaced with a
// generic "internal error".
func Info(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessCode, ""
	}

	if code := errCode(err); code != internalCode {
		if debug {
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return internalCode, fmt.Sprintf("%+v", err)
	}
	return internalCode, internalLog
}

type coder interface {
	Code() uint32
}

// errCode test if given error contains a code and returns the value of it
// if available. This function unwraps the error.
func errCode(err error) uint32 {
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
