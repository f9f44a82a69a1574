package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attributes err to the named field of a validated value. Nil err
// gives nil. Field names follow Go naming with a dot separated index for
// list elements, for example Quorum or Owners.2.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}

	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}

	return &fieldError{
		parent: err,
		field:  fieldName,
		desc:   description,
	}
}

// AppendField appends the field error, if any, to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

// Cause implements the causer interface.
func (err *fieldError) Cause() error {
	return err.parent
}

// Field implements fielder interface.
func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors collects every error reported for the given field name. Field
// errors nested in appended errors are searched as well.
func FieldErrors(err error, fieldName string) []error {
	if errIsNil(err) {
		return nil
	}
	switch e := err.(type) {
	case fielder:
		if e.Field() == fieldName {
			return []error{err}
		}
	case unpacker:
		var res []error
		for _, child := range e.Unpack() {
			res = append(res, FieldErrors(child, fieldName)...)
		}
		return res
	}
	if c, ok := err.(causer); ok {
		return FieldErrors(c.Cause(), fieldName)
	}
	return nil
}

type fielder interface {
	Field() string
}
