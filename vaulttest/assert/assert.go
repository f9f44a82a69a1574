// Package assert provides the few test assertions used across vault packages.
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/vault/errors"
)

// Tester is the part of testing.TB the assertions depend on.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Nil fails the test unless value is nil. Typed nil pointers, maps, slices
// and interfaces count as nil.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of errors that carry one.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) (res bool) {
	if value == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			res = false
		}
	}()
	return reflect.ValueOf(value).IsNil()
}

// Equal fails the test unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	fn()
}

// IsErr fails the test unless got is want or is of want's kind.
func IsErr(t testing.TB, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if kind, ok := want.(interface{ Is(error) bool }); ok && kind.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}

// FieldErr fails the test unless err carries exactly one error for the given
// field and that error is of kind want. Pass a nil want to require that no
// error was reported for the field.
func FieldErr(t Tester, err error, field string, want *errors.Error) {
	t.Helper()

	found := errors.FieldErrors(err, field)
	if want == nil {
		if len(found) != 0 {
			t.Fatalf("want no %s error, got %+v", field, found)
		}
		return
	}
	if len(found) != 1 {
		for _, e := range found {
			t.Logf("%s: %q", field, e)
		}
		t.Fatalf("want one %s error, got %d", field, len(found))
	}
	if !want.Is(found[0]) {
		t.Fatalf("want %s error of kind %q, got %+v", field, want, found[0])
	}
}
