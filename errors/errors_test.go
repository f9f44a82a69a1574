package errors

import (
	stdlib "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrInvalidModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"comparison to a pkg/errors wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrNotFound,
			wantIs: false,
		},
		"not-nil is not nil": {
			a:      ErrNotFound,
			b:      nil,
			wantIs: false,
		},
		"field error is unwrapped": {
			a:      ErrEmpty,
			b:      Field("Owners", ErrEmpty, "no owners"),
			wantIs: true,
		},
		"appended errors are searched": {
			a:      ErrNotFound,
			b:      Append(ErrInvalidState, Wrap(ErrNotFound, "test")),
			wantIs: true,
		},
		"appended errors without a match": {
			a:      ErrNotFound,
			b:      Append(ErrInvalidState, ErrOverflow),
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestWrapEmpty(t *testing.T) {
	if err := Wrap(nil, "wrapping <nil>"); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterDuplicatedCode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Register(ErrNotFound.Code(), "another not found")
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
}

func TestStackTrace(t *testing.T) {
	err := Wrapf(ErrDuplicate, "name %q", "vault")
	if got, want := err.Error(), `name "vault": duplicate`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if stackTrace(err) == nil {
		t.Fatal("stack trace expected")
	}
	full := fmt.Sprintf("%+v", err)
	if !strings.Contains(full, "errors/errors_test.go") {
		t.Logf("Stack trace below\n----%s\n----", full)
		t.Fatal("full stack trace should contain this test source code information")
	}
	if short := fmt.Sprintf("%v", err); strings.Contains(short, "\n") {
		t.Fatalf("only one line is expected, got %q", short)
	}
}

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered error": {
			err:      Wrap(ErrUnauthorized, "not an owner"),
			wantCode: ErrUnauthorized.Code(),
			wantLog:  "not an owner: unauthorized",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("disk on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"stdlib error in debug mode": {
			err:      fmt.Errorf("disk on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "disk on fire",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}
