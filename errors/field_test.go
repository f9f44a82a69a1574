package errors

import "testing"

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Quorum", ErrInvalidConfiguration, "zero"),
		Field("Owners", Wrap(ErrEmpty, "no owners"), ""),
		nil,
	)

	if errs := FieldErrors(err, "Quorum"); len(errs) != 1 || !ErrInvalidConfiguration.Is(errs[0]) {
		t.Fatalf("unexpected Quorum errors: %v", errs)
	}
	if errs := FieldErrors(err, "Owners"); len(errs) != 1 || !ErrEmpty.Is(errs[0]) {
		t.Fatalf("unexpected Owners errors: %v", errs)
	}
	if errs := FieldErrors(err, "Recipient"); len(errs) != 0 {
		t.Fatalf("unexpected Recipient errors: %v", errs)
	}
	if got := Field("Name", nil, "ignored"); got != nil {
		t.Fatalf("nil error must not be wrapped, got %v", got)
	}
}

func TestAppend(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := Append(nil, ErrEmpty); err != ErrEmpty {
		t.Fatalf("single error must be returned unchanged, got %v", err)
	}
	err := Append(Append(ErrEmpty, ErrOverflow), ErrNotFound)
	m, ok := err.(multiErr)
	if !ok {
		t.Fatalf("want multi error, got %T", err)
	}
	if len(m) != 3 {
		t.Fatalf("nested multi errors must be flattened, got %d", len(m))
	}
	if got, want := err.Error(), "value is empty; an operation cannot be completed due to value overflow; not found"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
