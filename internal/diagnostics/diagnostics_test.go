package diagnostics

import "testing"

func TestErrorFormatsKindAndLine(t *testing.T) {
	d := New(RuntimeError, 7, "division by zero")
	want := "[Runtime error] Line 7: division by zero"
	if got := d.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestErrorOmitsLineWhenNonPositive(t *testing.T) {
	d := New(ResourceError, 0, "cannot read '%s'", "script0.txt")
	want := "[Resource error] cannot read 'script0.txt'"
	if got := d.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRecorderAssignsRunID(t *testing.T) {
	r := NewRecorder(nil)
	if r.RunID() == "" {
		t.Fatal("expected a non-empty run id")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	d := New(SyntaxError, 3, "unexpected token")
	if d.Unwrap() == nil {
		t.Fatal("expected Unwrap() to expose the wrapped cause")
	}
}
