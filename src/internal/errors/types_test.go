package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPreconditionError(t *testing.T) {
	err := NewPreconditionError("delete", "requires an opened workspace")

	if !IsPreconditionError(err) {
		t.Fatal("expected precondition classification")
	}
	if IsIOError(err) {
		t.Fatal("unexpected IO classification")
	}
	if got := err.Error(); got != "precondition failed for delete: requires an opened workspace" {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestIOErrorNamesFile(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewIOError("notes.txt", "failed to move to trash", cause)

	if !IsIOError(err) {
		t.Fatal("expected IO classification")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}

	msg := err.Error()
	if want := "notes.txt"; !strings.Contains(msg, want) {
		t.Fatalf("message %q does not name %q", msg, want)
	}
}

func TestIOErrorWithoutCause(t *testing.T) {
	err := NewIOError("a.txt", "failed to move to trash", nil)
	if got, want := err.Error(), "failed to move to trash 'a.txt'"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestClassifiersOnPlainErrors(t *testing.T) {
	if IsPreconditionError(nil) || IsIOError(nil) {
		t.Fatal("nil must not classify")
	}
	if !IsIOError(fmt.Errorf("open: permission denied")) {
		t.Fatal("message pattern should classify as IO error")
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext("op", nil) != nil {
		t.Fatal("wrapping nil must stay nil")
	}

	cause := errors.New("boom")
	err := WrapWithContext("op", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}
}
