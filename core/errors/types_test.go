package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestCorruptEntryError_Error(t *testing.T) {
	err := &CorruptEntryError{Path: "/cache/metadata/a.meta", Reason: "file exceeds 1 MiB"}

	want := "corrupt cache entry /cache/metadata/a.meta: file exceeds 1 MiB"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStoreIOError_Error(t *testing.T) {
	err := &StoreIOError{Op: "write", Path: "/cache/images/a.jpg", Err: os.ErrPermission}

	want := "cache write failed on /cache/images/a.jpg: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestStoreIOError_Unwrap(t *testing.T) {
	err := &StoreIOError{Op: "read", Path: "x", Err: os.ErrNotExist}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestIsCorruptEntry(t *testing.T) {
	corrupt := &CorruptEntryError{Path: "p", Reason: "r"}

	if !IsCorruptEntry(corrupt) {
		t.Error("IsCorruptEntry should return true for CorruptEntryError")
	}
	if IsCorruptEntry(errors.New("other")) {
		t.Error("IsCorruptEntry should return false for other errors")
	}
	if !IsCorruptEntry(fmt.Errorf("wrapped: %w", corrupt)) {
		t.Error("IsCorruptEntry should unwrap")
	}
}

func TestIsStoreIO(t *testing.T) {
	ioErr := &StoreIOError{Op: "stat", Path: "p", Err: os.ErrPermission}

	if !IsStoreIO(ioErr) {
		t.Error("IsStoreIO should return true for StoreIOError")
	}
	if IsStoreIO(&CorruptEntryError{Path: "p", Reason: "r"}) {
		t.Error("IsStoreIO should return false for CorruptEntryError")
	}
}

func TestIsValidation(t *testing.T) {
	valErr := &ValidationError{Field: "dir", Message: "cannot be empty"}

	if !IsValidation(valErr) {
		t.Error("IsValidation should return true for ValidationError")
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation should return false for other errors")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	inner := errors.New("inner")
	wrapped := WrapError(inner, "context")
	if !errors.Is(wrapped, inner) {
		t.Error("wrapped error should match the inner error")
	}
	if wrapped.Error() != "context: inner" {
		t.Errorf("wrapped message = %q", wrapped.Error())
	}
}
