package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanodoc/nanodoc/collection"
)

func TestCLIErrorMessage(t *testing.T) {
	err := &CLIError{
		Operation:   "read document",
		Cause:       "resource not found",
		Details:     `document "x": not found`,
		Suggestions: []string{"first", "second"},
	}

	want := "Failed to read document: resource not found (document \"x\": not found)\n\n" +
		"Suggestions:\n  1. first\n  2. second"
	if got := err.Error(); got != want {
		t.Errorf("Error() mismatch:\n got: %q\nwant: %q", got, want)
	}

	if got := (&CLIError{}).Error(); got != "Operation failed" {
		t.Errorf("empty CLIError = %q", got)
	}
}

func TestNewStoreErrorCause(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("document %q: %w", "a", collection.ErrNotFound), "resource not found"},
		{fmt.Errorf("document %q: %w", "a", collection.ErrAlreadyExists), "resource already exists"},
		{fmt.Errorf("bad: %w", collection.ErrInvalidArgument), "invalid data provided"},
		{fmt.Errorf("open: %w", fs.ErrPermission), "insufficient permissions to access collection"},
		{errors.New("database is locked"), "database is currently locked by another process"},
		{errors.New("disk on fire"), "store operation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cliErr := NewStoreError("op", tt.err)
			if cliErr.Cause != tt.want {
				t.Errorf("cause = %q, want %q", cliErr.Cause, tt.want)
			}
			if !errors.Is(cliErr, tt.err) {
				t.Error("CLIError does not unwrap to the original error")
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError("op", nil) != nil {
		t.Error("WrapError(nil) should be nil")
	}

	existing := NewValidationError("", "field", "v")
	wrapped := WrapError("query documents", existing)
	if wrapped != existing || existing.Operation != "query documents" {
		t.Errorf("existing CLIError not reused: %v", wrapped)
	}

	kept := NewConfigError("open", "issue")
	if WrapError("other", kept).(*CLIError).Operation != "open" {
		t.Error("WrapError overwrote an operation that was already set")
	}

	plain := WrapError("delete document", collection.ErrNotFound, "hint")
	if !strings.HasPrefix(plain.Error(), "Failed to delete document: resource not found") {
		t.Errorf("unexpected message %q", plain.Error())
	}
}

func TestParseWhere(t *testing.T) {
	got, err := parseWhere([]string{"age=15", `code="15"`, "name=Ana", "tags=[1,2]", "note=a=b", "empty="})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"age":   float64(15),
		"code":  "15",
		"name":  "Ana",
		"tags":  []interface{}{float64(1), float64(2)},
		"note":  "a=b",
		"empty": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseWhere mismatch (-want +got):\n%s", diff)
	}
}
