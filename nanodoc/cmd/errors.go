package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/arthur-debert/nanodoc/nanodoc/collection"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // e.g. "create document", "delete collection"
	Cause       string   // e.g. "resource not found"
	Details     string   // the wrapped error text
	Suggestions []string // shown as a numbered list
	Underlying  error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		fmt.Fprintf(&msg, "Failed to %s", e.Operation)
	} else {
		msg.WriteString("Operation failed")
	}
	if e.Cause != "" {
		fmt.Fprintf(&msg, ": %s", e.Cause)
	}
	if e.Details != "" {
		fmt.Fprintf(&msg, " (%s)", e.Details)
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, suggestion)
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for bad command input
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for a failed collection or backend call.
// The cause is derived from the sentinel the error wraps.
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		switch {
		case errors.Is(underlying, collection.ErrNotFound):
			cause = "resource not found"
		case errors.Is(underlying, collection.ErrAlreadyExists):
			cause = "resource already exists"
		case errors.Is(underlying, collection.ErrInvalidArgument):
			cause = "invalid data provided"
		case errors.Is(underlying, fs.ErrPermission):
			cause = "insufficient permissions to access collection"
		case strings.Contains(strings.ToLower(details), "database is locked"):
			cause = "database is currently locked by another process"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	return NewStoreError(operation, err, suggestions...)
}

// CommonSuggestions holds the hint texts shared by commands.
var CommonSuggestions = struct {
	CheckCollection string
	CreateFirst     string
	CheckID         string
	CheckJSON       string
	CheckConfig     string
	CheckBackend    string
	RunHelp         string
}{
	CheckCollection: "Verify --collection names an existing collection",
	CreateFirst:     "Run 'nanodoc collection create' first, or pass --autocreate",
	CheckID:         "Verify the document ID exists (try 'doc list' first)",
	CheckJSON:       "Pass the document as a JSON object, e.g. '{\"title\": \"x\"}'",
	CheckConfig:     "Check your configuration file or NANODOC_* environment variables",
	CheckBackend:    "Supported backends: file, memory, sqlite, pebble",
	RunHelp:         "Run command with --help for usage information",
}
