// Package errors provides structured error types for scatter-svg.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Source locations (row, line, column) for ingest failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Ingest failures carry one of three codes, mirroring where loading went wrong:
//   - IO_FAILURE: the source could not be read
//   - PARSE_FAILURE: invalid JSON, or a tabular row with too few fields
//   - SCHEMA_FAILURE: a resolved X/Y column holds a non-numeric value
//
// LAYOUT_ERROR marks impossible input reaching the label layout engine
// (non-finite coordinates, non-positive label sizes). Non-convergence of the
// layout is never an error.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParse, "points must be an array")
//	if errors.IsIngest(err) {
//	    // surface to the user and stop
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Ingest errors
	ErrCodeIO     Code = "IO_FAILURE"
	ErrCodeParse  Code = "PARSE_FAILURE"
	ErrCodeSchema Code = "SCHEMA_FAILURE"

	// Layout errors
	ErrCodeLayout Code = "LAYOUT_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)

	// Source location, zero when unknown.
	Row    int    // 1-based data row (header excluded)
	Line   int    // 1-based line in the source text
	Column string // column name for tabular input
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if loc := e.location(); loc != "" {
		b.WriteString(" (")
		b.WriteString(loc)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) location() string {
	var parts []string
	if e.Row > 0 {
		parts = append(parts, fmt.Sprintf("row %d", e.Row))
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}
	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %q", e.Column))
	}
	return strings.Join(parts, ", ")
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At attaches a source location and returns e for chaining.
func (e *Error) At(row, line int, column string) *Error {
	e.Row = row
	e.Line = line
	e.Column = column
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsIngest reports whether err is an IO, parse, or schema failure.
func IsIngest(err error) bool {
	switch GetCode(err) {
	case ErrCodeIO, ErrCodeParse, ErrCodeSchema:
		return true
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (with location) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if loc := e.location(); loc != "" {
			return loc + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
