// Package errors provides error handling for doctor.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints (e.g. how to fix a bad index file)
//
// Usage:
//
//	// Wrap with context
//	if err := idx.Load(path); err != nil {
//	    return errors.Wrapf(err, "load index %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "run `doctor registry import` first")
//
// The reconciliation engine itself never returns errors; only the plumbing around it
// (config, manifests, registry files, SQLite) does.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	CombineErrors  = crdb.CombineErrors
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors. Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates a requested file, type or run does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates malformed input (manifest record, flag combination)
	ErrInvalidRequest = New("invalid request")

	// ErrUnsupportedFormat indicates a file extension or output format doctor cannot handle
	ErrUnsupportedFormat = New("unsupported format")

	// ErrIncompatibleIndex indicates a registry index whose schema_version is not supported
	ErrIncompatibleIndex = New("incompatible index")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}

// NewUnsupportedFormatError creates an unsupported-format error with a formatted message
func NewUnsupportedFormatError(format string, args ...interface{}) error {
	return Wrap(ErrUnsupportedFormat, Newf(format, args...).Error())
}
