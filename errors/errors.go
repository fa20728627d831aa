// Package errors provides error handling for typemockr.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := entity.LoadFile(path); err != nil {
//	    return errors.Wrapf(err, "failed to load graph %s", path)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "regenerate the graph document with a newer extractor")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
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
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
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
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared across packages.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrUnsupportedFormat indicates a file extension or format flag we cannot decode
	ErrUnsupportedFormat = New("unsupported format")

	// ErrIncompatibleVersion indicates a graph document written for another format version
	ErrIncompatibleVersion = New("incompatible graph document version")

	// ErrInvalidPattern indicates a mapping pattern that could not be compiled
	ErrInvalidPattern = New("invalid mapping pattern")

	// ErrInvalidConfig indicates configuration values that fail validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrOutOfDate indicates generated files that differ from a fresh generation
	ErrOutOfDate = New("generated files are out of date")
)

// IsUnsupportedFormat checks if an error is or wraps ErrUnsupportedFormat
func IsUnsupportedFormat(err error) bool {
	return err != nil && Is(err, ErrUnsupportedFormat)
}

// IsIncompatibleVersion checks if an error is or wraps ErrIncompatibleVersion
func IsIncompatibleVersion(err error) bool {
	return err != nil && Is(err, ErrIncompatibleVersion)
}

// IsInvalidConfig checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfig(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}
