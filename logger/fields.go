package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging across typemockr.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID = "run_id"

	// Inputs
	FieldFile = "file"

	// Graph and synthesis
	FieldEntity  = "entity"
	FieldKind    = "kind"
	FieldPath    = "path"
	FieldBase    = "base"
	FieldPattern = "pattern"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount      = "count"
	FieldSize       = "size"
	FieldTotalCount = "total_count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	result := factory.Generate(entities, engine, opts, logger.ComponentLogger("factory"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	runLogger := logger.ChildLogger(baseLogger, logger.FieldFile, path)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
