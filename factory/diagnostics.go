package factory

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nicu/typemockr/logger"
)

// DiagnosticKind classifies a local degradation during synthesis.
type DiagnosticKind string

const (
	DiagUnsupported         DiagnosticKind = "unsupported"
	DiagOmittedFunction     DiagnosticKind = "omitted_function"
	DiagEmptyComposite      DiagnosticKind = "empty_composite"
	DiagUnresolvedBase      DiagnosticKind = "unresolved_base"
	DiagUnresolvedReference DiagnosticKind = "unresolved_reference"
	DiagDuplicate           DiagnosticKind = "duplicate"
	DiagFault               DiagnosticKind = "fault"
)

// Diagnostic is one note about something synthesized in a degraded way.
type Diagnostic struct {
	Kind    DiagnosticKind
	Entity  string
	Path    string
	Message string
}

// Level is the log level a diagnostic is reported at.
func (d Diagnostic) Level() zapcore.Level {
	switch d.Kind {
	case DiagFault:
		return zapcore.ErrorLevel
	case DiagUnsupported, DiagUnresolvedReference:
		return zapcore.WarnLevel
	}
	return zapcore.DebugLevel
}

func (d Diagnostic) log(l *zap.SugaredLogger) {
	fields := []interface{}{
		logger.FieldKind, string(d.Kind),
		logger.FieldEntity, d.Entity,
	}
	if d.Path != "" {
		fields = append(fields, logger.FieldPath, d.Path)
	}
	switch d.Level() {
	case zapcore.ErrorLevel:
		l.Errorw(d.Message, fields...)
	case zapcore.WarnLevel:
		l.Warnw(d.Message, fields...)
	default:
		l.Debugw(d.Message, fields...)
	}
}
