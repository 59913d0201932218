package util

import (
	"context"
	"log/slog"
)

// Reporter is the diagnostics sink of a compilation unit.
type Reporter interface {
	// Report records a diagnostic without aborting.
	Report(level ParseErrorLevel, kind ErrorKind, loc *ParseLocation, msg string)
	// Die records a fatal diagnostic and returns the error that aborts the unit.
	Die(kind ErrorKind, loc *ParseLocation, msg string) error
}

// MortalLogger accumulates diagnostics for one compilation unit. Warnings are
// advisory; errors are kept until the caller decides to abort, so batched
// checks can surface every problem at once.
type MortalLogger struct {
	logger   *slog.Logger
	warnings []*ParseError
	errors   []*ParseError
}

// NewMortalLogger creates a MortalLogger that mirrors diagnostics to logger.
// A nil logger disables mirroring.
func NewMortalLogger(logger *slog.Logger) *MortalLogger {
	if logger != nil {
		logger = logger.With(slog.String("component", "diagnostics"))
	}
	return &MortalLogger{logger: logger}
}

// Log writes to the underlying slog logger if one is configured
func (m *MortalLogger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if m.logger == nil {
		return
	}
	m.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Report implements Reporter
func (m *MortalLogger) Report(level ParseErrorLevel, kind ErrorKind, loc *ParseLocation, msg string) {
	pe := Errorf(kind, loc, "%s", msg)
	pe.Level = level
	if level == ParseErrorLevelWarning {
		m.warnings = append(m.warnings, pe)
		m.Log(slog.LevelWarn, msg, slog.String("location", loc.String()))
		return
	}
	m.errors = append(m.errors, pe)
	m.Log(slog.LevelError, msg, slog.String("kind", kind.String()), slog.String("location", loc.String()))
}

// Warn records an advisory warning
func (m *MortalLogger) Warn(loc *ParseLocation, msg string) {
	m.Report(ParseErrorLevelWarning, 0, loc, msg)
}

// Error records an error without aborting; call Die or Err later.
func (m *MortalLogger) Error(kind ErrorKind, loc *ParseLocation, msg string) {
	m.Report(ParseErrorLevelError, kind, loc, msg)
}

// Die implements Reporter
func (m *MortalLogger) Die(kind ErrorKind, loc *ParseLocation, msg string) error {
	m.Error(kind, loc, msg)
	return m.Err()
}

// HasErrors reports whether any error has been recorded
func (m *MortalLogger) HasErrors() bool {
	return len(m.errors) > 0
}

// Err returns the accumulated errors, or nil. A single error is returned as is.
func (m *MortalLogger) Err() error {
	switch len(m.errors) {
	case 0:
		return nil
	case 1:
		return m.errors[0]
	}
	list := make(ErrorList, len(m.errors))
	copy(list, m.errors)
	return list
}

// Warnings returns every advisory warning recorded so far
func (m *MortalLogger) Warnings() []*ParseError {
	return m.warnings
}

// Errors returns every error recorded so far
func (m *MortalLogger) Errors() []*ParseError {
	return m.errors
}
