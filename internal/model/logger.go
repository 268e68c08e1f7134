package model

import "fmt"

// Logger is the logger used by every library package. It is, out of the
// box, compatible with `log.Log` and `*log.Entry` in `apex/log`, so the CLI
// can pass down entries carrying fields (e.g., the arm name).
type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...interface{})
	Info(msg string)
	Infof(format string, v ...interface{})
	Warn(msg string)
	Warnf(format string, v ...interface{})
}

// DiscardLogger is a [Logger] that ignores all its input.
var DiscardLogger Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Debug(string)                  {}
func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Info(string)                   {}
func (discardLogger) Infof(string, ...interface{})  {}
func (discardLogger) Warn(string)                   {}
func (discardLogger) Warnf(string, ...interface{})  {}

// ValidLoggerOrDefault returns logger when not nil and [DiscardLogger] otherwise.
func ValidLoggerOrDefault(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return DiscardLogger
}

// ArmLogger prefixes every message with the name of the arm it refers to. Use
// it when the underlying logger cannot carry structured fields.
type ArmLogger struct {
	Arm    string
	Logger Logger
}

var _ Logger = &ArmLogger{}

func (l *ArmLogger) prefix(msg string) string {
	return fmt.Sprintf("[%s] %s", l.Arm, msg)
}

// Debug implements Logger.
func (l *ArmLogger) Debug(msg string) {
	l.Logger.Debug(l.prefix(msg))
}

// Debugf implements Logger.
func (l *ArmLogger) Debugf(format string, v ...interface{}) {
	l.Logger.Debug(l.prefix(fmt.Sprintf(format, v...)))
}

// Info implements Logger.
func (l *ArmLogger) Info(msg string) {
	l.Logger.Info(l.prefix(msg))
}

// Infof implements Logger.
func (l *ArmLogger) Infof(format string, v ...interface{}) {
	l.Logger.Info(l.prefix(fmt.Sprintf(format, v...)))
}

// Warn implements Logger.
func (l *ArmLogger) Warn(msg string) {
	l.Logger.Warn(l.prefix(msg))
}

// Warnf implements Logger.
func (l *ArmLogger) Warnf(format string, v ...interface{}) {
	l.Logger.Warn(l.prefix(fmt.Sprintf(format, v...)))
}
