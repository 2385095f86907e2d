package cohort

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured-logging facade the execution driver emits
// diagnostic events through: execution started, panic captured, and
// execution finished or failed (a deadlock is logged as a failure).
// Individual task spawns, scheduling decisions and task completions are
// not logged. It deliberately mirrors the fluent
// level-then-field-then-Msg shape of the corpus's logiface family
// (github.com/joeycumines/logiface and its zerolog backend) rather than
// exposing printf-style methods, so call sites read the same way whichever
// concrete Logger is installed.
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
}

// LogEvent is a single in-flight log entry being built up with fields
// before Msg flushes it. Every method returns the receiver so calls chain.
type LogEvent interface {
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Err(err error) LogEvent
	Msg(msg string)
}

// NewZerologLogger returns a Logger backed by github.com/rs/zerolog,
// writing to w (os.Stderr if w is nil).
func NewZerologLogger(w *os.File) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &zerologLogger{logger: zerolog.New(w).With().Timestamp().Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug() LogEvent { return &zerologEvent{e: l.logger.Debug()} }
func (l *zerologLogger) Info() LogEvent  { return &zerologEvent{e: l.logger.Info()} }
func (l *zerologLogger) Warn() LogEvent  { return &zerologEvent{e: l.logger.Warn()} }
func (l *zerologLogger) Error() LogEvent { return &zerologEvent{e: l.logger.Error()} }

type zerologEvent struct {
	e *zerolog.Event
}

func (ev *zerologEvent) Str(key, value string) LogEvent {
	ev.e = ev.e.Str(key, value)
	return ev
}

func (ev *zerologEvent) Int(key string, value int) LogEvent {
	ev.e = ev.e.Int(key, value)
	return ev
}

func (ev *zerologEvent) Err(err error) LogEvent {
	ev.e = ev.e.Err(err)
	return ev
}

func (ev *zerologEvent) Msg(msg string) {
	ev.e.Msg(msg)
}

// noopLogger discards everything; it is the default so the engine never
// requires a Logger to be configured.
type noopLogger struct{}

func (noopLogger) Debug() LogEvent { return noopEvent{} }
func (noopLogger) Info() LogEvent  { return noopEvent{} }
func (noopLogger) Warn() LogEvent  { return noopEvent{} }
func (noopLogger) Error() LogEvent { return noopEvent{} }

type noopEvent struct{}

func (noopEvent) Str(string, string) LogEvent { return noopEvent{} }
func (noopEvent) Int(string, int) LogEvent    { return noopEvent{} }
func (noopEvent) Err(error) LogEvent          { return noopEvent{} }
func (noopEvent) Msg(string)                  {}
