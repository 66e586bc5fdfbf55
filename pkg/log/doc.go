// Package log provides the logging abstraction used by docship.
//
// The client never talks to a logging library directly. It logs through the
// Logger interface, which has a zerolog adapter and a no-op implementation.
//
// # Usage
//
// Wrap an existing zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or discard everything (the default when no logger is configured):
//
//	logger := log.NewNoopLogger()
//
// # Spans
//
// StartSpan logs the beginning of a unit of work and returns a Span whose End
// method logs its outcome and duration. Callers defer End so that every return
// path is recorded:
//
//	span := log.StartSpan(logger, "get", log.String("doctype", "Task"))
//	defer func() { span.End(err) }()
package log
