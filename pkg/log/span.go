package log

import (
	"time"

	"github.com/google/uuid"
)

// Span tracks a single unit of work from StartSpan to End.
type Span struct {
	logger Logger
	op     string
	fields []Field
	start  time.Time
}

// StartSpan logs the start of op at debug level and returns the open span.
// Every message logged by the span carries op, a fresh span_id and fields.
func StartSpan(logger Logger, op string, fields ...Field) *Span {
	if logger == nil {
		logger = NoopLogger{}
	}
	all := make([]Field, 0, len(fields)+2)
	all = append(all, String("op", op), String("span_id", uuid.NewString()))
	all = append(all, fields...)

	s := &Span{logger: logger, op: op, fields: all, start: time.Now()}
	logger.Debug(op+" started", s.fields...)
	return s
}

// End logs the outcome of the span. A nil err logs at info level with the
// extra fields; a non-nil err logs at error level.
func (s *Span) End(err error, extra ...Field) {
	fields := make([]Field, 0, len(s.fields)+len(extra)+2)
	fields = append(fields, s.fields...)
	fields = append(fields, extra...)
	fields = append(fields, Duration("duration", time.Since(s.start)))
	if err != nil {
		s.logger.Error(s.op+" failed", append(fields, Err(err))...)
		return
	}
	s.logger.Info(s.op+" finished", fields...)
}
