package corun

import "github.com/joeycumines/logiface"

// Logger is the log/trace sink boundary spec.md §6 names: one record per
// reported error, carrying {kind, file, line, function, optional size/err}.
// The core never logs anything other than a [Fault]; everything else is a
// caller concern.
type Logger interface {
	LogFault(Fault)
}

// noopLogger discards every fault. It is the default for a [Runner] that
// does not configure [WithLogger].
type noopLogger struct{}

func (noopLogger) LogFault(Fault) {}

// logifaceLogger adapts a real [logiface.Logger] to this package's narrow
// Logger interface. Kept generic over the event type E so callers can plug
// in whichever logiface backend they already use (zerolog, slog, zap, ...)
// without this package needing to depend on any of them directly.
type logifaceLogger[E logiface.Event] struct {
	log *logiface.Logger[E]
}

// NewLogifaceLogger adapts log to this package's Logger interface, reporting
// every [Fault] at Error level with structured fields for each of its
// members (spec.md §6's fixed field set).
func NewLogifaceLogger[E logiface.Event](log *logiface.Logger[E]) Logger {
	return &logifaceLogger[E]{log: log}
}

func (l *logifaceLogger[E]) LogFault(f Fault) {
	b := l.log.Err().
		Str("kind", f.Kind.Error()).
		Str("function", f.Function).
		Str("file", f.File).
		Int("line", f.Line)
	if f.Size >= 0 {
		b = b.Int("size", f.Size)
	}
	if f.Err != nil {
		b = b.Err(f.Err)
	}
	b.Log("corun: fault")
}
