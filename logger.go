package dynamic

// Logger receives the events a Dynamic reports while it is written to.
//
// Events and their levels:
//   - Debug: a key was stored under its sanitized form, and the count of
//     keys a subtraction removed.
//   - Warn: two raw keys of one write collided on the same sanitized key,
//     a write was rejected by strict typing, and a value was rejected
//     because it contains the instance it was stored in.
//
// Messages arrive preformatted with any tag set by WithLogTag, so
// implementations only need to route them.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Debug(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}

// defaultLogger is used until WithLogger replaces it.
var defaultLogger Logger = noopLogger{}
