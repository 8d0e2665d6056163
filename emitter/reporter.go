package emitter

// WarningReporter receives advisory messages, currently only deprecation
// warnings raised during registration.
type WarningReporter interface {
	Warn(msg string)
}

// ErrorReporter receives handler failures captured during dispatch. The
// failure never reaches the Trigger caller; this is the only place it
// becomes observable.
type ErrorReporter interface {
	DispatchError(event string, target any, recovered any, stack []byte)
}

// WarnFunc adapts a plain function into a WarningReporter.
type WarnFunc func(msg string)

func (f WarnFunc) Warn(msg string) { f(msg) }

// DispatchErrorFunc adapts a plain function into an ErrorReporter.
type DispatchErrorFunc func(event string, target any, recovered any, stack []byte)

func (f DispatchErrorFunc) DispatchError(event string, target any, recovered any, stack []byte) {
	f(event, target, recovered, stack)
}

// noopReporter is the default for both reporter slots.
type noopReporter struct{}

func (noopReporter) Warn(string) {}

func (noopReporter) DispatchError(string, any, any, []byte) {}
