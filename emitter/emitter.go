package emitter

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sort"
)

// Event is the descriptor passed as the first argument to every handler.
// Target is always the host object, never an implicit call context.
type Event struct {
	Type   string
	Target any
}

// Handler receives a dispatched event followed by any extra arguments the
// Trigger caller supplied.
type Handler func(ev Event, args ...any)

// handlerEntry is one registration. Entries are append-only; removal builds
// a fresh slice so an in-flight dispatch keeps iterating the old one.
type handlerEntry struct {
	event     string
	namespace string
	fn        Handler
	fnPtr     uintptr
}

// Emitter holds the per-host handler table and reporter wiring. The zero
// value is ready to use; state is allocated lazily on first On. An Emitter
// is single-owner: it does no internal locking.
type Emitter struct {
	target   any
	handlers map[string][]handlerEntry
	warner   WarningReporter
	errorer  ErrorReporter
}

// Option configures an Emitter at construction time.
type Option func(*Emitter)

// WithWarningReporter routes deprecation warnings to r.
func WithWarningReporter(r WarningReporter) Option {
	return func(e *Emitter) {
		if r != nil {
			e.warner = r
		}
	}
}

// WithErrorReporter routes dispatch-time handler failures to r.
func WithErrorReporter(r ErrorReporter) Option {
	return func(e *Emitter) {
		if r != nil {
			e.errorer = r
		}
	}
}

// New creates an emitter whose event descriptors carry target.
func New(target any, opts ...Option) *Emitter {
	e := &Emitter{target: target, warner: noopReporter{}, errorer: noopReporter{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind points the event descriptor's Target at host. Types that embed
// Emitter call this once so handlers see the outer value rather than the
// embedded emitter.
func (e *Emitter) Bind(host any) {
	e.target = host
}

// SetWarningReporter replaces the warning reporter. Used by the embedded
// zero-value path where options are not available.
func (e *Emitter) SetWarningReporter(r WarningReporter) {
	e.warner = r
}

// SetErrorReporter replaces the error reporter.
func (e *Emitter) SetErrorReporter(r ErrorReporter) {
	e.errorer = r
}

// On registers fn once per token in spec. A token may tag the registration
// with a dot namespace for later bulk removal. Registering for a deprecated
// event name reports a warning but still succeeds.
func (e *Emitter) On(spec string, fn Handler) error {
	if fn == nil {
		return ErrNilHandler
	}

	tokens, err := parseSpec(spec)
	if err != nil {
		return err
	}

	// Validate every token before touching the table so a bad token cannot
	// leave a partial registration behind.
	for _, t := range tokens {
		if t.event == "" {
			return fmt.Errorf("%w: %q", ErrBareNamespace, t.namespace)
		}
	}

	fnPtr := reflect.ValueOf(fn).Pointer()
	for _, t := range tokens {
		if replacement, ok := deprecationFor(e.hostKey(), t.event); ok {
			if replacement == "" {
				e.warn(fmt.Sprintf("event %q is deprecated", t.event))
			} else {
				e.warn(fmt.Sprintf("event %q is deprecated, use %q instead", t.event, replacement))
			}
		}

		if e.handlers == nil {
			e.handlers = make(map[string][]handlerEntry)
		}
		e.handlers[t.event] = append(e.handlers[t.event], handlerEntry{
			event:     t.event,
			namespace: t.namespace,
			fn:        fn,
			fnPtr:     fnPtr,
		})
	}
	return nil
}

// Off removes every entry matching all filters a token specifies: the event
// name if present, the namespace if present, and fn's identity if fn is not
// nil. A bare ".namespace" token applies across every event name. Removing
// from a host that never registered anything is a no-op.
func (e *Emitter) Off(spec string, fn Handler) error {
	tokens, err := parseSpec(spec)
	if err != nil {
		return err
	}
	if e.handlers == nil {
		return nil
	}

	var fnPtr uintptr
	if fn != nil {
		fnPtr = reflect.ValueOf(fn).Pointer()
	}

	for _, t := range tokens {
		if t.event != "" {
			e.removeMatching(t.event, t.namespace, fnPtr)
			continue
		}
		for name := range e.handlers {
			e.removeMatching(name, t.namespace, fnPtr)
		}
	}
	return nil
}

// removeMatching filters one event's entries. Survivors keep their relative
// order. The filtered result is a new slice; an event key whose slice
// empties is deleted so present keys always map to non-empty slices.
func (e *Emitter) removeMatching(event, namespace string, fnPtr uintptr) {
	entries, ok := e.handlers[event]
	if !ok {
		return
	}

	kept := make([]handlerEntry, 0, len(entries))
	for _, entry := range entries {
		matched := (namespace == "" || entry.namespace == namespace) &&
			(fnPtr == 0 || entry.fnPtr == fnPtr)
		if !matched {
			kept = append(kept, entry)
		}
	}

	switch {
	case len(kept) == 0:
		delete(e.handlers, event)
	case len(kept) != len(entries):
		e.handlers[event] = kept
	}
}

// Trigger synchronously invokes, in registration order, every handler
// currently registered for name. A panicking handler is reported to the
// error reporter and does not stop the rest of the dispatch. Handlers
// removed by another handler during this dispatch still run; handlers added
// during it are not seen until the next Trigger.
func (e *Emitter) Trigger(name string, args ...any) {
	if e.handlers == nil {
		return
	}
	entries := e.handlers[name]
	if len(entries) == 0 {
		return
	}

	ev := Event{Type: name, Target: e.hostKey()}
	for _, entry := range entries {
		e.invoke(entry, ev, args)
	}
}

func (e *Emitter) invoke(entry handlerEntry, ev Event, args []any) {
	defer func() {
		if r := recover(); r != nil {
			e.dispatchError(ev.Type, ev.Target, r, debug.Stack())
		}
	}()
	entry.fn(ev, args...)
}

// EventNames returns the sorted event names that currently have handlers.
func (e *Emitter) EventNames() []string {
	if len(e.handlers) == 0 {
		return nil
	}
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandlerCount returns the number of entries registered for name.
func (e *Emitter) HandlerCount(name string) int {
	return len(e.handlers[name])
}

// hostKey is the identity used for the event descriptor and the deprecation
// side table. An unbound emitter stands in for its own host.
func (e *Emitter) hostKey() any {
	if e.target != nil {
		return e.target
	}
	return e
}

func (e *Emitter) warn(msg string) {
	if e.warner != nil {
		e.warner.Warn(msg)
	}
}

func (e *Emitter) dispatchError(event string, target any, recovered any, stack []byte) {
	if e.errorer != nil {
		e.errorer.DispatchError(event, target, recovered, stack)
	}
}
