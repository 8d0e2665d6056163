// Package emitter implements an in-process named-event mixin. Any object
// can gain On/Off/Trigger support either by embedding an Emitter or by
// attaching one with Install, without inheriting from a base type.
//
// Registration specs are whitespace separated lists of event tokens. A token
// may carry a dot namespace used only for bulk removal:
//
//	em.On("open close.ui", onChange)  // "close" tagged with ".ui"
//	em.Off(".ui", nil)                // drop every ".ui" registration
//	em.Trigger("open", 42)            // synchronous, registration order
//
// Dispatch is fully synchronous and single-owner: the emitter does no
// internal locking, so a host shared across goroutines must serialize
// On/Off/Trigger externally. A handler that panics is isolated: the failure
// goes to the configured ErrorReporter and the remaining handlers still run.
//
// Handler identity for removal is the function's code pointer, so distinct
// closures created from the same function literal compare equal. Pass a
// namespace when you need to remove one of several such registrations.
package emitter
