package emitter

import "sync"

// The install side table attaches emitters to arbitrary objects by identity
// without touching any of the object's own state. Hosts must be comparable,
// typically pointers; types that can embed an Emitter should prefer that
// path since its state lives and dies with the host value.
var installs = struct {
	sync.RWMutex
	byHost map[any]*Emitter
}{byHost: make(map[any]*Emitter)}

// Install attaches the event capability to host and returns its emitter.
// The first call creates the emitter; later calls return the same one and
// ignore opts, so installation is safe to repeat. State is scoped per host
// instance, never shared between instances.
//
// The side table holds host strongly, so an installed host stays reachable
// until Uninstall releases it. Embedding an Emitter avoids the pin
// entirely.
func Install(host any, opts ...Option) *Emitter {
	installs.Lock()
	defer installs.Unlock()

	if em, ok := installs.byHost[host]; ok {
		return em
	}
	em := New(host, opts...)
	installs.byHost[host] = em
	return em
}

// Uninstall detaches the event capability from host, discarding its handler
// table and letting the host be garbage-collected. Uninstalling a host that
// was never installed is a no-op. Deprecation marks are kept; use
// ClearDeprecations to drop those too.
func Uninstall(host any) {
	installs.Lock()
	defer installs.Unlock()

	delete(installs.byHost, host)
}

// Installed reports whether host carries the event capability.
func Installed(host any) bool {
	installs.RLock()
	defer installs.RUnlock()

	_, ok := installs.byHost[host]
	return ok
}

// Of returns the emitter attached to host by Install, if any. Unlike
// Install it never creates one.
func Of(host any) (*Emitter, bool) {
	installs.RLock()
	defer installs.RUnlock()

	em, ok := installs.byHost[host]
	return em, ok
}
