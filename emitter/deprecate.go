package emitter

import "sync"

// Deprecation entries live in a package-level side table keyed by host
// identity, so an event name can be retired on an object before that object
// ever gains the dispatch capability. The table is consulted only by On;
// Off and Trigger ignore it. Hosts must be comparable, typically pointers.
// Like the install table, this holds host strongly until ClearDeprecations
// releases it.
var deprecations = struct {
	sync.RWMutex
	byHost map[any]map[string]string
}{byHost: make(map[any]map[string]string)}

// Deprecate flags event as retired on host with no replacement guidance.
// Re-marking overwrites any prior metadata for that event name.
func Deprecate(host any, event string) {
	setDeprecation(host, event, "")
}

// DeprecateWithReplacement flags event as retired on host and records the
// suggested replacement included in the warning On reports.
func DeprecateWithReplacement(host any, event, replacement string) {
	setDeprecation(host, event, replacement)
}

// ClearDeprecations drops every deprecation mark on host, releasing the
// side table's reference to it. A host with no marks is a no-op.
func ClearDeprecations(host any) {
	deprecations.Lock()
	defer deprecations.Unlock()

	delete(deprecations.byHost, host)
}

func setDeprecation(host any, event, replacement string) {
	deprecations.Lock()
	defer deprecations.Unlock()

	m := deprecations.byHost[host]
	if m == nil {
		m = make(map[string]string)
		deprecations.byHost[host] = m
	}
	m[event] = replacement
}

func deprecationFor(host any, event string) (replacement string, ok bool) {
	deprecations.RLock()
	defer deprecations.RUnlock()

	m, ok := deprecations.byHost[host]
	if !ok {
		return "", false
	}
	replacement, ok = m[event]
	return replacement, ok
}
