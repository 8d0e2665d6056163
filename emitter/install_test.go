package emitter

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHost struct{ name string }

func TestInstall(t *testing.T) {
	host := &plainHost{name: "h1"}
	assert.False(t, Installed(host))

	em := Install(host)
	assert.True(t, Installed(host))

	// repeat installation returns the same emitter
	assert.Same(t, em, Install(host))

	got, ok := Of(host)
	require.True(t, ok)
	assert.Same(t, em, got)
}

func TestInstall_TargetIsHost(t *testing.T) {
	host := &plainHost{name: "h2"}
	em := Install(host)

	var target any
	require.NoError(t, em.On("ready", func(ev Event, _ ...any) { target = ev.Target }))
	em.Trigger("ready")
	assert.Same(t, host, target)
}

func TestInstall_PerInstanceIsolation(t *testing.T) {
	h1 := &plainHost{name: "iso1"}
	h2 := &plainHost{name: "iso2"}

	calls := map[string]int{}
	require.NoError(t, Install(h1).On("ping", func(ev Event, _ ...any) {
		calls[ev.Target.(*plainHost).name]++
	}))

	Install(h2).Trigger("ping")
	assert.Empty(t, calls, "h2 has no handlers of its own")

	Install(h1).Trigger("ping")
	assert.Equal(t, map[string]int{"iso1": 1}, calls)
}

func TestUninstall(t *testing.T) {
	host := &plainHost{name: "gone"}
	em := Install(host)
	require.NoError(t, em.On("tick", func(Event, ...any) {}))

	Uninstall(host)
	assert.False(t, Installed(host))
	_, ok := Of(host)
	assert.False(t, ok)

	// reinstalling starts from a clean slate
	fresh := Install(host)
	assert.NotSame(t, em, fresh)
	assert.Equal(t, 0, fresh.HandlerCount("tick"))
}

func TestUninstall_NeverInstalledIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Uninstall(&plainHost{name: "stranger"}) })
}

// waitForCollection runs the collector until the finalizer on a dropped
// host fires, reporting whether it did.
func waitForCollection(collected chan struct{}) bool {
	for i := 0; i < 20; i++ {
		runtime.GC()
		select {
		case <-collected:
			return true
		case <-time.After(10 * time.Millisecond):
		}
	}
	return false
}

func TestUninstall_ReleasesHost(t *testing.T) {
	collected := make(chan struct{})

	host := &plainHost{name: "collectable"}
	Install(host)
	Uninstall(host)
	runtime.SetFinalizer(host, func(*plainHost) { close(collected) })
	host = nil

	assert.True(t, waitForCollection(collected),
		"uninstalled host should be garbage-collected")
}

func TestClearDeprecations_ReleasesHost(t *testing.T) {
	collected := make(chan struct{})

	host := &plainHost{name: "marked"}
	Deprecate(host, "legacy")
	ClearDeprecations(host)
	runtime.SetFinalizer(host, func(*plainHost) { close(collected) })
	host = nil

	assert.True(t, waitForCollection(collected),
		"cleared host should be garbage-collected")
}

func TestOf_NotInstalled(t *testing.T) {
	host := &plainHost{name: "bare"}
	em, ok := Of(host)
	assert.False(t, ok)
	assert.Nil(t, em)
}
