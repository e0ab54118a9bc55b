package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
	"github.com/go-wisp/wisp/pkg/host/hosttest"
	"github.com/go-wisp/wisp/pkg/inject"
	"github.com/go-wisp/wisp/pkg/lifecycle"
)

func newTestRuntime() *Runtime {
	return New(WithHostInfo(host.Info{SDKVersion: "2.9.0"}))
}

func captureReports(t *testing.T) *errors.CaptureHandler {
	t.Helper()
	capture := &errors.CaptureHandler{}
	errors.SetHandler(capture)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return capture
}

func TestSetupSeedsDataAndBuiltins(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	cfg := &Config{
		Name: "counter",
		Data: map[string]any{"count": 1, "label": "clicks"},
	}

	inst, hc := rt.SetupInstance(raw, cfg, false)

	assert.Equal(t, "counter", inst.Name())
	assert.NotEmpty(t, inst.ID())
	assert.Equal(t, 1, hc.Data["count"])
	assert.Equal(t, "clicks", hc.Data["label"])
	// The seed is a copy; mutating the declared config must not leak in.
	cfg.Data["count"] = 99
	assert.Equal(t, 1, inst.Data().Get("count"))

	require.Contains(t, hc.Methods, "_setupReactivity")
	require.Contains(t, hc.Methods, "_updateComputed")
	require.Contains(t, hc.Methods, "_dispatchEvent")
}

func TestComputedCellsPatchOnUpdate(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	calls := 0
	cfg := &Config{
		Data: map[string]any{"count": 2},
		Computed: map[string]ComputedDef{
			"double": {Get: func(i *Instance) any {
				calls++
				return i.Data().Get("count").(int) * 2
			}},
		},
	}

	inst, hc := rt.SetupInstance(raw, cfg, false)
	raw.Reset()

	hc.Methods["_setupReactivity"](nil)
	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]any{"double": 4}, raw.LastPatch())

	inst.Data().Set("count", 5)
	hc.Methods["_updateComputed"](nil)
	assert.Equal(t, 2, calls)
	assert.Equal(t, map[string]any{"double": 10}, raw.LastPatch())

	// A clean cell does not re-run.
	hc.Methods["_updateComputed"](nil)
	assert.Equal(t, 2, calls)
}

func TestWatcherFiresOnDataWrite(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	var got []any
	cfg := &Config{
		Data: map[string]any{"count": 0},
		Watch: map[string]WatchDef{
			"count": {Callback: func(i *Instance, newVal, oldVal any) {
				got = append(got, newVal, oldVal)
			}},
		},
	}

	inst, _ := rt.SetupInstance(raw, cfg, false)
	inst.Data().Set("count", 3)

	assert.Equal(t, []any{3, 0}, got)
}

func TestInjectionThroughParentChain(t *testing.T) {
	rt := newTestRuntime()
	parentRaw := hosttest.NewInstance()
	parent, _ := rt.SetupInstance(parentRaw, &Config{
		Providers: map[inject.Key]any{"theme": "dark"},
	}, true)

	childRaw := hosttest.NewInstance()
	_, childHC := rt.SetupInstance(childRaw, &Config{
		Injectors: map[string]InjectorDef{
			"theme": {Key: "theme", Default: "light"},
		},
	}, false, WithParent(parent))

	assert.Equal(t, "dark", childHC.Data["theme"])

	// Without a providing ancestor the default resolves.
	orphanRaw := hosttest.NewInstance()
	_, orphanHC := rt.SetupInstance(orphanRaw, &Config{
		Injectors: map[string]InjectorDef{
			"theme": {Key: "theme", Default: "light"},
		},
	}, false)
	assert.Equal(t, "light", orphanHC.Data["theme"])
}

func TestProvideReachesDescendantData(t *testing.T) {
	rt := newTestRuntime()
	parent, _ := rt.SetupInstance(hosttest.NewInstance(), &Config{}, true)

	childRaw := hosttest.NewInstance()
	child, _ := rt.SetupInstance(childRaw, &Config{
		Injectors: map[string]InjectorDef{
			"locale": {Key: "locale", Default: "en"},
		},
	}, false, WithParent(parent))
	assert.Equal(t, "en", child.Data().Get("locale"))

	parent.Provide("locale", "fr")
	assert.Equal(t, "fr", child.Data().Get("locale"))
	assert.Equal(t, map[string]any{"locale": "fr"}, childRaw.LastPatch())
}

func TestGlobalProviderIsLastResolutionStop(t *testing.T) {
	rt := newTestRuntime()
	rt.ProvideGlobal("apiBase", "https://api.example.com")

	inst, _ := rt.SetupInstance(hosttest.NewInstance(), &Config{}, false)

	assert.Equal(t, "https://api.example.com", inst.Inject("apiBase", nil, false))
}

func TestObserversGatedBySDKVersion(t *testing.T) {
	cfg := func() *Config {
		return &Config{
			Props: map[string]PropDef{"title": {Type: "string", Default: ""}},
			Watch: map[string]WatchDef{
				"title": {Callback: func(i *Instance, newVal, oldVal any) {}},
			},
		}
	}

	modern := New(WithHostInfo(host.Info{SDKVersion: "2.9.0"}))
	_, hc := modern.SetupInstance(hosttest.NewInstance(), cfg(), false)
	require.Contains(t, hc.Properties, "title")
	require.Contains(t, hc.Observers, "title")

	legacy := New(WithHostInfo(host.Info{SDKVersion: "2.4.0"}))
	_, legacyHC := legacy.SetupInstance(hosttest.NewInstance(), cfg(), false)
	require.Contains(t, legacyHC.Properties, "title")
	assert.Nil(t, legacyHC.Observers)

	// Pages have no property or observer block at all.
	_, pageHC := modern.SetupInstance(hosttest.NewInstance(), cfg(), true)
	assert.Nil(t, pageHC.Properties)
	assert.Nil(t, pageHC.Observers)
}

func TestObserverWriteFunnelsThroughEngine(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	var seen []any
	cfg := &Config{
		Data: map[string]any{"title": "a"},
		Watch: map[string]WatchDef{
			"title": {Callback: func(i *Instance, newVal, oldVal any) {
				seen = append(seen, newVal)
			}},
		},
	}

	inst, hc := rt.SetupInstance(raw, cfg, false)
	raw.Reset()

	hc.Observers["title"]("b")
	assert.Equal(t, "b", inst.Data().Get("title"))
	assert.Equal(t, []any{"b"}, seen)
	assert.Equal(t, 1, raw.PatchCount())

	// Re-notifying the value the engine just wrote must not loop.
	hc.Observers["title"]("b")
	assert.Equal(t, []any{"b"}, seen)
	assert.Equal(t, 1, raw.PatchCount())
}

func TestDispatchEventRunsDeclaredHandlers(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	var tapped *binding.Event
	cfg := &Config{
		Events: map[string]EventDef{
			"tap": {Handler: func(i *Instance, ev *binding.Event) {
				tapped = ev
				ev.StopPropagation()
			}},
		},
	}

	_, hc := rt.SetupInstance(raw, cfg, false)

	result := hc.Methods["_dispatchEvent"](map[string]any{
		"type":   "tap",
		"target": "btn",
		"detail": map[string]any{"x": 1},
	})

	require.NotNil(t, tapped)
	assert.Equal(t, "btn", tapped.Target)
	assert.Equal(t, map[string]any{"stopped": true, "prevented": false}, result)
}

func TestTwoWayBindingWritesThroughEngine(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	cfg := &Config{
		Data: map[string]any{"title": ""},
		Bindings: map[string]BindingDef{
			"title": {},
		},
	}

	inst, _ := rt.SetupInstance(raw, cfg, false)
	raw.Reset()

	inst.DispatchEvent(&binding.Event{
		Name:   "input",
		Detail: map[string]any{"value": "hello"},
	})

	assert.Equal(t, "hello", inst.Data().Get("title"))
	assert.Equal(t, []map[string]any{{"title": "hello"}}, raw.Patches())
}

func TestLifecycleOrderingAndTeardown(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	var order []string
	cfg := &Config{
		Data: map[string]any{"count": 0},
		Lifecycle: map[string]Hook{
			"mounted": func(i *Instance) error {
				order = append(order, "onMounted")
				return nil
			},
			"unmounted": func(i *Instance) error {
				order = append(order, "onUnmounted")
				return nil
			},
			"created": func(i *Instance) error {
				order = append(order, "created")
				return nil
			},
			"detached": func(i *Instance) error {
				order = append(order, "detached")
				return nil
			},
		},
	}

	inst, _ := rt.SetupInstance(raw, cfg, false)
	require.Equal(t, lifecycle.StateCreated, inst.State())

	raw.Invoke(host.CallbackCreated, nil)
	raw.Invoke(host.CallbackAttached, nil)
	raw.Invoke(host.CallbackComponentReady, nil)
	require.Equal(t, lifecycle.StateMounted, inst.State())
	raw.Invoke(host.CallbackDetached, nil)

	assert.Equal(t, []string{"created", "onMounted", "detached", "onUnmounted"}, order)
	assert.Equal(t, lifecycle.StateUnmounted, inst.State())

	// Detach tears the instance down: slots released, writes inert.
	assert.Empty(t, raw.CallbackNames())
	raw.Reset()
	inst.Data().Set("count", 5)
	assert.Zero(t, raw.PatchCount())
}

func TestTeardownIsIdempotentAndSeversTree(t *testing.T) {
	rt := newTestRuntime()
	parent, _ := rt.SetupInstance(hosttest.NewInstance(), &Config{}, true)
	child, _ := rt.SetupInstance(hosttest.NewInstance(), &Config{}, false, WithParent(parent))

	require.Same(t, parent, child.Parent())

	child.Teardown()
	child.Teardown()

	assert.Nil(t, child.Parent())
	assert.Empty(t, parent.children)
}

func TestEmitTriggersHostEvent(t *testing.T) {
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	inst, _ := rt.SetupInstance(raw, &Config{}, false)

	inst.Emit("change", map[string]any{"value": 7})

	require.Len(t, raw.Events(), 1)
	assert.Equal(t, "change", raw.Events()[0].Name)

	inst.Teardown()
	inst.Emit("change", nil)
	assert.Len(t, raw.Events(), 1)
}

func TestMethodPanicIsReportedNotFatal(t *testing.T) {
	capture := captureReports(t)
	rt := newTestRuntime()
	cfg := &Config{
		Methods: map[string]Method{
			"boom": func(i *Instance, args map[string]any) any {
				panic("kaboom")
			},
		},
	}

	_, hc := rt.SetupInstance(hosttest.NewInstance(), cfg, false)

	assert.NotPanics(t, func() {
		hc.Methods["boom"](nil)
	})
	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, errors.KindBinding, capture.Errors()[0].Kind)
	assert.Equal(t, "boom", capture.Errors()[0].Key)
}

func TestUnknownLifecycleNameDegrades(t *testing.T) {
	capture := captureReports(t)
	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	cfg := &Config{
		Data: map[string]any{"ok": true},
		Lifecycle: map[string]Hook{
			"onTeleport": func(i *Instance) error { return nil },
		},
	}

	inst, _ := rt.SetupInstance(raw, cfg, false)

	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, errors.KindConfig, capture.Errors()[0].Kind)
	assert.Equal(t, "onTeleport", capture.Errors()[0].Key)
	// The rest of the instance still wired.
	assert.Equal(t, true, inst.Data().Get("ok"))
}

func TestSetComputedWithoutSetterReports(t *testing.T) {
	capture := captureReports(t)
	rt := newTestRuntime()
	cfg := &Config{
		Computed: map[string]ComputedDef{
			"double": {Get: func(i *Instance) any { return 2 }},
		},
	}

	inst, _ := rt.SetupInstance(hosttest.NewInstance(), cfg, false)

	inst.SetComputed("double", 10)
	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, errors.KindComputation, capture.Errors()[0].Kind)
}

func TestSetComputedAppliesSetter(t *testing.T) {
	rt := newTestRuntime()
	cfg := &Config{
		Data: map[string]any{"count": 1},
		Computed: map[string]ComputedDef{
			"double": {
				Get: func(i *Instance) any { return i.Data().Get("count").(int) * 2 },
				Set: func(i *Instance, v any) { i.Data().Set("count", v.(int)/2) },
			},
		},
	}

	inst, _ := rt.SetupInstance(hosttest.NewInstance(), cfg, false)

	inst.SetComputed("double", 10)
	assert.Equal(t, 5, inst.Data().Get("count"))
}
