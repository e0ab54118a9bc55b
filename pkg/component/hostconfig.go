package component

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
)

// MethodFunc is a host-callable method in the emitted configuration.
type MethodFunc func(args map[string]any) any

// PropertySpec describes one externally settable component property.
type PropertySpec struct {
	Type    string
	Default any
}

// ObserverFunc receives a host-native data change notification.
type ObserverFunc func(newVal any)

// HostConfig is the host-facing configuration object the orchestrator
// emits: the seeded data bag, the method table, the claimed lifecycle
// callback slots, and, for components, the property and observer blocks.
type HostConfig struct {
	Data       map[string]any
	Methods    map[string]MethodFunc
	Callbacks  map[string]host.Callback
	Properties map[string]PropertySpec
	Observers  map[string]ObserverFunc
}

// hostConfig assembles the emitted configuration for a freshly wired
// instance.
func (i *Instance) hostConfig(cfg *Config) *HostConfig {
	hc := &HostConfig{
		Data:      i.data.Raw(),
		Methods:   make(map[string]MethodFunc),
		Callbacks: make(map[string]host.Callback),
	}

	for name, m := range cfg.Methods {
		if m == nil {
			continue
		}
		hc.Methods[name] = i.wrapMethod(name, m)
	}
	hc.Methods["_setupReactivity"] = func(args map[string]any) any {
		i.UpdateComputed()
		return nil
	}
	hc.Methods["_updateComputed"] = func(args map[string]any) any {
		i.UpdateComputed()
		return nil
	}
	hc.Methods["_dispatchEvent"] = func(args map[string]any) any {
		ev := eventFromArgs(args)
		i.DispatchEvent(ev)
		return map[string]any{
			"stopped":   ev.Stopped(),
			"prevented": ev.Prevented(),
		}
	}

	for _, name := range i.installed {
		if fn := i.raw.Callback(name); fn != nil {
			hc.Callbacks[name] = fn
		}
	}

	if !i.isPage {
		hc.Properties = make(map[string]PropertySpec, len(cfg.Props))
		for name, def := range cfg.Props {
			hc.Properties[name] = PropertySpec{Type: def.Type, Default: def.Default}
		}
		if i.rt.hostInfo.Supports(host.FeatureObservers) {
			hc.Observers = i.observers(cfg)
		}
	}
	return hc
}

// observers emits one entry per path-watching watch declaration, so
// host-native change notifications (a parent writing a property, the host
// restoring state) are funneled back through the engine and re-trigger the
// declared watchers.
func (i *Instance) observers(cfg *Config) map[string]ObserverFunc {
	out := make(map[string]ObserverFunc)
	for name, def := range cfg.Watch {
		if def.Source != nil || def.Callback == nil {
			continue
		}
		path := def.Path
		if path == "" {
			path = name
		}
		out[path] = func(newVal any) {
			// The identical-value gate in the engine breaks the
			// host-notify/patch cycle.
			i.data.Set(path, newVal)
		}
	}
	return out
}

// wrapMethod guards a user method for invocation from the host boundary.
func (i *Instance) wrapMethod(name string, m Method) MethodFunc {
	return func(args map[string]any) (result any) {
		defer func() {
			if r := recover(); r != nil {
				errors.Report(&errors.RuntimeError{
					Op:         "component.Instance.method",
					Kind:       errors.KindBinding,
					Instance:   i.id,
					Key:        name,
					Err:        fmt.Errorf("method panic: %v", r),
					StackTrace: errors.CaptureStack(),
				})
			}
		}()
		return m(i, args)
	}
}

// eventFromArgs builds an Event from the host's dispatch payload.
func eventFromArgs(args map[string]any) *binding.Event {
	ev := &binding.Event{}
	if args == nil {
		return ev
	}
	if v, ok := args["type"].(string); ok {
		ev.Name = v
	}
	if v, ok := args["target"].(string); ok {
		ev.Target = v
	}
	if v, ok := args["currentTarget"].(string); ok {
		ev.CurrentTarget = v
	}
	if v, ok := args["detail"].(map[string]any); ok {
		ev.Detail = v
	}
	if v, ok := args["key"].(string); ok {
		ev.Key = v
	}
	return ev
}
