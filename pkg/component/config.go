package component

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/inject"
)

// Callback signatures used throughout a configuration. Every callback
// receives the instance it runs against; the compiler front-end generates
// closures of these shapes.
type (
	// Getter computes a derived value.
	Getter func(i *Instance) any
	// Setter applies a write to a computed entry.
	Setter func(i *Instance, v any)
	// Method is a host-callable method.
	Method func(i *Instance, args map[string]any) any
	// WatchFunc receives the new and old value of a watched source.
	WatchFunc func(i *Instance, newVal, oldVal any)
	// Hook is a lifecycle callback.
	Hook func(i *Instance) error
	// EventFunc handles a dispatched event.
	EventFunc func(i *Instance, ev *binding.Event)
)

// ComputedDef declares a computed entry: a getter and an optional setter.
type ComputedDef struct {
	Get Getter
	Set Setter
}

// WatchDef declares a watcher. Path names a data-bag field to watch (the
// map key when empty); Source, when set, replaces the path read entirely.
type WatchDef struct {
	Path      string
	Source    func(i *Instance) any
	Callback  WatchFunc
	Immediate bool
	Deep      bool
}

// PropDef declares an externally settable component property.
type PropDef struct {
	Type    string
	Default any
}

// InjectorDef declares an injection binding under a local data name.
type InjectorDef struct {
	Key      inject.Key
	Default  any
	Required bool
}

// EventDef declares an event handler. Event names the host event (the map
// key when empty); Modifiers apply in declaration order.
type EventDef struct {
	Event     string
	Modifiers []string
	Handler   EventFunc
}

// BindingDef declares a two-way binding for the data property it is keyed
// by. Event defaults to "input".
type BindingDef struct {
	Event     string
	Transform func(any) any
	Validate  func(any) bool
}

// Config is the declarative configuration produced by the compiler
// front-end for one component or page.
type Config struct {
	Name      string
	Data      map[string]any
	Computed  map[string]ComputedDef
	Watch     map[string]WatchDef
	Methods   map[string]Method
	Lifecycle map[string]Hook
	Props     map[string]PropDef
	Providers map[inject.Key]any
	Injectors map[string]InjectorDef
	Events    map[string]EventDef
	Bindings  map[string]BindingDef
	Mixins    []*Config
	Extends   *Config
}

func newEmptyConfig() *Config {
	return &Config{
		Data:      make(map[string]any),
		Computed:  make(map[string]ComputedDef),
		Watch:     make(map[string]WatchDef),
		Methods:   make(map[string]Method),
		Lifecycle: make(map[string]Hook),
		Props:     make(map[string]PropDef),
		Providers: make(map[inject.Key]any),
		Injectors: make(map[string]InjectorDef),
		Events:    make(map[string]EventDef),
		Bindings:  make(map[string]BindingDef),
	}
}

// MergeConfig flattens a configuration's extends chain and mixin list into
// one configuration. Precedence, lowest first: the extends base, then each
// mixin in array order, then the configuration itself; within a section,
// later fragments win key by key. A nil fragment is treated as empty and
// reported; merging never fails.
func MergeConfig(cfg *Config) *Config {
	merged := newEmptyConfig()
	applyFragment(merged, cfg, "config")
	return merged
}

// applyFragment folds one fragment (and, first, its own bases) into dst.
func applyFragment(dst *Config, frag *Config, origin string) {
	if frag == nil {
		errors.Report(&errors.RuntimeError{
			Op:   "component.MergeConfig",
			Kind: errors.KindConfig,
			Key:  origin,
			Err:  fmt.Errorf("nil config fragment treated as empty"),
		})
		return
	}
	if frag.Extends != nil {
		applyFragment(dst, frag.Extends, origin+".extends")
	}
	for idx, mixin := range frag.Mixins {
		applyFragment(dst, mixin, fmt.Sprintf("%s.mixins[%d]", origin, idx))
	}
	if frag.Name != "" {
		dst.Name = frag.Name
	}
	mergeSection(dst.Data, frag.Data)
	mergeSection(dst.Computed, frag.Computed)
	mergeSection(dst.Watch, frag.Watch)
	mergeSection(dst.Methods, frag.Methods)
	mergeSection(dst.Lifecycle, frag.Lifecycle)
	mergeSection(dst.Props, frag.Props)
	mergeSection(dst.Providers, frag.Providers)
	mergeSection(dst.Injectors, frag.Injectors)
	mergeSection(dst.Events, frag.Events)
	mergeSection(dst.Bindings, frag.Bindings)
}

// mergeSection is the shallow per-section merge: object union, later wins.
func mergeSection[K comparable, V any](dst map[K]V, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}
