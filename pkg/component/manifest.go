package component

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/inject"
)

// Manifest is the YAML form of a configuration's declarative sections. The
// compiler front-end emits one manifest per component next to the generated
// code; functions are referenced by the names they were registered under in
// a FuncRegistry.
type Manifest struct {
	Name      string                      `yaml:"name,omitempty"`
	Page      bool                        `yaml:"page,omitempty"`
	Data      map[string]any              `yaml:"data,omitempty"`
	Computed  map[string]string           `yaml:"computed,omitempty"`
	Watch     map[string]WatchManifest    `yaml:"watch,omitempty"`
	Methods   []string                    `yaml:"methods,omitempty"`
	Lifecycle map[string]string           `yaml:"lifecycle,omitempty"`
	Props     map[string]PropManifest     `yaml:"props,omitempty"`
	Providers map[string]any              `yaml:"providers,omitempty"`
	Injectors map[string]InjectorManifest `yaml:"injectors,omitempty"`
	Events    map[string]EventManifest    `yaml:"events,omitempty"`
	Bindings  map[string]BindingManifest  `yaml:"bindings,omitempty"`
	Mixins    []string                    `yaml:"mixins,omitempty"`
}

// WatchManifest declares one watcher.
type WatchManifest struct {
	Path      string `yaml:"path,omitempty"`
	Handler   string `yaml:"handler"`
	Immediate bool   `yaml:"immediate,omitempty"`
	Deep      bool   `yaml:"deep,omitempty"`
}

// PropManifest declares one component property.
type PropManifest struct {
	Type    string `yaml:"type,omitempty"`
	Default any    `yaml:"default,omitempty"`
}

// InjectorManifest declares one injection binding.
type InjectorManifest struct {
	Key      string `yaml:"key"`
	Default  any    `yaml:"default,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// EventManifest declares one event handler.
type EventManifest struct {
	Event     string   `yaml:"event,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty"`
	Handler   string   `yaml:"handler"`
}

// BindingManifest declares one two-way binding.
type BindingManifest struct {
	Event     string `yaml:"event,omitempty"`
	Transform string `yaml:"transform,omitempty"`
	Validator string `yaml:"validator,omitempty"`
}

// FuncRegistry holds the functions a manifest may reference by name.
type FuncRegistry struct {
	Getters    map[string]Getter
	Setters    map[string]Setter
	Methods    map[string]Method
	Watchers   map[string]WatchFunc
	Hooks      map[string]Hook
	Handlers   map[string]EventFunc
	Transforms map[string]func(any) any
	Validators map[string]func(any) bool
	Mixins     map[string]*Config
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse component manifest: %w", err)
	}
	return &m, nil
}

// Config resolves the manifest against a function registry. A reference to
// a name the registry does not hold degrades to a reported skip; resolution
// never fails.
func (m *Manifest) Config(funcs *FuncRegistry) *Config {
	if funcs == nil {
		funcs = &FuncRegistry{}
	}
	cfg := newEmptyConfig()
	cfg.Name = m.Name
	for k, v := range m.Data {
		cfg.Data[k] = v
	}

	for name, getter := range m.Computed {
		fn, ok := funcs.Getters[getter]
		if !ok {
			reportUnresolved(m.Name, "computed", getter)
			continue
		}
		cfg.Computed[name] = ComputedDef{Get: fn}
	}
	for name, w := range m.Watch {
		fn, ok := funcs.Watchers[w.Handler]
		if !ok {
			reportUnresolved(m.Name, "watch", w.Handler)
			continue
		}
		cfg.Watch[name] = WatchDef{
			Path:      w.Path,
			Callback:  fn,
			Immediate: w.Immediate,
			Deep:      w.Deep,
		}
	}
	for _, name := range m.Methods {
		fn, ok := funcs.Methods[name]
		if !ok {
			reportUnresolved(m.Name, "methods", name)
			continue
		}
		cfg.Methods[name] = fn
	}
	for name, hook := range m.Lifecycle {
		fn, ok := funcs.Hooks[hook]
		if !ok {
			reportUnresolved(m.Name, "lifecycle", hook)
			continue
		}
		cfg.Lifecycle[name] = fn
	}
	for name, p := range m.Props {
		cfg.Props[name] = PropDef{Type: p.Type, Default: p.Default}
	}
	for key, value := range m.Providers {
		cfg.Providers[inject.Key(key)] = value
	}
	for local, inj := range m.Injectors {
		cfg.Injectors[local] = InjectorDef{
			Key:      inject.Key(inj.Key),
			Default:  inj.Default,
			Required: inj.Required,
		}
	}
	for name, ev := range m.Events {
		fn, ok := funcs.Handlers[ev.Handler]
		if !ok {
			reportUnresolved(m.Name, "events", ev.Handler)
			continue
		}
		cfg.Events[name] = EventDef{
			Event:     ev.Event,
			Modifiers: ev.Modifiers,
			Handler:   fn,
		}
	}
	for property, b := range m.Bindings {
		def := BindingDef{Event: b.Event}
		if b.Transform != "" {
			fn, ok := funcs.Transforms[b.Transform]
			if !ok {
				reportUnresolved(m.Name, "bindings", b.Transform)
				continue
			}
			def.Transform = fn
		}
		if b.Validator != "" {
			fn, ok := funcs.Validators[b.Validator]
			if !ok {
				reportUnresolved(m.Name, "bindings", b.Validator)
				continue
			}
			def.Validate = fn
		}
		cfg.Bindings[property] = def
	}
	for _, name := range m.Mixins {
		mixin, ok := funcs.Mixins[name]
		if !ok {
			reportUnresolved(m.Name, "mixins", name)
			continue
		}
		cfg.Mixins = append(cfg.Mixins, mixin)
	}
	return cfg
}

func reportUnresolved(component, section, name string) {
	errors.Report(&errors.RuntimeError{
		Op:   "component.Manifest.Config",
		Kind: errors.KindConfig,
		Key:  section,
		Err:  fmt.Errorf("component %q references unregistered %s function %q", component, section, name),
	})
}
