package component

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
	"github.com/go-wisp/wisp/pkg/inject"
	"github.com/go-wisp/wisp/pkg/lifecycle"
	"github.com/go-wisp/wisp/pkg/reactive"
)

// Instance is the aggregate root for one logical component or page: it owns
// the reactive scope seeded from the merged configuration, the injection
// registry, the lifecycle adapter, and the event table, all wired against a
// single raw host object. The parent link is lookup-only; ownership stays
// with the host platform's tree.
type Instance struct {
	id     string
	name   string
	isPage bool

	rt     *Runtime
	raw    host.RawInstance
	config *Config

	scope    *reactive.Scope
	data     *reactive.Object
	computed map[string]*reactive.Computed
	stops    []func()

	registry *inject.Registry
	adapter  *lifecycle.Adapter
	events   *binding.Table

	parent    *Instance
	children  []*Instance
	installed []string
	torn      bool
}

// SetupOption configures instance creation.
type SetupOption func(*setupOptions)

type setupOptions struct {
	parent *Instance
}

// WithParent records the parent instance for injection chain walking and
// provider propagation.
func WithParent(p *Instance) SetupOption {
	return func(o *setupOptions) {
		o.parent = p
	}
}

// SetupInstance merges the configuration, creates one wired instance around
// the raw host object, and returns it together with the host-facing
// configuration to hand to the platform's registration call. Construction
// never aborts: malformed configuration degrades section by section.
func (rt *Runtime) SetupInstance(raw host.RawInstance, cfg *Config, isPage bool, opts ...SetupOption) (*Instance, *HostConfig) {
	var options setupOptions
	for _, opt := range opts {
		opt(&options)
	}

	merged := MergeConfig(cfg)
	i := &Instance{
		id:       uuid.NewString(),
		name:     merged.Name,
		isPage:   isPage,
		rt:       rt,
		raw:      raw,
		config:   merged,
		computed: make(map[string]*reactive.Computed),
	}

	i.scope = reactive.NewScope(raw)

	seed := make(map[string]any, len(merged.Data))
	for k, v := range merged.Data {
		seed[k] = v
	}
	i.data = reactive.NewObject(i.scope, "", seed)

	var parentRegistry *inject.Registry
	if options.parent != nil {
		i.parent = options.parent
		options.parent.children = append(options.parent.children, i)
		parentRegistry = options.parent.registry
	}
	i.registry = inject.NewRegistry(i.id, parentRegistry, rt.globals, rt.propagate)

	i.setupProviders(merged)
	i.setupInjectors(merged)
	i.setupComputed(merged)
	i.setupWatchers(merged)

	i.adapter = lifecycle.NewAdapter(i.id, isPage)
	i.adapter.OnCleanup(i.Teardown)
	i.setupLifecycle(merged)

	i.events = binding.NewTable(i.id)
	i.setupEvents(merged)

	return i, i.hostConfig(merged)
}

// ID returns the instance's unique identity.
func (i *Instance) ID() string { return i.id }

// Name returns the configured component name, if any.
func (i *Instance) Name() string { return i.name }

// IsPage reports whether the instance is a page.
func (i *Instance) IsPage() bool { return i.isPage }

// Scope returns the instance's reactive scope.
func (i *Instance) Scope() *reactive.Scope { return i.scope }

// Data returns the instance's reactive data bag.
func (i *Instance) Data() *reactive.Object { return i.data }

// Registry returns the instance's injection registry.
func (i *Instance) Registry() *inject.Registry { return i.registry }

// Adapter returns the instance's lifecycle adapter.
func (i *Instance) Adapter() *lifecycle.Adapter { return i.adapter }

// Events returns the instance's event table.
func (i *Instance) Events() *binding.Table { return i.events }

// Parent returns the parent instance, or nil.
func (i *Instance) Parent() *Instance { return i.parent }

// Raw returns the raw host object the instance is wired to.
func (i *Instance) Raw() host.RawInstance { return i.raw }

// State returns the instance's lifecycle state.
func (i *Instance) State() lifecycle.State { return i.adapter.State() }

// Computed returns the named computed cell, or nil.
func (i *Instance) Computed(name string) *reactive.Computed {
	return i.computed[name]
}

// Provide stores a provider on this instance, reaching descendant bindings
// when propagation is enabled.
func (i *Instance) Provide(key inject.Key, value any) {
	i.registry.Provide(key, value)
}

// Inject resolves a value through the instance's parent chain.
func (i *Instance) Inject(key inject.Key, def any, required bool) any {
	return i.registry.Inject(key, def, required)
}

// Emit triggers a component-to-parent event on the host.
func (i *Instance) Emit(name string, detail map[string]any) {
	if i.torn {
		return
	}
	i.raw.TriggerEvent(name, detail)
}

// DispatchEvent routes a host event through the instance's event table.
func (i *Instance) DispatchEvent(ev *binding.Event) {
	i.events.Dispatch(ev)
}

// SetComputed applies a write to a computed entry's setter. Entries without
// a setter drop the write and report it.
func (i *Instance) SetComputed(name string, v any) {
	def, ok := i.config.Computed[name]
	if !ok || def.Set == nil {
		errors.Report(&errors.RuntimeError{
			Op:       "component.Instance.SetComputed",
			Kind:     errors.KindComputation,
			Instance: i.id,
			Key:      name,
			Err:      fmt.Errorf("computed entry has no setter"),
		})
		return
	}
	def.Set(i, v)
}

// UpdateComputed reads every computed cell once, re-running stale getters
// and pushing their patches, inside a before-update/updated pair.
func (i *Instance) UpdateComputed() {
	if i.torn {
		return
	}
	done := i.adapter.MarkUpdating()
	for _, c := range i.computed {
		c.Get()
	}
	done()
}

// Teardown destroys the instance: watchers stop, maps clear, the scope
// closes, installed host callbacks are released, and the parent/children
// edges are severed so nothing retains the raw host object.
func (i *Instance) Teardown() {
	if i.torn {
		return
	}
	i.torn = true
	for _, stop := range i.stops {
		stop()
	}
	i.stops = nil
	i.events.Clear()
	i.registry.Detach()
	for _, name := range i.installed {
		i.raw.SetCallback(name, nil)
	}
	i.installed = nil
	i.scope.Close()
	if i.parent != nil {
		i.parent.children = slices.DeleteFunc(i.parent.children, func(c *Instance) bool {
			return c == i
		})
		i.parent = nil
	}
	for _, child := range i.children {
		if child.parent == i {
			child.parent = nil
		}
	}
	i.children = nil
	clear(i.computed)
}

// setupProviders registers declared providers before any injector resolves,
// so an instance's own provides are visible to its own injectors.
func (i *Instance) setupProviders(cfg *Config) {
	for key, value := range cfg.Providers {
		i.registry.Provide(key, value)
	}
}

// setupInjectors binds each declared injector under its local data name.
// Resolved values land in the data bag through the engine, so the host
// store and any watchers see them.
func (i *Instance) setupInjectors(cfg *Config) {
	for local, def := range cfg.Injectors {
		name := local
		i.registry.Bind(name, def.Key, def.Default, def.Required, func(v any) {
			i.data.Set(name, v)
		})
	}
}

// setupComputed creates one lazy cell per computed entry, patching under
// the entry's name.
func (i *Instance) setupComputed(cfg *Config) {
	for name, def := range cfg.Computed {
		if def.Get == nil {
			errors.Report(&errors.RuntimeError{
				Op:       "component.SetupInstance",
				Kind:     errors.KindConfig,
				Instance: i.id,
				Key:      name,
				Err:      fmt.Errorf("computed entry has no getter"),
			})
			continue
		}
		get := def.Get
		i.computed[name] = reactive.NewComputed(i.scope, name, func() any {
			return get(i)
		})
	}
}

// setupWatchers registers one engine watcher per watch entry.
func (i *Instance) setupWatchers(cfg *Config) {
	for name, def := range cfg.Watch {
		if def.Callback == nil {
			errors.Report(&errors.RuntimeError{
				Op:       "component.SetupInstance",
				Kind:     errors.KindConfig,
				Instance: i.id,
				Key:      name,
				Err:      fmt.Errorf("watch entry has no callback"),
			})
			continue
		}
		def := def
		source := def.Source
		if source == nil {
			path := def.Path
			if path == "" {
				path = name
			}
			source = func(i *Instance) any {
				return i.data.Get(path)
			}
		}
		stop := reactive.Watch(i.scope, func() any {
			return source(i)
		}, func(newVal, oldVal any) {
			def.Callback(i, newVal, oldVal)
		}, reactive.WatchOptions{Immediate: def.Immediate, Deep: def.Deep})
		i.stops = append(i.stops, stop)
	}
}

// setupLifecycle splits the lifecycle section into composable hooks, which
// the adapter runs in its fixed order, and host-native callbacks, which the
// adapter wraps into the corresponding slot. Unknown names degrade to a
// report.
func (i *Instance) setupLifecycle(cfg *Config) {
	native := make(map[string]host.Callback)
	slots := host.ComponentCallbacks
	if i.isPage {
		slots = host.PageCallbacks
	}
	for name, hook := range cfg.Lifecycle {
		if hook == nil {
			continue
		}
		hook := hook
		if kind, ok := lifecycle.KindFromName(name); ok {
			i.adapter.On(kind, func() error {
				return hook(i)
			})
			continue
		}
		if slices.Contains(slots, name) {
			slot := name
			native[name] = func(args map[string]any) {
				if err := hook(i); err != nil {
					errors.Report(&errors.RuntimeError{
						Op:       "component.Instance.lifecycle",
						Kind:     errors.KindLifecycle,
						Instance: i.id,
						Key:      slot,
						Err:      err,
					})
				}
			}
			continue
		}
		errors.Report(&errors.RuntimeError{
			Op:       "component.SetupInstance",
			Kind:     errors.KindConfig,
			Instance: i.id,
			Key:      name,
			Err:      fmt.Errorf("unknown lifecycle hook name"),
		})
	}
	i.adapter.Install(i.raw, native)
	i.installed = append(i.installed, slots...)
}

// setupEvents installs declared event handlers and two-way bindings.
func (i *Instance) setupEvents(cfg *Config) {
	for name, def := range cfg.Events {
		if def.Handler == nil {
			errors.Report(&errors.RuntimeError{
				Op:       "component.SetupInstance",
				Kind:     errors.KindConfig,
				Instance: i.id,
				Key:      name,
				Err:      fmt.Errorf("event entry has no handler"),
			})
			continue
		}
		event := def.Event
		if event == "" {
			event = name
		}
		handler := def.Handler
		i.events.On(&binding.Handler{
			Name:      event,
			Modifiers: def.Modifiers,
			Fn: func(ev *binding.Event) {
				handler(i, ev)
			},
		})
	}
	for property, def := range cfg.Bindings {
		event := def.Event
		if event == "" {
			event = "input"
		}
		i.events.Bind(binding.TwoWay{
			Property:  property,
			Event:     event,
			Transform: def.Transform,
			Validate:  def.Validate,
		}, i.data)
	}
}
