// Package inject implements the hierarchical provide/inject graph shared by
// component instances.
//
// Each instance owns a Registry holding its providers and bound injectors.
// Resolution walks the instance parent chain upward, then falls back to the
// runtime's global provider map, then to the injector's default. Resolution
// only ever reads ancestor state. Parent links are lookup-only; ownership
// stays with each instance, and Detach severs the edges at teardown.
package inject

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/errors"
)

// Key identifies a provided value. Keys are application-wide constants, not
// per-instance state.
type Key string

// binding is one injector bound on an instance: a local name resolved from a
// key, with an apply function that pushes resolved values into the
// instance's reactive data.
type binding struct {
	name     string
	key      Key
	def      any
	required bool
	apply    func(any)
}

// Globals is a runtime-scoped provider map, the last resolution stop before
// an injector's default. It is owned by the runtime context, not by any
// instance, so independent runtimes never share providers.
type Globals struct {
	values map[Key]any
}

// NewGlobals creates an empty global provider map.
func NewGlobals() *Globals {
	return &Globals{values: make(map[Key]any)}
}

// Provide stores a global provider.
func (g *Globals) Provide(key Key, value any) {
	g.values[key] = value
}

// Lookup returns the global provider for key, if any.
func (g *Globals) Lookup(key Key) (any, bool) {
	v, ok := g.values[key]
	return v, ok
}

// Registry holds one instance's providers and bound injectors, plus the
// parent/children edges recorded at instance creation.
type Registry struct {
	instance  string
	providers map[Key]any
	bindings  []*binding
	parent    *Registry
	children  []*Registry
	globals   *Globals
	propagate bool
}

// NewRegistry creates a registry for the named instance. A non-nil parent
// records the child edge immediately so later Provide calls can reach this
// registry's bindings. propagate enables eager push of new provider values
// into descendant bindings.
func NewRegistry(instance string, parent *Registry, globals *Globals, propagate bool) *Registry {
	r := &Registry{
		instance:  instance,
		providers: make(map[Key]any),
		parent:    parent,
		globals:   globals,
		propagate: propagate,
	}
	if parent != nil {
		parent.children = append(parent.children, r)
	}
	return r
}

// Provide stores a provider on this registry. With propagation enabled, the
// new value is eagerly pushed into every descendant binding bound to key,
// so existing injected bindings update without re-running their lookup.
// Descendants that provide the same key shadow their own subtrees.
func (r *Registry) Provide(key Key, value any) {
	r.providers[key] = value
	if r.propagate {
		for _, child := range r.children {
			child.pushDown(key, value)
		}
	}
}

// pushDown applies a new ancestor provider value to this subtree.
func (r *Registry) pushDown(key Key, value any) {
	if _, shadowed := r.providers[key]; shadowed {
		return
	}
	for _, b := range r.bindings {
		if b.key == key && b.apply != nil {
			b.apply(value)
		}
	}
	for _, child := range r.children {
		child.pushDown(key, value)
	}
}

// Resolve looks key up on this registry, then up the parent chain, then in
// the global provider map.
func (r *Registry) Resolve(key Key) (any, bool) {
	for current := r; current != nil; current = current.parent {
		if v, ok := current.providers[key]; ok {
			return v, true
		}
	}
	if r.globals != nil {
		if v, ok := r.globals.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Inject resolves key, falling back to def when no provider is found. When
// required is set and resolution still fails, the miss is reported and nil
// is returned; a missing required injection never aborts the instance.
func (r *Registry) Inject(key Key, def any, required bool) any {
	if v, ok := r.Resolve(key); ok {
		return v
	}
	if def != nil {
		return def
	}
	if required {
		errors.Report(&errors.RuntimeError{
			Op:       "inject.Registry.Inject",
			Kind:     errors.KindInjection,
			Instance: r.instance,
			Key:      string(key),
			Err:      fmt.Errorf("no provider for required injection %q", key),
		})
	}
	return nil
}

// Bind registers an injector under a local name: the key is resolved now and
// apply is called with the result (including the default on a miss), and the
// binding stays registered so provider propagation can re-apply it later.
func (r *Registry) Bind(name string, key Key, def any, required bool, apply func(any)) {
	b := &binding{name: name, key: key, def: def, required: required, apply: apply}
	r.bindings = append(r.bindings, b)
	v := r.Inject(key, def, required)
	if apply != nil {
		apply(v)
	}
}

// Bindings returns the local names of all registered injector bindings.
func (r *Registry) Bindings() []string {
	names := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		names[i] = b.name
	}
	return names
}

// Detach removes this registry from its parent's child list and clears
// every map it owns. Children keep running but lose their parent link's
// reach through this registry only when they detach themselves.
func (r *Registry) Detach() {
	if r.parent != nil {
		siblings := r.parent.children
		for i, child := range siblings {
			if child == r {
				r.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
		r.parent = nil
	}
	clear(r.providers)
	r.bindings = nil
	r.children = nil
}
