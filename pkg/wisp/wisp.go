// Package wisp is the public facade of the wisp runtime. It re-exports the
// orchestrator's entry points and offers composition-style helpers scoped to
// an instance, so generated code and hand-written setup logic read the same.
package wisp

import (
	"github.com/go-wisp/wisp/pkg/component"
	"github.com/go-wisp/wisp/pkg/host"
	"github.com/go-wisp/wisp/pkg/inject"
	"github.com/go-wisp/wisp/pkg/lifecycle"
	"github.com/go-wisp/wisp/pkg/reactive"
)

// Re-exported orchestrator and engine types.
type (
	Runtime      = component.Runtime
	Config       = component.Config
	Instance     = component.Instance
	HostConfig   = component.HostConfig
	Option       = component.Option
	Key          = inject.Key
	WatchOptions = reactive.WatchOptions
)

// New creates a runtime context.
func New(opts ...Option) *Runtime {
	return component.New(opts...)
}

// WithHostInfo records the host platform description on the runtime.
func WithHostInfo(info host.Info) Option {
	return component.WithHostInfo(info)
}

// Ref creates a standalone reactive slot in the instance's scope.
func Ref(i *Instance, initial any) *reactive.Ref {
	return reactive.NewRef(i.Scope(), initial)
}

// Reactive wraps a plain map as a deep-tracked reactive object patching
// under key.
func Reactive(i *Instance, key string, target map[string]any) *reactive.Object {
	return reactive.NewObject(i.Scope(), key, target)
}

// Computed creates a lazy derived cell in the instance's scope.
func Computed(i *Instance, key string, getter func() any) *reactive.Computed {
	return reactive.NewComputed(i.Scope(), key, getter)
}

// Watch observes a source in the instance's scope. The returned function
// stops the watcher.
func Watch(i *Instance, source func() any, cb func(newVal, oldVal any), opts reactive.WatchOptions) func() {
	return reactive.Watch(i.Scope(), source, cb, opts)
}

// Provide stores a provider on the instance for its descendants.
func Provide(i *Instance, key inject.Key, value any) {
	i.Provide(key, value)
}

// Inject resolves a value through the instance's parent chain, falling back
// to def.
func Inject(i *Instance, key inject.Key, def any) any {
	return i.Inject(key, def, false)
}

// MustInject resolves a value through the instance's parent chain. A miss is
// reported and returns nil.
func MustInject(i *Instance, key inject.Key) any {
	return i.Inject(key, nil, true)
}

// OnBeforeMount registers a hook fired before the host mounts the instance.
func OnBeforeMount(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.BeforeMount, fn)
}

// OnMounted registers a hook fired after the host mounts the instance.
func OnMounted(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.Mounted, fn)
}

// OnBeforeUpdate registers a hook fired before a computed update pass.
func OnBeforeUpdate(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.BeforeUpdate, fn)
}

// OnUpdated registers a hook fired after a computed update pass.
func OnUpdated(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.Updated, fn)
}

// OnBeforeUnmount registers a hook fired before the host unmounts the
// instance.
func OnBeforeUnmount(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.BeforeUnmount, fn)
}

// OnUnmounted registers a hook fired after the host unmounts the instance.
func OnUnmounted(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.Unmounted, fn)
}

// OnActivated registers a hook fired when the enclosing page becomes
// visible.
func OnActivated(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.Activated, fn)
}

// OnDeactivated registers a hook fired when the enclosing page is hidden.
func OnDeactivated(i *Instance, fn func() error) {
	i.Adapter().On(lifecycle.Deactivated, fn)
}

// OnCleanup registers a function run once at instance teardown.
func OnCleanup(i *Instance, fn func()) {
	i.Adapter().OnCleanup(fn)
}
