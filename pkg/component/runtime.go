// Package component implements the instance orchestrator: it merges
// declarative configuration fragments, creates one logical instance per raw
// host object, wires the reactive engine, injection registry, lifecycle
// adapter, and event table onto it, and emits the host-facing configuration
// the generated registration call hands to the platform.
package component

import (
	"github.com/go-wisp/wisp/pkg/host"
	"github.com/go-wisp/wisp/pkg/inject"
)

// Runtime is an explicitly constructed, explicitly owned runtime context.
// Every instance-creation call goes through a Runtime; independent runtimes
// share nothing, so several can coexist in one process (tests rely on this).
type Runtime struct {
	globals   *inject.Globals
	hostInfo  host.Info
	propagate bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithHostInfo records the host platform description used to gate optional
// host features such as native data observers.
func WithHostInfo(info host.Info) Option {
	return func(rt *Runtime) {
		rt.hostInfo = info
	}
}

// WithoutProvidePropagation disables the eager push of new provider values
// into descendant injector bindings.
func WithoutProvidePropagation() Option {
	return func(rt *Runtime) {
		rt.propagate = false
	}
}

// New creates a runtime context. Provider propagation is on by default.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		globals:   inject.NewGlobals(),
		propagate: true,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// ProvideGlobal stores an application-wide provider, the last resolution
// stop before an injector's default.
func (rt *Runtime) ProvideGlobal(key inject.Key, value any) {
	rt.globals.Provide(key, value)
}

// HostInfo returns the configured host platform description.
func (rt *Runtime) HostInfo() host.Info {
	return rt.hostInfo
}
