// Package lifecycle adapts composable lifecycle hooks onto the host
// platform's page and component callback state machines.
//
// The two models disagree: user code registers hooks by intent (before
// mount, mounted, before unmount, ...) while the host fires named callbacks
// by phase (onLoad/onShow/onUnload for pages, created/attached/ready/
// detached for components). The Adapter installs a wrapper into every host
// callback slot so the composable hook chain fires in a fixed order around
// whatever host-native callback the user declared, whether or not they
// declared one.
//
// Hook failures are caught and reported per hook; one hook's failure never
// prevents later hooks, including teardown, from running.
package lifecycle

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
)

// Kind identifies a composable lifecycle hook.
type Kind int

const (
	// BeforeMount fires before the instance is wired into the host view.
	BeforeMount Kind = iota
	// Mounted fires once the host view is live.
	Mounted
	// BeforeUpdate fires before a host-driven data update is applied.
	BeforeUpdate
	// Updated fires after a host-driven data update is applied.
	Updated
	// BeforeUnmount fires before the host tears the instance down.
	BeforeUnmount
	// Unmounted fires after teardown callbacks have run.
	Unmounted
	// Activated fires when the enclosing page becomes visible.
	Activated
	// Deactivated fires when the enclosing page is hidden.
	Deactivated
)

func (k Kind) String() string {
	switch k {
	case BeforeMount:
		return "beforeMount"
	case Mounted:
		return "mounted"
	case BeforeUpdate:
		return "beforeUpdate"
	case Updated:
		return "updated"
	case BeforeUnmount:
		return "beforeUnmount"
	case Unmounted:
		return "unmounted"
	case Activated:
		return "activated"
	case Deactivated:
		return "deactivated"
	default:
		return "unknown"
	}
}

// KindFromName maps a composable hook name to its Kind.
func KindFromName(name string) (Kind, bool) {
	switch name {
	case "beforeMount", "onBeforeMount":
		return BeforeMount, true
	case "mounted", "onMounted":
		return Mounted, true
	case "beforeUpdate", "onBeforeUpdate":
		return BeforeUpdate, true
	case "updated", "onUpdated":
		return Updated, true
	case "beforeUnmount", "onBeforeUnmount":
		return BeforeUnmount, true
	case "unmounted", "onUnmounted":
		return Unmounted, true
	case "activated", "onActivated":
		return Activated, true
	case "deactivated", "onDeactivated":
		return Deactivated, true
	}
	return 0, false
}

// State is an instance's position in its lifecycle. Pages move
// created → loaded → mounted → shown ⇄ hidden → unmounted; components move
// created → mounted → unmounted, with updating entered around host-driven
// data updates. Transitions are one-way and driven only by host callbacks.
type State int

const (
	StateCreated State = iota
	StateLoaded
	StateMounted
	StateShown
	StateHidden
	StateUpdating
	StateUnmounted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoaded:
		return "loaded"
	case StateMounted:
		return "mounted"
	case StateShown:
		return "shown"
	case StateHidden:
		return "hidden"
	case StateUpdating:
		return "updating"
	case StateUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}

// Callback is one composable hook registration. A non-nil error is reported
// against the owning instance; it never gates the next transition.
type Callback func() error

// Deferred adapts a slow hook: fn runs on its own goroutine and its eventual
// error is reported when it arrives. The lifecycle transition the hook was
// registered on proceeds immediately; the deferred result exists for error
// reporting only. The report is delivered on the host thread when a
// dispatcher is registered.
func Deferred(fn func() error) Callback {
	return func() error {
		go func() {
			defer errors.Recover("lifecycle.Deferred")
			err := fn()
			if err == nil {
				return
			}
			report := func() {
				errors.Report(&errors.RuntimeError{
					Op:   "lifecycle.Deferred",
					Kind: errors.KindLifecycle,
					Err:  err,
				})
			}
			if !host.Dispatch(report) {
				report()
			}
		}()
		return nil
	}
}

// Adapter is the per-instance lifecycle state machine and hook registry.
type Adapter struct {
	instance string
	isPage   bool
	state    State
	hooks    map[Kind][]Callback
	cleanup  []func()
}

// NewAdapter creates an adapter for the named instance.
func NewAdapter(instance string, isPage bool) *Adapter {
	return &Adapter{
		instance: instance,
		isPage:   isPage,
		state:    StateCreated,
		hooks:    make(map[Kind][]Callback),
	}
}

// On registers a composable hook. Every hook is optional and any number may
// be registered per kind; they fire in registration order.
func (a *Adapter) On(kind Kind, cb Callback) {
	if cb == nil {
		return
	}
	a.hooks[kind] = append(a.hooks[kind], cb)
}

// State returns the instance's current lifecycle state.
func (a *Adapter) State() State {
	return a.state
}

// OnCleanup registers a function run after the final Unmounted hooks.
// Cleanups run in registration order.
func (a *Adapter) OnCleanup(fn func()) {
	if fn == nil {
		return
	}
	a.cleanup = append(a.cleanup, fn)
}

// runCleanup runs the registered cleanups once and drops them.
func (a *Adapter) runCleanup() {
	cleanups := a.cleanup
	a.cleanup = nil
	for _, fn := range cleanups {
		fn()
	}
}

// MarkUpdating fires BeforeUpdate and moves the instance into the updating
// state; the returned function fires Updated and restores the mounted-family
// state it left.
func (a *Adapter) MarkUpdating() func() {
	prev := a.state
	a.fire(BeforeUpdate)
	a.state = StateUpdating
	return func() {
		a.state = prev
		a.fire(Updated)
	}
}

// fire runs every hook of a kind, catching and reporting failures per hook.
func (a *Adapter) fire(kind Kind) {
	for _, cb := range a.hooks[kind] {
		a.runHook(kind, cb)
	}
}

func (a *Adapter) runHook(kind Kind, cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			errors.Report(&errors.RuntimeError{
				Op:         "lifecycle.Adapter.fire",
				Kind:       errors.KindLifecycle,
				Instance:   a.instance,
				Key:        kind.String(),
				Err:        fmt.Errorf("hook panic: %v", r),
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	if err := cb(); err != nil {
		errors.Report(&errors.RuntimeError{
			Op:       "lifecycle.Adapter.fire",
			Kind:     errors.KindLifecycle,
			Instance: a.instance,
			Key:      kind.String(),
			Err:      err,
		})
	}
}
