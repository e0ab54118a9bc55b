package lifecycle

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
)

// Install wraps every named lifecycle callback slot on the raw host
// instance so the composable hook chain fires in the fixed order around the
// host-native callbacks. user carries host-native callbacks declared in the
// instance configuration; any callback already occupying a slot is wrapped,
// not lost. Install always claims every slot, whether or not the user
// supplied the equivalent host-native hook.
func (a *Adapter) Install(raw host.RawInstance, user map[string]host.Callback) {
	if a.isPage {
		a.installPage(raw, user)
		return
	}
	a.installComponent(raw, user)
}

func (a *Adapter) installPage(raw host.RawInstance, user map[string]host.Callback) {
	a.install(raw, user, host.CallbackLoad, func(native host.Callback, args map[string]any) {
		a.fire(BeforeMount)
		a.state = StateLoaded
		a.runNative(host.CallbackLoad, native, args)
		a.state = StateMounted
		a.fire(Mounted)
	})
	a.install(raw, user, host.CallbackShow, func(native host.Callback, args map[string]any) {
		a.fire(Activated)
		a.runNative(host.CallbackShow, native, args)
		a.state = StateShown
	})
	a.install(raw, user, host.CallbackReady, func(native host.Callback, args map[string]any) {
		a.runNative(host.CallbackReady, native, args)
	})
	a.install(raw, user, host.CallbackHide, func(native host.Callback, args map[string]any) {
		a.fire(Deactivated)
		a.runNative(host.CallbackHide, native, args)
		a.state = StateHidden
	})
	a.install(raw, user, host.CallbackUnload, func(native host.Callback, args map[string]any) {
		a.fire(BeforeUnmount)
		a.runNative(host.CallbackUnload, native, args)
		a.state = StateUnmounted
		a.fire(Unmounted)
		a.runCleanup()
	})
}

func (a *Adapter) installComponent(raw host.RawInstance, user map[string]host.Callback) {
	a.install(raw, user, host.CallbackCreated, func(native host.Callback, args map[string]any) {
		a.fire(BeforeMount)
		a.runNative(host.CallbackCreated, native, args)
	})
	a.install(raw, user, host.CallbackAttached, func(native host.Callback, args map[string]any) {
		a.runNative(host.CallbackAttached, native, args)
	})
	a.install(raw, user, host.CallbackComponentReady, func(native host.Callback, args map[string]any) {
		a.runNative(host.CallbackComponentReady, native, args)
		a.state = StateMounted
		a.fire(Mounted)
	})
	a.install(raw, user, host.CallbackMoved, func(native host.Callback, args map[string]any) {
		// Passthrough; a move changes position, not lifecycle state.
		a.runNative(host.CallbackMoved, native, args)
	})
	a.install(raw, user, host.CallbackDetached, func(native host.Callback, args map[string]any) {
		a.fire(BeforeUnmount)
		a.runNative(host.CallbackDetached, native, args)
		a.state = StateUnmounted
		a.fire(Unmounted)
		a.runCleanup()
	})
	a.install(raw, user, host.CallbackPageShow, func(native host.Callback, args map[string]any) {
		a.fire(Activated)
		a.runNative(host.CallbackPageShow, native, args)
	})
	a.install(raw, user, host.CallbackPageHide, func(native host.Callback, args map[string]any) {
		a.fire(Deactivated)
		a.runNative(host.CallbackPageHide, native, args)
	})
}

// install claims one slot. The wrapper receives the combined host-native
// callback: whatever already occupied the slot chained with the
// user-declared one.
func (a *Adapter) install(raw host.RawInstance, user map[string]host.Callback, name string, wrap func(native host.Callback, args map[string]any)) {
	prior := raw.Callback(name)
	declared := user[name]
	var native host.Callback
	switch {
	case prior != nil && declared != nil:
		native = func(args map[string]any) {
			prior(args)
			declared(args)
		}
	case prior != nil:
		native = prior
	default:
		native = declared
	}
	raw.SetCallback(name, func(args map[string]any) {
		wrap(native, args)
	})
}

// runNative invokes a host-native callback, catching and reporting a panic
// so the surrounding hook chain keeps running.
func (a *Adapter) runNative(name string, native host.Callback, args map[string]any) {
	if native == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			errors.Report(&errors.RuntimeError{
				Op:         "lifecycle.Adapter.callback",
				Kind:       errors.KindLifecycle,
				Instance:   a.instance,
				Key:        name,
				Err:        fmt.Errorf("callback panic: %v", r),
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	native(args)
}
