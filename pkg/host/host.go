// Package host defines the capability contract the wisp runtime requires from
// the rendering platform.
//
// The host platform renders from a per-instance backing data store and exposes
// a coarse-grained patch API: a partial key/value object, with flat or dotted
// keys, merged into that store. The runtime never touches the rendered view
// directly; every reactive write funnels into Patch, and the host drives the
// runtime back through named lifecycle callback slots and event dispatch.
package host

// Patcher is the write half of the host contract: a partial key/value object
// is merged into the rendered view's backing store. Keys may be flat ("count")
// or dotted paths ("user.profile.name").
//
// Patch is synchronous from the runtime's point of view; the runtime has
// already written the value through to its raw target before calling it.
type Patcher interface {
	Patch(data map[string]any)
}

// Callback is a named lifecycle or event slot invoked by the host platform.
type Callback func(args map[string]any)

// RawInstance is the raw per-component object handed to the runtime at
// instance creation: the patch function, the component-to-parent event
// trigger, a readable data bag, and named callback slots the lifecycle
// adapter may overwrite or wrap.
type RawInstance interface {
	Patcher

	// TriggerEvent emits a component-to-parent event.
	TriggerEvent(name string, detail map[string]any)

	// Data returns the backing data bag, readable by key.
	Data() map[string]any

	// SetCallback installs fn into the named callback slot, replacing any
	// previous occupant. A nil fn clears the slot.
	SetCallback(name string, fn Callback)

	// Callback returns the current occupant of the named slot, or nil.
	Callback(name string) Callback
}

// Page callback slot names.
const (
	CallbackLoad   = "onLoad"
	CallbackShow   = "onShow"
	CallbackReady  = "onReady"
	CallbackHide   = "onHide"
	CallbackUnload = "onUnload"
)

// Component callback slot names. PageShow and PageHide are the page-level
// visibility passthrough slots a component receives from its enclosing page.
const (
	CallbackCreated        = "created"
	CallbackAttached       = "attached"
	CallbackComponentReady = "ready"
	CallbackMoved          = "moved"
	CallbackDetached       = "detached"
	CallbackPageShow       = "pageShow"
	CallbackPageHide       = "pageHide"
)

// PageCallbacks lists every page slot the lifecycle adapter installs.
var PageCallbacks = []string{
	CallbackLoad, CallbackShow, CallbackReady, CallbackHide, CallbackUnload,
}

// ComponentCallbacks lists every component slot the lifecycle adapter installs.
var ComponentCallbacks = []string{
	CallbackCreated, CallbackAttached, CallbackComponentReady,
	CallbackMoved, CallbackDetached, CallbackPageShow, CallbackPageHide,
}
