// Package hosttest provides an in-memory host platform fake for tests.
//
// Instance records every patch and triggered event in order and merges
// patches into a backing data bag the same way a real host does, including
// dotted-key paths. Tests drive lifecycle by invoking installed callbacks.
package hosttest

import (
	"strings"
	"sync"

	"github.com/go-wisp/wisp/pkg/host"
)

// Event is a recorded TriggerEvent call.
type Event struct {
	Name   string
	Detail map[string]any
}

// Instance is a fake host.RawInstance.
type Instance struct {
	mu        sync.Mutex
	data      map[string]any
	patches   []map[string]any
	events    []Event
	callbacks map[string]host.Callback
}

var _ host.RawInstance = (*Instance)(nil)

// NewInstance creates an empty fake host instance.
func NewInstance() *Instance {
	return &Instance{
		data:      make(map[string]any),
		callbacks: make(map[string]host.Callback),
	}
}

// NewInstanceWithData creates a fake host instance seeded with initial data.
func NewInstanceWithData(data map[string]any) *Instance {
	inst := NewInstance()
	for k, v := range data {
		inst.data[k] = v
	}
	return inst
}

// Patch records the patch and merges it into the data bag.
func (i *Instance) Patch(data map[string]any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	snapshot := make(map[string]any, len(data))
	for k, v := range data {
		snapshot[k] = v
		mergeKey(i.data, k, v)
	}
	i.patches = append(i.patches, snapshot)
}

// mergeKey writes a flat or dotted key into the data bag, creating
// intermediate maps as a real host store does.
func mergeKey(bag map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := bag
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// TriggerEvent records a component-to-parent event.
func (i *Instance) TriggerEvent(name string, detail map[string]any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.events = append(i.events, Event{Name: name, Detail: detail})
}

// Data returns the live backing data bag.
func (i *Instance) Data() map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.data
}

// SetCallback installs or clears a named callback slot.
func (i *Instance) SetCallback(name string, fn host.Callback) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if fn == nil {
		delete(i.callbacks, name)
		return
	}
	i.callbacks[name] = fn
}

// Callback returns the current occupant of a slot, or nil.
func (i *Instance) Callback(name string) host.Callback {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.callbacks[name]
}

// Invoke calls the named callback slot the way the host platform would.
// It is a no-op when the slot is empty.
func (i *Instance) Invoke(name string, args map[string]any) {
	if fn := i.Callback(name); fn != nil {
		fn(args)
	}
}

// Patches returns the recorded patches in call order.
func (i *Instance) Patches() []map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]map[string]any, len(i.patches))
	copy(out, i.patches)
	return out
}

// PatchCount returns the number of patch calls made so far.
func (i *Instance) PatchCount() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.patches)
}

// LastPatch returns the most recent patch, or nil if none were made.
func (i *Instance) LastPatch() map[string]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(i.patches) == 0 {
		return nil
	}
	return i.patches[len(i.patches)-1]
}

// Events returns the recorded events in trigger order.
func (i *Instance) Events() []Event {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Event, len(i.events))
	copy(out, i.events)
	return out
}

// CallbackNames returns the names of all currently installed callbacks.
func (i *Instance) CallbackNames() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	names := make([]string, 0, len(i.callbacks))
	for name := range i.callbacks {
		names = append(names, name)
	}
	return names
}

// Reset clears recorded patches and events but keeps data and callbacks.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.patches = nil
	i.events = nil
}
