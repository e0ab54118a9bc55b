// Package binding implements the event system and two-way data bindings.
//
// The host platform dispatches events as plain payloads; this package wraps
// them, applies the declared modifiers (suppression, self-targeting, once,
// key guards) before the handler runs, and funnels two-way value changes
// back into the reactive engine so computed cells and watchers react
// normally.
package binding

import "strings"

// Event wraps one host-dispatched event.
type Event struct {
	// Name is the event type (e.g., "tap", "input", "keydown").
	Name string
	// Target is the ID of the node the event originated on.
	Target string
	// CurrentTarget is the ID of the node the handler is bound on.
	CurrentTarget string
	// Detail is the host event payload.
	Detail map[string]any
	// Key is the key identifier for keyboard events.
	Key string

	stopped   bool
	prevented bool
}

// StopPropagation suppresses propagation to later handlers.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PreventDefault marks the host default action suppressed. The host shim
// reads the flag after dispatch.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// Stopped reports whether propagation was suppressed.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Prevented reports whether the default action was suppressed.
func (e *Event) Prevented() bool {
	return e.prevented
}

// Value extracts the conventional value field from the event payload.
func (e *Event) Value() any {
	if e.Detail == nil {
		return nil
	}
	return e.Detail["value"]
}

// keyAliases maps named key modifiers to the key identifiers they accept.
var keyAliases = map[string][]string{
	"enter":  {"Enter"},
	"esc":    {"Escape", "Esc"},
	"escape": {"Escape", "Esc"},
	"space":  {" ", "Space", "Spacebar"},
	"tab":    {"Tab"},
	"delete": {"Delete", "Backspace"},
	"up":     {"ArrowUp", "Up"},
	"down":   {"ArrowDown", "Down"},
	"left":   {"ArrowLeft", "Left"},
	"right":  {"ArrowRight", "Right"},
}

// keyMatches reports whether an event key satisfies a key modifier. Named
// aliases cover the control keys; any single-character modifier matches that
// character case-insensitively.
func keyMatches(modifier, key string) bool {
	if aliases, ok := keyAliases[modifier]; ok {
		for _, alias := range aliases {
			if key == alias {
				return true
			}
		}
		return false
	}
	if len([]rune(modifier)) == 1 {
		return strings.EqualFold(modifier, key)
	}
	// Unknown multi-character modifiers do not guard dispatch.
	return true
}

// isKeyModifier reports whether the modifier name is a key guard.
func isKeyModifier(m string) bool {
	if _, ok := keyAliases[m]; ok {
		return true
	}
	return len([]rune(m)) == 1
}
