package binding

import (
	"fmt"
	"slices"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/reactive"
)

// HandlerFunc handles one dispatched event.
type HandlerFunc func(*Event)

// Handler is one event binding: a named event, the declared modifiers in
// application order, and the handler to run once the modifiers allow it.
type Handler struct {
	Name      string
	Modifiers []string
	Fn        HandlerFunc
}

// Table is the per-instance event and binding table.
type Table struct {
	instance string
	handlers map[string][]*Handler
}

// NewTable creates an empty table for the named instance.
func NewTable(instance string) *Table {
	return &Table{
		instance: instance,
		handlers: make(map[string][]*Handler),
	}
}

// On installs a handler. Handlers for the same event dispatch in
// installation order.
func (t *Table) On(h *Handler) {
	if h == nil || h.Fn == nil {
		return
	}
	t.handlers[h.Name] = append(t.handlers[h.Name], h)
}

// Off removes every handler bound to the event name.
func (t *Table) Off(name string) {
	delete(t.handlers, name)
}

// Clear removes every handler.
func (t *Table) Clear() {
	clear(t.handlers)
}

// Dispatch runs the handlers bound to the event's name. Modifiers are
// applied before each handler: suppression modifiers flag the event, self
// aborts on target mismatch, key modifiers abort on key mismatch, and once
// removes the binding after its first dispatch that actually ran. A stopped
// event halts propagation to later handlers.
func (t *Table) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	bound := t.handlers[ev.Name]
	if len(bound) == 0 {
		return
	}
	snapshot := slices.Clone(bound)
	var spent []*Handler
	for _, h := range snapshot {
		ran := t.dispatchOne(h, ev)
		if ran && slices.Contains(h.Modifiers, "once") {
			spent = append(spent, h)
		}
		if ev.Stopped() {
			break
		}
	}
	if len(spent) > 0 {
		live := t.handlers[ev.Name]
		live = slices.DeleteFunc(live, func(h *Handler) bool {
			return slices.Contains(spent, h)
		})
		if len(live) == 0 {
			delete(t.handlers, ev.Name)
		} else {
			t.handlers[ev.Name] = live
		}
	}
}

// dispatchOne applies modifiers and runs the handler. It reports whether the
// handler actually ran.
func (t *Table) dispatchOne(h *Handler, ev *Event) bool {
	for _, m := range h.Modifiers {
		switch m {
		case "stop":
			ev.StopPropagation()
		case "prevent":
			ev.PreventDefault()
		case "self":
			if ev.Target != ev.CurrentTarget {
				return false
			}
		case "once":
			// Handled by Dispatch after the run.
		default:
			if isKeyModifier(m) && !keyMatches(m, ev.Key) {
				return false
			}
		}
	}
	defer func() {
		if r := recover(); r != nil {
			errors.Report(&errors.RuntimeError{
				Op:         "binding.Table.Dispatch",
				Kind:       errors.KindBinding,
				Instance:   t.instance,
				Key:        ev.Name,
				Err:        fmt.Errorf("handler panic: %v", r),
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	h.Fn(ev)
	return true
}

// TwoWay declares a two-way binding: the named event carries a new value for
// the data property. Transform, when present, maps the event value before
// validation; Validate, when present, may reject the write, which is then
// dropped silently.
type TwoWay struct {
	Property  string
	Event     string
	Transform func(any) any
	Validate  func(any) bool
}

// Bind installs a two-way binding writing through the given reactive data
// object. The engine's own write path issues the patch; the binding never
// patches separately.
func (t *Table) Bind(tw TwoWay, data *reactive.Object) {
	if tw.Property == "" || tw.Event == "" || data == nil {
		return
	}
	t.On(&Handler{
		Name: tw.Event,
		Fn: func(ev *Event) {
			v := ev.Value()
			if tw.Transform != nil {
				v = tw.Transform(v)
			}
			if tw.Validate != nil && !tw.Validate(v) {
				return
			}
			data.Set(tw.Property, v)
		},
	})
}
