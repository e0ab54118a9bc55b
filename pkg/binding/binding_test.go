package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host/hosttest"
	"github.com/go-wisp/wisp/pkg/reactive"
)

func TestDispatchRunsHandlersInOrder(t *testing.T) {
	table := NewTable("inst")
	var order []string
	table.On(&Handler{Name: "tap", Fn: func(*Event) { order = append(order, "first") }})
	table.On(&Handler{Name: "tap", Fn: func(*Event) { order = append(order, "second") }})

	table.Dispatch(&Event{Name: "tap"})

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStopModifierHaltsPropagation(t *testing.T) {
	table := NewTable("inst")
	var order []string
	table.On(&Handler{Name: "tap", Modifiers: []string{"stop"}, Fn: func(*Event) { order = append(order, "first") }})
	table.On(&Handler{Name: "tap", Fn: func(*Event) { order = append(order, "second") }})

	ev := &Event{Name: "tap"}
	table.Dispatch(ev)

	assert.Equal(t, []string{"first"}, order)
	assert.True(t, ev.Stopped())
}

func TestPreventModifier(t *testing.T) {
	table := NewTable("inst")
	table.On(&Handler{Name: "submit", Modifiers: []string{"prevent"}, Fn: func(*Event) {}})

	ev := &Event{Name: "submit"}
	table.Dispatch(ev)

	assert.True(t, ev.Prevented())
}

func TestSelfModifierAbortsOnTargetMismatch(t *testing.T) {
	table := NewTable("inst")
	fired := 0
	table.On(&Handler{Name: "tap", Modifiers: []string{"self"}, Fn: func(*Event) { fired++ }})

	table.Dispatch(&Event{Name: "tap", Target: "child", CurrentTarget: "node"})
	assert.Equal(t, 0, fired)

	table.Dispatch(&Event{Name: "tap", Target: "node", CurrentTarget: "node"})
	assert.Equal(t, 1, fired)
}

func TestOnceRemovesBindingAfterSuccessfulDispatch(t *testing.T) {
	table := NewTable("inst")
	fired := 0
	table.On(&Handler{Name: "tap", Modifiers: []string{"self", "once"}, Fn: func(*Event) { fired++ }})

	// An aborted dispatch does not consume the binding.
	table.Dispatch(&Event{Name: "tap", Target: "child", CurrentTarget: "node"})
	assert.Equal(t, 0, fired)

	table.Dispatch(&Event{Name: "tap", Target: "node", CurrentTarget: "node"})
	table.Dispatch(&Event{Name: "tap", Target: "node", CurrentTarget: "node"})
	assert.Equal(t, 1, fired)
}

func TestKeyModifiers(t *testing.T) {
	tests := []struct {
		modifier string
		key      string
		want     bool
	}{
		{"enter", "Enter", true},
		{"enter", "Escape", false},
		{"esc", "Escape", true},
		{"escape", "Esc", true},
		{"space", " ", true},
		{"up", "ArrowUp", true},
		{"down", "Down", true},
		{"a", "A", true},
		{"a", "b", false},
	}
	for _, tt := range tests {
		table := NewTable("inst")
		fired := 0
		table.On(&Handler{Name: "keydown", Modifiers: []string{tt.modifier}, Fn: func(*Event) { fired++ }})

		table.Dispatch(&Event{Name: "keydown", Key: tt.key})

		if tt.want {
			assert.Equal(t, 1, fired, "modifier %q key %q", tt.modifier, tt.key)
		} else {
			assert.Equal(t, 0, fired, "modifier %q key %q", tt.modifier, tt.key)
		}
	}
}

func TestHandlerPanicIsReported(t *testing.T) {
	capture := &errors.CaptureHandler{}
	errors.SetHandler(capture)
	t.Cleanup(func() { errors.SetHandler(nil) })

	table := NewTable("inst")
	table.On(&Handler{Name: "tap", Fn: func(*Event) { panic("handler failure") }})
	fired := 0
	table.On(&Handler{Name: "tap", Fn: func(*Event) { fired++ }})

	table.Dispatch(&Event{Name: "tap"})

	assert.Equal(t, 1, fired, "a panicking handler does not block later handlers")
	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, errors.KindBinding, capture.Errors()[0].Kind)
}

func TestTwoWayWritesThroughEngine(t *testing.T) {
	h := hosttest.NewInstance()
	scope := reactive.NewScope(h)
	data := reactive.NewObject(scope, "", map[string]any{"text": ""})

	table := NewTable("inst")
	table.Bind(TwoWay{Property: "text", Event: "input"}, data)

	table.Dispatch(&Event{Name: "input", Detail: map[string]any{"value": "hello"}})

	assert.Equal(t, "hello", data.Get("text"))
	require.Equal(t, 1, h.PatchCount(), "the engine's write path owns the patch")
	assert.Equal(t, map[string]any{"text": "hello"}, h.LastPatch())
}

func TestTwoWayTransformAndValidate(t *testing.T) {
	h := hosttest.NewInstance()
	scope := reactive.NewScope(h)
	data := reactive.NewObject(scope, "", map[string]any{"age": 0})

	table := NewTable("inst")
	table.Bind(TwoWay{
		Property:  "age",
		Event:     "input",
		Transform: func(v any) any { return v.(int) + 1 },
		Validate:  func(v any) bool { return v.(int) < 100 },
	}, data)

	table.Dispatch(&Event{Name: "input", Detail: map[string]any{"value": 10}})
	assert.Equal(t, 11, data.Get("age"))

	// Rejected writes are dropped silently: no value change, no patch.
	h.Reset()
	table.Dispatch(&Event{Name: "input", Detail: map[string]any{"value": 200}})
	assert.Equal(t, 11, data.Get("age"))
	assert.Equal(t, 0, h.PatchCount())
}
