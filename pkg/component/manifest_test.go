package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host/hosttest"
)

const counterManifest = `
name: counter
data:
  count: 0
  label: clicks
computed:
  double: computeDouble
watch:
  count:
    handler: onCountChange
methods:
  - increment
lifecycle:
  mounted: onMounted
injectors:
  theme:
    key: theme
    default: light
events:
  tap:
    handler: onTap
    modifiers: [stop]
bindings:
  label:
    transform: trimSpace
mixins:
  - trackable
`

func counterRegistry(order *[]string) *FuncRegistry {
	return &FuncRegistry{
		Getters: map[string]Getter{
			"computeDouble": func(i *Instance) any {
				return i.Data().Get("count").(int) * 2
			},
		},
		Methods: map[string]Method{
			"increment": func(i *Instance, args map[string]any) any {
				i.Data().Set("count", i.Data().Get("count").(int)+1)
				return nil
			},
		},
		Watchers: map[string]WatchFunc{
			"onCountChange": func(i *Instance, newVal, oldVal any) {
				*order = append(*order, "watch")
			},
		},
		Hooks: map[string]Hook{
			"onMounted": func(i *Instance) error {
				*order = append(*order, "mounted")
				return nil
			},
		},
		Handlers: map[string]EventFunc{
			"onTap": func(i *Instance, ev *binding.Event) {
				*order = append(*order, "tap")
			},
		},
		Transforms: map[string]func(any) any{
			"trimSpace": func(v any) any { return v },
		},
		Mixins: map[string]*Config{
			"trackable": {Data: map[string]any{"visits": 0}},
		},
	}
}

func TestManifestResolvesToWorkingConfig(t *testing.T) {
	var order []string
	m, err := ParseManifest([]byte(counterManifest))
	require.NoError(t, err)
	assert.Equal(t, "counter", m.Name)

	cfg := m.Config(counterRegistry(&order))

	rt := newTestRuntime()
	raw := hosttest.NewInstance()
	inst, hc := rt.SetupInstance(raw, cfg, m.Page)

	assert.Equal(t, 0, hc.Data["count"])
	assert.Equal(t, 0, hc.Data["visits"])
	assert.Equal(t, "light", hc.Data["theme"])

	hc.Methods["increment"](nil)
	assert.Equal(t, 1, inst.Data().Get("count"))
	assert.Contains(t, order, "watch")

	hc.Methods["_updateComputed"](nil)
	assert.Equal(t, 2, raw.Data()["double"])
}

func TestManifestUnresolvedNameDegrades(t *testing.T) {
	capture := &errors.CaptureHandler{}
	errors.SetHandler(capture)
	t.Cleanup(func() { errors.SetHandler(nil) })

	m, err := ParseManifest([]byte("name: broken\nmethods: [missing]\ndata:\n  ok: true\n"))
	require.NoError(t, err)

	cfg := m.Config(&FuncRegistry{})

	assert.Equal(t, map[string]any{"ok": true}, cfg.Data)
	assert.Empty(t, cfg.Methods)
	require.Len(t, capture.Errors(), 1)
	assert.Equal(t, errors.KindConfig, capture.Errors()[0].Kind)
	assert.Equal(t, "methods", capture.Errors()[0].Key)
}

func TestParseManifestRejectsMalformedYAML(t *testing.T) {
	_, err := ParseManifest([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse component manifest")
}
