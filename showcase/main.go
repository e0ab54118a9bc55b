// Command showcase runs a small wisp application against the in-memory fake
// host: a counter page providing a theme, and a card component injecting it.
// It prints every patch and event the host observes, which is the whole
// output surface of the runtime.
package main

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/binding"
	"github.com/go-wisp/wisp/pkg/component"
	"github.com/go-wisp/wisp/pkg/host"
	"github.com/go-wisp/wisp/pkg/host/hosttest"
	"github.com/go-wisp/wisp/pkg/inject"
	"github.com/go-wisp/wisp/pkg/wisp"
)

func main() {
	rt := wisp.New(wisp.WithHostInfo(host.Info{SDKVersion: "2.9.0"}))

	pageRaw := hosttest.NewInstance()
	page, pageCfg := rt.SetupInstance(pageRaw, counterPage(), true)

	cardRaw := hosttest.NewInstance()
	_, cardCfg := rt.SetupInstance(cardRaw, themeCard(), false, component.WithParent(page))

	// The host platform would now register pageCfg and cardCfg and start
	// firing lifecycle callbacks; here we drive them by hand.
	pageRaw.Invoke(host.CallbackLoad, map[string]any{"query": "from=showcase"})
	pageRaw.Invoke(host.CallbackShow, nil)
	cardRaw.Invoke(host.CallbackCreated, nil)
	cardRaw.Invoke(host.CallbackAttached, nil)
	cardRaw.Invoke(host.CallbackComponentReady, nil)

	// A user taps the increment button twice.
	pageCfg.Methods["increment"](nil)
	pageCfg.Methods["increment"](nil)
	pageCfg.Methods["_updateComputed"](nil)

	// A user types into the bound input field.
	pageCfg.Methods["_dispatchEvent"](map[string]any{
		"type":   "input",
		"detail": map[string]any{"value": "hello wisp"},
	})

	// The page re-themes; the card sees the new value through injection.
	page.Provide("theme", "dark")

	pageRaw.Invoke(host.CallbackHide, nil)
	cardRaw.Invoke(host.CallbackDetached, nil)
	pageRaw.Invoke(host.CallbackUnload, nil)

	fmt.Println("\npage store:")
	for _, p := range pageRaw.Patches() {
		fmt.Printf("  patch %v\n", p)
	}
	fmt.Println("card store:")
	for _, p := range cardRaw.Patches() {
		fmt.Printf("  patch %v\n", p)
	}
	for _, ev := range cardRaw.Events() {
		fmt.Printf("  event %s %v\n", ev.Name, ev.Detail)
	}
}

func counterPage() *wisp.Config {
	return &wisp.Config{
		Name: "counter",
		Data: map[string]any{"count": 0, "message": ""},
		Computed: map[string]component.ComputedDef{
			"double": {Get: func(i *wisp.Instance) any {
				return i.Data().Get("count").(int) * 2
			}},
		},
		Watch: map[string]component.WatchDef{
			"count": {Callback: func(i *wisp.Instance, newVal, oldVal any) {
				fmt.Printf("count: %v -> %v\n", oldVal, newVal)
			}},
		},
		Methods: map[string]component.Method{
			"increment": func(i *wisp.Instance, args map[string]any) any {
				i.Data().Set("count", i.Data().Get("count").(int)+1)
				return nil
			},
		},
		Lifecycle: map[string]component.Hook{
			"mounted": func(i *wisp.Instance) error {
				fmt.Println("page mounted")
				return nil
			},
			"onLoad": func(i *wisp.Instance) error {
				fmt.Println("page loaded")
				return nil
			},
		},
		Providers: map[inject.Key]any{"theme": "light"},
		Bindings: map[string]component.BindingDef{
			"message": {},
		},
	}
}

func themeCard() *wisp.Config {
	return &wisp.Config{
		Name: "theme-card",
		Data: map[string]any{"title": "wisp"},
		Injectors: map[string]component.InjectorDef{
			"theme": {Key: "theme", Default: "light"},
		},
		Watch: map[string]component.WatchDef{
			"theme": {Callback: func(i *wisp.Instance, newVal, oldVal any) {
				i.Emit("themechange", map[string]any{"theme": newVal})
			}},
		},
		Events: map[string]component.EventDef{
			"tap": {Modifiers: []string{"stop"}, Handler: func(i *wisp.Instance, ev *binding.Event) {
				fmt.Println("card tapped")
			}},
		},
	}
}
