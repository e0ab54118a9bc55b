package reactive

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/errors"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Immediate fires the callback once, synchronously, before any
	// dependency trigger, with a nil old value.
	Immediate bool
	// Deep extends tracking to every nested path when the source returns
	// an *Object, and skips the equality gate on triggers (a nested write
	// leaves the handle itself unchanged).
	Deep bool
}

// Watch evaluates source inside a tracked effect and calls cb(new, old)
// whenever a dependency trigger changes the source's value. The source is
// re-evaluated on every trigger, so its dependency set stays current.
//
// The returned stop function removes the effect from every dependency-graph
// entry it is registered in, synchronously, leaving no window for stale
// triggers. Calling stop twice is a no-op.
//
// A panicking source is reported and the old value is kept; a panicking
// callback is reported and the watcher stays registered.
func Watch(scope *Scope, source func() any, cb func(newVal, oldVal any), opts WatchOptions) (stop func()) {
	eff := scope.newEffect(nil)

	eval := func() (any, bool) {
		return scope.runGuarded("reactive.Watch.source", "", func() any {
			var out any
			scope.runTracked(eff, func() {
				out = source()
				if opts.Deep {
					if obj, ok := out.(*Object); ok && obj != nil {
						obj.trackDeep()
					}
				}
			})
			return out
		})
	}

	invoke := func(newVal, oldVal any) {
		defer func() {
			if r := recover(); r != nil {
				errors.Report(&errors.RuntimeError{
					Op:         "reactive.Watch.callback",
					Kind:       errors.KindComputation,
					Err:        fmt.Errorf("%v", r),
					StackTrace: errors.CaptureStack(),
				})
			}
		}()
		cb(newVal, oldVal)
	}

	var old any
	if v, ok := eval(); ok {
		old = v
	}

	eff.onTrigger = func() {
		nv, ok := eval()
		if !ok {
			return
		}
		if !opts.Deep && identical(nv, old) {
			return
		}
		prev := old
		old = nv
		invoke(nv, prev)
	}

	if opts.Immediate {
		invoke(old, nil)
	}

	return func() {
		scope.stopEffect(eff)
	}
}
