package reactive

import (
	"strconv"
	"sync/atomic"
)

// refKeys allocates host-patch keys for refs. Keys are unique for the life
// of the process and never reused, so a torn-down ref's key can never alias
// a later one in the host's backing store.
var refKeys atomic.Uint64

func nextRefKey() string {
	return "_ref" + strconv.FormatUint(refKeys.Add(1), 10)
}

// Ref is a single mutable reactive slot with its own host-patch key. It is
// owned exclusively by the scope that created it and dies with it.
type Ref struct {
	scope *Scope
	id    sourceID
	key   string
	value any
}

// NewRef creates a ref holding initial. If the scope already has a host
// bound, one patch {key: initial} is issued immediately so the host store
// starts in agreement.
func NewRef(scope *Scope, initial any) *Ref {
	r := &Ref{
		scope: scope,
		id:    scope.source(),
		key:   nextRefKey(),
		value: initial,
	}
	scope.patch(map[string]any{r.key: initial})
	return r
}

// Key returns the ref's host-patch key.
func (r *Ref) Key() string {
	return r.key
}

// Get returns the current value and records the read against the active
// effect, if any.
func (r *Ref) Get() any {
	r.scope.track(r.id, "value")
	return r.value
}

// Set stores v, issues one patch, and triggers subscribers. Setting a value
// identical to the stored one is a no-op: no patch, no trigger.
func (r *Ref) Set(v any) {
	if identical(v, r.value) {
		return
	}
	r.value = v
	r.scope.patch(map[string]any{r.key: v})
	r.scope.trigger(r.id, "value")
}
