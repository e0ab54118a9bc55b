package reactive

// Computed is a lazily recomputed derived value with its own host-patch key.
// The cached value is valid reading material if and only if the cell is not
// dirty. A dependency trigger only marks the cell dirty and propagates to
// its own subscribers; recomputation happens on the next Get.
type Computed struct {
	scope  *Scope
	id     sourceID
	key    string
	getter func() any
	value  any
	dirty  bool
	eff    *effect
}

// NewComputed creates a computed cell patching under key. The getter does
// not run until the first Get.
func NewComputed(scope *Scope, key string, getter func() any) *Computed {
	c := &Computed{
		scope:  scope,
		id:     scope.source(),
		key:    key,
		getter: getter,
		dirty:  true,
	}
	c.eff = scope.newEffect(c.invalidate)
	return c
}

// Key returns the cell's host-patch key.
func (c *Computed) Key() string {
	return c.key
}

// Dirty reports whether the cached value is stale.
func (c *Computed) Dirty() bool {
	return c.dirty
}

// invalidate marks the cached value stale and propagates to subscribers
// without recomputing.
func (c *Computed) invalidate() {
	if c.dirty {
		return
	}
	c.dirty = true
	c.scope.trigger(c.id, "value")
}

// Get returns the cached value, recomputing it first when stale. The getter
// runs inside the cell's own effect, so every read it makes registers
// against this cell's invalidation. A fresh value clears the dirty flag and
// is pushed to the host as one patch. Repeated reads with no intervening
// dependency trigger do not re-invoke the getter.
//
// A getter panic is reported; the previous cached value is kept and the
// cell stays dirty so the next read retries.
func (c *Computed) Get() any {
	c.scope.track(c.id, "value")
	if !c.dirty {
		return c.value
	}
	v, ok := c.scope.runGuarded("reactive.Computed.Get", c.key, func() any {
		var out any
		c.scope.runTracked(c.eff, func() {
			out = c.getter()
		})
		return out
	})
	if !ok {
		return c.value
	}
	c.dirty = false
	c.value = v
	c.scope.patch(map[string]any{c.key: v})
	return c.value
}
