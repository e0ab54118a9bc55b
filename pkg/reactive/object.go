package reactive

import "strings"

// Object is a deep-tracked reactive wrapper over a plain map. Fields are
// addressed by dotted paths relative to the handle; reads record
// (object, path) dependencies and writes resolve to host-patch keys of the
// form "<baseKey>.<path>". The wrapped structure and the raw target always
// agree: a write lands in the raw map synchronously, before the patch call.
//
// An Object with an empty base key patches bare paths. The orchestrator uses
// that for the instance data bag, whose paths are host data fields.
type Object struct {
	scope  *Scope
	id     sourceID
	key    string
	prefix string
	target map[string]any
}

// NewObject wraps target under the given base patch key. A nil target is
// replaced with an empty map.
func NewObject(scope *Scope, key string, target map[string]any) *Object {
	if target == nil {
		target = make(map[string]any)
	}
	return &Object{
		scope:  scope,
		id:     scope.source(),
		key:    key,
		target: target,
	}
}

// Raw returns the raw target map.
func (o *Object) Raw() map[string]any {
	return o.target
}

// Key returns the base host-patch key.
func (o *Object) Key() string {
	return o.key
}

// fullPath resolves a handle-relative path to a root-relative one.
func (o *Object) fullPath(path string) string {
	if o.prefix == "" {
		return path
	}
	if path == "" {
		return o.prefix
	}
	return o.prefix + "." + path
}

// patchKey builds the host-patch key for a root-relative path.
func (o *Object) patchKey(path string) string {
	if o.key == "" {
		return path
	}
	if path == "" {
		return o.key
	}
	return o.key + "." + path
}

// Get reads the value at a dotted path and records the read against the
// active effect. A missing path reads as nil.
func (o *Object) Get(path string) any {
	full := o.fullPath(path)
	o.scope.track(o.id, full)
	v, _ := lookupPath(o.target, full)
	return v
}

// Has reports whether the dotted path resolves to a value. Like Get, it
// records the read.
func (o *Object) Has(path string) bool {
	full := o.fullPath(path)
	o.scope.track(o.id, full)
	_, ok := lookupPath(o.target, full)
	return ok
}

// Section returns a handle addressing the object under path. The handle
// shares this object's identity, base key, and raw target; reads and writes
// through it resolve to extended paths, so deep mutation is tracked without
// re-wrapping on every access.
func (o *Object) Section(path string) *Object {
	return &Object{
		scope:  o.scope,
		id:     o.id,
		key:    o.key,
		prefix: o.fullPath(path),
		target: o.target,
	}
}

// Set writes v at the dotted path. An identical value is dropped. A change
// writes through to the raw target, issues one patch keyed
// "<baseKey>.<path>", and triggers subscribers of the path and of any deep
// watchers on the object.
func (o *Object) Set(path string, v any) {
	full := o.fullPath(path)
	old, existed := lookupPath(o.target, full)
	if existed && identical(v, old) {
		return
	}
	writePath(o.target, full, v)
	o.scope.patch(map[string]any{o.patchKey(full): v})
	o.scope.trigger(o.id, full)
	o.scope.trigger(o.id, deepPath)
}

// trackDeep subscribes the active effect to every future write on the
// object, at any path.
func (o *Object) trackDeep() {
	o.scope.track(o.id, deepPath)
}

// lookupPath resolves a dotted path in nested string-keyed maps.
// An empty path resolves to the root map itself.
func lookupPath(m map[string]any, path string) (any, bool) {
	if path == "" {
		return m, true
	}
	var current any = m
	for _, part := range strings.Split(path, ".") {
		mm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = mm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// writePath stores v at a dotted path, creating intermediate maps the same
// way the host's own store merge does.
func writePath(m map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = v
}
