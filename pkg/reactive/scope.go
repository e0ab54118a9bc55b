// Package reactive implements the fine-grained reactive value engine: refs,
// path-addressed reactive objects, lazily recomputed cells, watchers, and the
// dependency graph that ties them together.
//
// The engine is single-threaded and cooperative. Reads inside an active
// effect record dependency edges; writes trigger subscribed effects
// synchronously, inside the triggering Set call. Every value change is
// written through to the raw target first and then issued to the host as one
// keyed patch. There is no batching: N writes produce N patch calls.
//
// The host platform offers no transparent property interception, so the
// engine exposes explicit handles: Ref for a single slot, Object for a
// deep-tracked map addressed by dotted paths, Computed for derived values.
// Callers use Get/Set methods instead of native field syntax.
package reactive

import (
	"fmt"

	"github.com/go-wisp/wisp/pkg/errors"
	"github.com/go-wisp/wisp/pkg/host"
)

// sourceID identifies a tracked source (ref, object, or computed cell)
// within its scope. Stable integer IDs keep the dependency graph free of
// object-identity map keys.
type sourceID uint64

// depKey addresses one dependency-graph entry: a property path on a source.
type depKey struct {
	src  sourceID
	path string
}

// deepPath is the synthetic path deep watchers subscribe to on an Object.
// Every path write on the object also fires it.
const deepPath = "*"

// effect is an opaque subscriber in the dependency graph, created implicitly
// by Computed and Watch. Effects do not own the sources they read.
type effect struct {
	onTrigger func()
	keys      map[depKey]struct{}
	running   bool
	stopped   bool
}

// Scope is an instance-scoped engine context: it owns the dependency graph,
// the active-effect stack, and the host binding for one component instance.
// Keeping the graph per scope makes teardown total; Close drops every entry
// the instance ever created.
//
// Scope is not safe for concurrent use. All tracking and triggering happen
// on the host platform's single execution thread.
type Scope struct {
	host       host.Patcher
	graph      map[depKey]map[*effect]struct{}
	stack      []*effect
	nextSource sourceID
	closed     bool
}

// NewScope creates a scope bound to the given host. A nil host is allowed;
// patches are then dropped until the scope is rebound.
func NewScope(p host.Patcher) *Scope {
	return &Scope{
		host:  p,
		graph: make(map[depKey]map[*effect]struct{}),
	}
}

// Close tears the scope down: every dependency-graph entry is removed and
// the host binding is released. Reads keep returning raw values; writes and
// triggers become no-ops.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	clear(s.graph)
	s.stack = nil
	s.host = nil
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	return s.closed
}

// source allocates the next source ID.
func (s *Scope) source() sourceID {
	s.nextSource++
	return s.nextSource
}

// patch forwards a keyed partial object to the host, if one is bound.
func (s *Scope) patch(data map[string]any) {
	if s.closed || s.host == nil {
		return
	}
	s.host.Patch(data)
}

// activeEffect returns the innermost running effect, or nil.
func (s *Scope) activeEffect() *effect {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// track records a read of (src, path) against the active effect.
// Graph entries are created lazily on first read inside an active effect.
func (s *Scope) track(src sourceID, path string) {
	if s.closed {
		return
	}
	e := s.activeEffect()
	if e == nil || e.stopped {
		return
	}
	s.addEdge(e, src, path)
}

// addEdge links an effect into the graph entry for (src, path).
func (s *Scope) addEdge(e *effect, src sourceID, path string) {
	k := depKey{src: src, path: path}
	subs := s.graph[k]
	if subs == nil {
		subs = make(map[*effect]struct{})
		s.graph[k] = subs
	}
	subs[e] = struct{}{}
	e.keys[k] = struct{}{}
}

// trigger runs every effect subscribed to (src, path), synchronously.
// An effect that is currently running is not re-entered by its own triggers.
func (s *Scope) trigger(src sourceID, path string) {
	if s.closed {
		return
	}
	subs := s.graph[depKey{src: src, path: path}]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]*effect, 0, len(subs))
	for e := range subs {
		snapshot = append(snapshot, e)
	}
	for _, e := range snapshot {
		if e.stopped || e.running {
			continue
		}
		e.running = true
		e.onTrigger()
		e.running = false
	}
}

// newEffect creates an unregistered effect.
func (s *Scope) newEffect(onTrigger func()) *effect {
	return &effect{
		onTrigger: onTrigger,
		keys:      make(map[depKey]struct{}),
	}
}

// runTracked executes fn with e as the active effect. The effect's previous
// dependency edges are dropped first so each run re-tracks from scratch.
func (s *Scope) runTracked(e *effect, fn func()) {
	if e.stopped || s.closed {
		fn()
		return
	}
	s.cleanup(e)
	prev := e.running
	e.running = true
	s.stack = append(s.stack, e)
	defer func() {
		s.stack = s.stack[:len(s.stack)-1]
		e.running = prev
	}()
	fn()
}

// cleanup removes an effect from every graph entry it is registered in.
func (s *Scope) cleanup(e *effect) {
	for k := range e.keys {
		if subs := s.graph[k]; subs != nil {
			delete(subs, e)
			if len(subs) == 0 {
				delete(s.graph, k)
			}
		}
	}
	clear(e.keys)
}

// stopEffect removes the effect from the graph immediately and permanently.
// Safe to call more than once.
func (s *Scope) stopEffect(e *effect) {
	if e.stopped {
		return
	}
	e.stopped = true
	s.cleanup(e)
}

// runGuarded executes fn, converting a panic into a reported computation
// error. ok is false when fn panicked.
func (s *Scope) runGuarded(op, key string, fn func() any) (v any, ok bool) {
	ok = true
	defer func() {
		if r := recover(); r != nil {
			ok = false
			errors.Report(&errors.RuntimeError{
				Op:         op,
				Kind:       errors.KindComputation,
				Key:        key,
				Err:        fmt.Errorf("%v", r),
				StackTrace: errors.CaptureStack(),
			})
		}
	}()
	v = fn()
	return v, ok
}
