// Package registry maps engine handles to their owners without keeping the
// owners alive.
//
// Engine callbacks carry only a handle. The registry turns that handle back
// into the owning value when it is still reachable, and releases the handle
// when it is not: an owner dropped without an explicit teardown is detected
// on the next lookup, and that lookup is what frees the engine resource.
package registry

import (
	"errors"
	"sync"
	"weak"
)

// ErrAlreadyRegistered is returned when a handle is registered twice.
var ErrAlreadyRegistered = errors.New("handle already registered")

type entry[V any] struct {
	ref     weak.Pointer[V]
	release func()
}

// Registry is a concurrent weak map from handles to owners.
// The zero value is not usable; use New.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
}

// New returns an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: make(map[K]*entry[V])}
}

// Register associates k with owner. release runs once if owner becomes
// unreachable while still registered; it may be nil.
func (r *Registry[K, V]) Register(k K, owner *V, release func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[k]; ok {
		return ErrAlreadyRegistered
	}

	r.entries[k] = &entry[V]{ref: weak.Make(owner), release: release}
	return nil
}

// Resolve returns the owner registered for k, or nil if there is none or it
// has been reclaimed. A reclaimed owner's entry is removed and its release
// function runs before Resolve returns.
func (r *Registry[K, V]) Resolve(k K) *V {
	r.mu.RLock()
	e, ok := r.entries[k]
	r.mu.RUnlock()

	if !ok {
		return nil
	}

	if owner := e.ref.Value(); owner != nil {
		return owner
	}

	r.evict(k, e)
	return nil
}

// Unregister removes k without running its release function.
// It reports whether k was registered.
func (r *Registry[K, V]) Unregister(k K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[k]
	delete(r.entries, k)
	return ok
}

// Sweep evicts every entry whose owner has been reclaimed and returns how many it evicted.
func (r *Registry[K, V]) Sweep() int {
	r.mu.RLock()
	dead := make(map[K]*entry[V])
	for k, e := range r.entries {
		if e.ref.Value() == nil {
			dead[k] = e
		}
	}
	r.mu.RUnlock()

	var n int
	for k, e := range dead {
		if r.evict(k, e) {
			n++
		}
	}
	return n
}

// Len returns the number of entries, live or not yet evicted.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// evict removes e if it is still the entry for k, then releases it.
// Concurrent evictions of the same entry release it once.
func (r *Registry[K, V]) evict(k K, e *entry[V]) bool {
	r.mu.Lock()
	current, ok := r.entries[k]
	if !ok || current != e {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, k)
	r.mu.Unlock()

	if e.release != nil {
		e.release()
	}
	return true
}
