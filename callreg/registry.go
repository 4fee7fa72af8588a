// Package callreg implements the pending-call registry: the mapping from a
// call key (channel, service, method, call_id) to the embedder-owned
// context for that call, including call ID allocation and the inbound
// matching algorithm described in spec.md §4.3 (exact match, wildcard
// match for "unrequested" calls, and open-call adoption).
//
// Mutating a hashable key in place — the approach the Python original
// takes — is avoided here: adoption removes the old (endpoint, OpenCallID)
// entry and inserts a new one under the peer-assigned call ID, using a
// secondary index keyed by endpoint so that scan is limited to the calls
// sharing that channel/service/method rather than the whole registry.
package callreg

import "sync"

type entry struct {
	key     Key
	context interface{}
}

// Registry tracks pending calls for a single client. All mutations occur
// under a single mutex, matching the "single logical critical section"
// requirement of spec.md §5; callers that need cooperative re-entrancy
// (e.g. an upcall sink restarting a call from within HandleError) must
// not hold any lock of their own when calling back into the Registry.
type Registry struct {
	mu         sync.Mutex
	nextCallID uint32
	pending    map[Key]*entry
	byEndpoint map[endpoint]map[uint32]*entry
}

// NewRegistry returns an empty Registry. The call ID counter starts at 1,
// so the first AllocateCallID call never returns LegacyOpenCallID.
func NewRegistry() *Registry {
	return NewRegistryWithSeed(1)
}

// NewRegistryWithSeed is like NewRegistry but starts the call ID counter at
// seed instead of 1. It exists for tests that want deterministic,
// collision-free call IDs across multiple registries. The seed is taken
// modulo MaxCallID, and a result of 0 is treated as 1, since 0
// (LegacyOpenCallID) must never be allocated.
func NewRegistryWithSeed(seed uint32) *Registry {
	seed %= MaxCallID
	if seed == 0 {
		seed = 1
	}
	return &Registry{
		nextCallID: seed,
		pending:    make(map[Key]*entry),
		byEndpoint: make(map[endpoint]map[uint32]*entry),
	}
}

// AllocateCallID returns the next call ID and advances the counter modulo
// MaxCallID, skipping 0 so LegacyOpenCallID is never produced.
func (r *Registry) AllocateCallID() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextCallID
	r.nextCallID = (r.nextCallID + 1) % MaxCallID
	if r.nextCallID == 0 {
		r.nextCallID = 1
	}
	return id
}

// Open inserts key with the given context. It fails with ErrAlreadyPending
// if key already has an active entry.
func (r *Registry) Open(key Key, context interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[key]; ok {
		return ErrAlreadyPending
	}
	r.insertLocked(&entry{key: key, context: context})
	return nil
}

// Contains reports whether key currently has an active entry, without
// consuming it. It backs the INACTIVE_CALL check for client-stream sends.
func (r *Registry) Contains(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[key]
	return ok
}

// Remove deletes key's entry, if any, and returns its context. It backs
// Cancel: the entry is gone before any CANCEL frame reaches the wire, so a
// racing inbound packet for the same key takes the unmatched branch of
// Lookup.
func (r *Registry) Remove(key Key) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[key]
	if !ok {
		return nil, false
	}
	r.removeLocked(e)
	return e.context, true
}

// Lookup implements the inbound matching algorithm of spec.md §4.3:
//
//  1. Exact match on key.
//  2. If key.CallID is a wildcard (OpenCallID or LegacyOpenCallID), match
//     any pending entry at the same endpoint (channel, service, method).
//  3. Otherwise, adopt a pending open call (CallID == OpenCallID) at the
//     same endpoint: it is re-keyed to key.CallID and reinserted unless
//     completing is true.
//
// completing indicates the inbound packet carries a terminal status; a
// matched entry is removed from the registry when completing is true.
// Lookup returns (nil, false) if no entry matches.
func (r *Registry) Lookup(key Key, completing bool) (interface{}, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.pending[key]; ok {
		if completing {
			r.removeLocked(e)
		}
		return e.context, true
	}

	if key.CallID == OpenCallID || key.CallID == LegacyOpenCallID {
		for _, e := range r.byEndpoint[key.endpoint()] {
			if completing {
				r.removeLocked(e)
			}
			return e.context, true
		}
		return nil, false
	}

	if e, ok := r.byEndpoint[key.endpoint()][OpenCallID]; ok {
		r.removeLocked(e)
		e.key.CallID = key.CallID
		if !completing {
			r.insertLocked(e)
		}
		return e.context, true
	}

	return nil, false
}

func (r *Registry) insertLocked(e *entry) {
	r.pending[e.key] = e
	ep := e.key.endpoint()
	bucket := r.byEndpoint[ep]
	if bucket == nil {
		bucket = make(map[uint32]*entry)
		r.byEndpoint[ep] = bucket
	}
	bucket[e.key.CallID] = e
}

func (r *Registry) removeLocked(e *entry) {
	delete(r.pending, e.key)
	ep := e.key.endpoint()
	bucket := r.byEndpoint[ep]
	delete(bucket, e.key.CallID)
	if len(bucket) == 0 {
		delete(r.byEndpoint, ep)
	}
}
