// Package devstate implements the fixed-arity device state table (spec C3):
// S_D keyed by the protocol identifier table K_D, with subscriber fan-out
// on change. Grounded on the mutex-guarded-struct idiom used throughout the
// teacher (Session, DXClusterClient, RotctlClient) rather than a
// channel-actor (considered and rejected).
package devstate

import "sync"

// State is the device state S_D for one device, paired with its key table
// K_D. Mutation is single-writer (the driver's parser callback); reads are
// safe from any goroutine.
type State struct {
	label  string
	keys   []string
	mu     sync.RWMutex
	values []string
	subs   map[*UpdateSet]struct{}
}

// New creates a device state table with the given key table K_D and initial
// values (parallel slices, same length). label is used only in log/metric
// contexts (e.g. "amp", "tuner").
func New(label string, keys []string, initial []string) *State {
	if len(keys) != len(initial) {
		panic("devstate: keys and initial values must be the same length")
	}
	values := make([]string, len(initial))
	copy(values, initial)
	return &State{
		label:  label,
		keys:   keys,
		values: values,
		subs:   make(map[*UpdateSet]struct{}),
	}
}

// Label returns the device label ("amp" or "tuner").
func (s *State) Label() string { return s.label }

// Len returns N_D, the fixed number of keys.
func (s *State) Len() int { return len(s.keys) }

// Key returns K_D[i], the wire name of index i.
func (s *State) Key(i int) string { return s.keys[i] }

// Get returns the current value of S_D[i].
func (s *State) Get(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[i]
}

// Update sets S_D[i] to value. A write that does not change the stored
// value is a no-op and MUST NOT notify subscribers (spec.md §3 invariant).
func (s *State) Update(i int, value string) {
	s.mu.Lock()
	if s.values[i] == value {
		s.mu.Unlock()
		return
	}
	s.values[i] = value
	// Snapshot subscribers while still holding the lock: registration only
	// ever adds/removes map entries, never blocks, so this is safe and
	// keeps the notify loop outside the state lock.
	subs := make([]*UpdateSet, 0, len(s.subs))
	for u := range s.subs {
		subs = append(subs, u)
	}
	s.mu.Unlock()

	for _, u := range subs {
		u.MarkDirty(i)
	}
}

// Register subscribes an UpdateSet to future changes.
func (s *State) Register(u *UpdateSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[u] = struct{}{}
}

// Unregister removes a subscription, e.g. on client disconnect.
func (s *State) Unregister(u *UpdateSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, u)
}

// SubscriberCount reports the number of currently-registered subscribers,
// for the bridge_clients_connected metric.
func (s *State) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
