// Package queue implements the bounded FIFO of pending device commands
// (spec C2). A single mutex guards the underlying slice; every operation is
// O(1) or O(batch length), matching the "held only for O(1) operations"
// allowance for multi-threaded runtimes.
package queue

import (
	"log"
	"sync"
)

// DefaultCapacity is the recommended bound from the command queue design.
const DefaultCapacity = 64

// Queue is a bounded FIFO of opaque command byte-strings.
type Queue struct {
	mu       sync.Mutex
	items    [][]byte
	capacity int
	label    string // device name, used only for overflow log messages

	// OnOverflow, if set, is called once per command dropped for overflow
	// (spec.md §7's "Command queue full" error path), for metrics (A3).
	OnOverflow func()

	// OnEnqueue, if set, is called once per command successfully queued,
	// for metrics (A3).
	OnEnqueue func()
}

// New creates a queue with the given capacity (DefaultCapacity if <= 0) and
// a label used to prefix warning logs (e.g. "amp", "tuner").
func New(capacity int, label string) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity, label: label}
}

// Push enqueues a single command. On overflow the newest command (this one)
// is dropped and a warning is logged.
func (q *Queue) Push(cmd []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pushLocked(cmd)
}

// PushMany enqueues a tuple of commands atomically: the mutex is held across
// the whole batch, so no concurrent Pop can land between two commands of the
// same tuple. This is the explicit batch primitive spec.md's design notes
// require in place of a generic "push list".
func (q *Queue) PushMany(cmds ...[]byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, cmd := range cmds {
		q.pushLocked(cmd)
	}
}

func (q *Queue) pushLocked(cmd []byte) {
	if len(q.items) >= q.capacity {
		log.Printf("%s: command queue full (cap=%d), dropping newest command %q", q.label, q.capacity, cmd)
		if q.OnOverflow != nil {
			q.OnOverflow()
		}
		return
	}
	q.items = append(q.items, cmd)
	if q.OnEnqueue != nil {
		q.OnEnqueue()
	}
}

// Pop removes and returns the oldest command, and whether one was present.
func (q *Queue) Pop() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	cmd := q.items[0]
	q.items = q.items[1:]
	return cmd, true
}

// Len returns the number of queued commands, mostly for tests and metrics.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
