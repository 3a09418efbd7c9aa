package driver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/n1kdo/kpa500-bridge/internal/amp"
	"github.com/n1kdo/kpa500-bridge/internal/devstate"
	"github.com/n1kdo/kpa500-bridge/internal/queue"
)

// fakeTransport is an in-memory Transport double: each Write to a scripted
// command makes its next reply immediately available to Any/ReadInto, so
// tests never depend on real serial timing. Scripting a command with more
// than one reply lets a test exercise sendReceive's one-retry-on-empty
// behavior (script an empty reply followed by a real one).
type fakeTransport struct {
	mu      sync.Mutex
	scripts map[string][][]byte
	next    map[string]int
	pending []byte
	writes  []string
}

func newFakeTransport(scripts map[string][][]byte) *fakeTransport {
	return &fakeTransport{scripts: scripts, next: make(map[string]int)}
}

func (f *fakeTransport) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := string(b)
	f.writes = append(f.writes, cmd)

	replies := f.scripts[cmd]
	if len(replies) == 0 {
		f.pending = nil
		return len(b), nil
	}
	i := f.next[cmd]
	if i >= len(replies) {
		i = len(replies) - 1
	}
	f.pending = replies[i]
	if f.next[cmd] < len(replies)-1 {
		f.next[cmd]++
	}
	return len(b), nil
}

func (f *fakeTransport) Flush() error { return nil }

func (f *fakeTransport) Any() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending) > 0
}

func (f *fakeTransport) ReadInto(buf []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := copy(buf, f.pending)
	f.pending = nil
	return n
}

func newAmpDriver(scripts map[string][][]byte) (*Driver, *devstate.State, *queue.Queue) {
	transport := newFakeTransport(scripts)
	state := devstate.New("amp", amp.Keys, amp.InitialValues)
	q := queue.New(queue.DefaultCapacity, "amp")
	return New(transport, q, state, amp.Profile{}), state, q
}

func TestDriverUnknownToProbingToConnectedOn(t *testing.T) {
	d, state, _ := newAmpDriver(map[string][][]byte{
		";":     {[]byte(";")},
		"^ON;":  {[]byte("^ON1;")},
		"^RVM;": {[]byte("^RVM1.2.3;")},
	})

	d.step() // unknown -> probing power (attention reply ";")
	if d.machineState != stateProbingPower {
		t.Fatalf("machineState = %d, want stateProbingPower", d.machineState)
	}

	d.step() // probing power -> connected on, InitialQueries pushed
	if d.machineState != stateConnectedOn {
		t.Fatalf("machineState = %d, want stateConnectedOn", d.machineState)
	}
	if got := state.Get(amp.KeyPwr); got != "1" {
		t.Fatalf("KeyPwr = %q, want \"1\"", got)
	}

	// Initial queries were pushed atomically: the first queued command is
	// the bare attention probe, the second is RVM.
	d.step() // consumes ";" from the initial query tuple
	d.step() // consumes "^RVM;"
	if got := state.Get(amp.KeyFirmware); got != "1.2.3" {
		t.Fatalf("KeyFirmware = %q, want \"1.2.3\"", got)
	}
}

func TestDriverNoDeviceOnEmptyAttentionReply(t *testing.T) {
	d, state, _ := newAmpDriver(map[string][][]byte{
		";": {nil, nil}, // both the original attempt and the one retry are empty
	})

	d.step()
	if d.machineState != stateUnknown {
		t.Fatalf("machineState = %d, want stateUnknown", d.machineState)
	}
	if got := state.Get(amp.KeyFault); got != amp.FaultNoAmp {
		t.Fatalf("fault = %q, want %q", got, amp.FaultNoAmp)
	}
}

func TestSendReceiveRetriesOnceOnEmptyReply(t *testing.T) {
	d, _, _ := newAmpDriver(map[string][][]byte{
		";": {nil, []byte(";")}, // empty first, real reply on the retry
	})

	reply := d.sendReceive([]byte(";"), 10*time.Millisecond)
	if string(reply) != ";" {
		t.Fatalf("sendReceive() = %q, want \";\" (retry should have succeeded)", reply)
	}
}

func TestDriverConnectedOffPowerOnPulse(t *testing.T) {
	d, state, q := newAmpDriver(nil)
	d.machineState = stateConnectedOff
	amp.Profile{}.PowerProbeOff(state)
	q.Push(amp.Profile{}.PowerOnCmd())

	done := make(chan struct{})
	go func() {
		d.step()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("stepConnectedOff did not return (power pulse sleep hung?)")
	}

	if d.machineState != stateUnknown {
		t.Fatalf("machineState = %d, want stateUnknown after power pulse", d.machineState)
	}
	if got := state.Get(amp.KeyFault); got != amp.FaultPoweringOn {
		t.Fatalf("fault = %q, want %q", got, amp.FaultPoweringOn)
	}
}

func TestDriverReportsParseErrorsAndObservedReplies(t *testing.T) {
	d, _, q := newAmpDriver(map[string][][]byte{
		"^SN;": {[]byte("^SN12345;")}, // well-formed, recognized
		"^XX;": {[]byte("^XXbogus;")}, // unrecognized command, same shape
	})
	d.machineState = stateConnectedOn

	var parseErrors, observed int
	d.OnParseError = func() { parseErrors++ }
	d.OnReplyObserved = func() { observed++ }

	if got := d.State(); got != stateConnectedOn {
		t.Fatalf("State() = %d, want stateConnectedOn", got)
	}

	q.Push([]byte("^SN;"))
	d.step()
	if observed != 1 || parseErrors != 0 {
		t.Fatalf("after recognized reply: observed=%d parseErrors=%d, want 1,0", observed, parseErrors)
	}

	q.Push([]byte("^XX;"))
	d.step()
	if observed != 1 || parseErrors != 1 {
		t.Fatalf("after unrecognized reply: observed=%d parseErrors=%d, want 1,1", observed, parseErrors)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	d, _, _ := newAmpDriver(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after context cancellation")
	}
}
