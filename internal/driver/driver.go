package driver

import (
	"context"
	"log"
	"time"

	"github.com/n1kdo/kpa500-bridge/internal/devstate"
	"github.com/n1kdo/kpa500-bridge/internal/queue"
)

// Transport is the byte-level serial contract (spec C1) the driver needs:
// write, non-blocking-ish read, a readiness probe, and flush. internal/
// serialio.Port satisfies this; tests use a fake.
type Transport interface {
	Write(b []byte) (int, error)
	Flush() error
	Any() bool
	ReadInto(buf []byte) int
}

// state machine states (spec.md §4.5).
const (
	stateUnknown = iota
	stateProbingPower
	stateConnectedOff
	stateConnectedOn
)

const (
	iterationYield  = 25 * time.Millisecond // ~40Hz scheduler yield
	probeTimeout    = 250 * time.Millisecond
	keepaliveWait   = 1500 * time.Millisecond
	powerPulseSleep = 1500 * time.Millisecond
	pollInterval    = 10 * time.Millisecond
	replyBufSize    = 16
)

// Driver runs the four-state polling/command loop for one device.
type Driver struct {
	transport Transport
	queue     *queue.Queue
	state     *devstate.State
	profile   Profile

	// OnParseError, if set, is called once for every reply ParseReply
	// rejects as malformed or unrecognized (spec.md §7's "Malformed serial
	// reply" error path), for metrics (A3).
	OnParseError func()

	// OnReplyObserved, if set, is called once per reply that ParseReply
	// accepted, for metrics (A3).
	OnReplyObserved func()

	machineState int
	normalIdx    int
}

// State returns the driver's current state machine value (0=unknown,
// 1=probing power, 2=connected/off, 3=connected/on), for metrics (A3).
func (d *Driver) State() int {
	return d.machineState
}

// New creates a driver for one device over the given transport.
func New(transport Transport, q *queue.Queue, s *devstate.State, profile Profile) *Driver {
	return &Driver{transport: transport, queue: q, state: s, profile: profile}
}

// Run drives the state machine until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		d.step()
		select {
		case <-ctx.Done():
			return
		case <-time.After(iterationYield):
		}
	}
}

func (d *Driver) step() {
	switch d.machineState {
	case stateUnknown:
		d.stepUnknown()
	case stateProbingPower:
		d.stepProbingPower()
	case stateConnectedOff:
		d.stepConnectedOff()
	case stateConnectedOn:
		d.stepConnectedOn()
	}
}

func (d *Driver) stepUnknown() {
	reply := d.sendReceive(d.profile.AttentionCmd(), probeTimeout)
	if len(reply) == 1 && reply[0] == ';' {
		d.machineState = stateProbingPower
		return
	}
	d.profile.NoDevice(d.state)
}

func (d *Driver) stepProbingPower() {
	reply := d.sendReceive(d.profile.PowerProbeCmd(), probeTimeout)
	d.handlePowerProbeReply(reply)
}

// handlePowerProbeReply implements the shared state-1/state-2 reply
// interpretation from spec.md §4.5: empty -> back to 0; last data byte (the
// one before the trailing ';') is '1' -> device on -> state 3 plus initial
// queries; '0' -> device off -> state 2. Any other shape is treated
// conservatively as "no device".
func (d *Driver) handlePowerProbeReply(reply []byte) {
	if len(reply) == 0 {
		d.machineState = stateUnknown
		d.profile.NoDevice(d.state)
		return
	}
	if len(reply) < 2 || reply[len(reply)-1] != ';' {
		d.machineState = stateUnknown
		d.profile.NoDevice(d.state)
		return
	}
	marker := reply[len(reply)-2]
	switch marker {
	case '1':
		d.machineState = stateConnectedOn
		d.profile.PowerProbeOn(d.state)
		d.queue.PushMany(d.profile.InitialQueries()...)
	case '0':
		d.machineState = stateConnectedOff
		d.profile.PowerProbeOff(d.state)
	default:
		d.machineState = stateUnknown
		d.profile.NoDevice(d.state)
	}
}

func (d *Driver) stepConnectedOff() {
	cmd, ok := d.queue.Pop()
	if ok && bytesEqual(cmd, d.profile.PowerOnCmd()) {
		d.transport.Write(d.profile.RawPowerPulse())
		d.transport.Flush()
		d.profile.PoweringOn(d.state)
		time.Sleep(powerPulseSleep)
		d.machineState = stateUnknown
		return
	}
	if ok {
		log.Printf("%s: discarding command %q while device is off", d.profile.Label(), cmd)
	}
	reply := d.sendReceive(d.profile.PowerProbeCmd(), keepaliveWait)
	d.handlePowerProbeReply(reply)
}

func (d *Driver) stepConnectedOn() {
	cmd, ok := d.queue.Pop()
	if !ok {
		cmd = d.nextNormalQuery()
	}
	if len(cmd) == 0 {
		return
	}
	reply := d.sendReceive(cmd, probeTimeout)
	if bytesEqual(cmd, d.profile.PowerOffCmd()) {
		d.machineState = stateProbingPower
		d.profile.SetOffData(d.state)
		time.Sleep(powerPulseSleep)
		return
	}
	if len(reply) == 0 {
		d.machineState = stateUnknown
		d.profile.NoDevice(d.state)
		return
	}
	ok = d.profile.ParseReply(d.state, reply)
	if !ok && d.OnParseError != nil {
		d.OnParseError()
	}
	if ok && d.OnReplyObserved != nil {
		d.OnReplyObserved()
	}
}

// nextNormalQuery returns the next query in the circular normal_queries
// schedule, advancing the pointer indefinitely without skipping (spec.md
// §8 testable property).
func (d *Driver) nextNormalQuery() []byte {
	queries := d.profile.NormalQueries()
	if len(queries) == 0 {
		return nil
	}
	q := queries[d.normalIdx%len(queries)]
	d.normalIdx = (d.normalIdx + 1) % len(queries)
	return q
}

// sendReceive implements spec.md §4.5's device_send_receive contract: drain
// stale bytes, write, flush, cooperatively wait up to timeout for data,
// read into a fixed buffer. One retry is allowed on an empty reply within a
// single invocation.
func (d *Driver) sendReceive(cmd []byte, timeout time.Duration) []byte {
	reply := d.sendReceiveOnce(cmd, timeout)
	if len(reply) == 0 {
		reply = d.sendReceiveOnce(cmd, timeout)
	}
	return reply
}

func (d *Driver) sendReceiveOnce(cmd []byte, timeout time.Duration) []byte {
	d.drainStale()
	d.transport.Write(cmd)
	d.transport.Flush()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if d.transport.Any() {
			break
		}
		time.Sleep(pollInterval)
	}

	buf := make([]byte, replyBufSize)
	n := d.transport.ReadInto(buf)
	return buf[:n]
}

func (d *Driver) drainStale() {
	buf := make([]byte, replyBufSize)
	var total []byte
	for {
		n := d.transport.ReadInto(buf)
		if n == 0 {
			break
		}
		total = append(total, buf[:n]...)
	}
	if len(total) > 0 {
		log.Printf("%s: discarded %d stale byte(s) before write: %q", d.profile.Label(), len(total), total)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
