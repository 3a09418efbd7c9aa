// Package driver implements the shared four-state polling/command state
// machine (spec C6) that drives either device's serial port. The amplifier
// and tuner variants differ only in the Profile they supply.
package driver

import "github.com/n1kdo/kpa500-bridge/internal/devstate"

// Profile captures everything that differs between the amplifier and the
// tuner: command vocabulary, parser, and the telemetry reset/fault
// bookkeeping tied to state transitions. The driver itself never looks at
// key indices directly — it delegates all state-table bookkeeping to the
// profile, which is what lets one state machine serve both devices.
type Profile interface {
	// Label names the device for logging ("amp", "tuner").
	Label() string

	// AttentionCmd is the bare ";" sent in state 0.
	AttentionCmd() []byte
	// PowerProbeCmd queries power state in states 1 and 2 ("^ON;" / "PS;").
	PowerProbeCmd() []byte
	// PowerOnCmd is the exact queued command that triggers the power-on
	// pulse in state 2 ("^ON1;" / "PS1;").
	PowerOnCmd() []byte
	// PowerOffCmd is the exact queued/sent command that triggers the
	// state-3-to-1 power-down transition ("^ON0;" / "PS0;").
	PowerOffCmd() []byte
	// RawPowerPulse is the raw byte sequence written directly to the port
	// to physically power on the device ("P" for the amp, "PS1" for the
	// tuner).
	RawPowerPulse() []byte

	// InitialQueries is the tuple enqueued, atomically, on every 1->3
	// transition.
	InitialQueries() [][]byte
	// NormalQueries is the fixed, circularly-cycled polling schedule used
	// in state 3 when the command queue is empty.
	NormalQueries() [][]byte

	// NoDevice marks the device as absent: clears the power bit and sets
	// the synthetic "NO AMP"/"NO TUNER" fault.
	NoDevice(s *devstate.State)
	// PoweringOn sets the transient "Powering On" fault during the
	// state-2 power-on pulse.
	PoweringOn(s *devstate.State)
	// PowerProbeOn records a successful power-probe reply indicating the
	// device is on (sets the power bit and the device's "on" fault text).
	PowerProbeOn(s *devstate.State)
	// PowerProbeOff records a successful power-probe reply indicating the
	// device is off (clears the power bit and sets the "off" fault text).
	PowerProbeOff(s *devstate.State)
	// SetOffData resets all live telemetry to its off representation on
	// the state-3-to-1 power-down transition.
	SetOffData(s *devstate.State)

	// ParseReply feeds one decoded, ';'-terminated reply to the
	// device-specific wire parser (spec C5). It returns false if the reply
	// was malformed or its command was not recognized.
	ParseReply(s *devstate.State, reply []byte) bool
}
