package tuner

import (
	"bytes"
	"testing"
)

func assertCmds(t *testing.T, got [][]byte, ok bool, wantOK bool, want ...string) {
	t.Helper()
	if ok != wantOK {
		t.Fatalf("ok = %v, want %v", ok, wantOK)
	}
	if !wantOK {
		return
	}
	if len(got) != len(want) {
		t.Fatalf("got %d commands, want %d: %q", len(got), len(want), got)
	}
	for i, w := range want {
		if !bytes.Equal(got[i], []byte(w)) {
			t.Fatalf("command %d = %q, want %q", i, got[i], w)
		}
	}
}

func TestDispatchModeDropdown(t *testing.T) {
	cmds, ok := Dispatch("tuner::dropdown::Mode::Bypass")
	assertCmds(t, cmds, ok, true, "MDB;", "MD;")
}

func TestDispatchAntennaDropdown(t *testing.T) {
	cmds, ok := Dispatch("tuner::dropdown::Antenna::Three")
	assertCmds(t, cmds, ok, true, "AN3;", "AN;")
}

func TestDispatchUnknownAntennaRejected(t *testing.T) {
	_, ok := Dispatch("tuner::dropdown::Antenna::Four")
	if ok {
		t.Fatalf("expected unknown antenna name to be rejected")
	}
}

func TestDispatchTuneButton(t *testing.T) {
	cmds, ok := Dispatch("tuner::button::Tune::1")
	assertCmds(t, cmds, ok, true, "FT;", "TP;")

	cmds, ok = Dispatch("tuner::button::Tune::0")
	assertCmds(t, cmds, ok, true, "CT;", "TP;")
}

func TestDispatchClearButton(t *testing.T) {
	cmds, ok := Dispatch("tuner::button::clear::1")
	assertCmds(t, cmds, ok, true, "FLTC;", "FLT;")
}

func TestDispatchUnrecognizedPrefix(t *testing.T) {
	_, ok := Dispatch("tuner::nonsense::Foo::1")
	if ok {
		t.Fatalf("expected unrecognized prefix to be rejected")
	}
}
