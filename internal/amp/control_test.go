package amp

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

func TestDispatchPowerButton(t *testing.T) {
	cmds, ok := Dispatch("amp::button::PWR::1")
	assertCmds(t, cmds, ok, true, "^ON1;")

	cmds, ok = Dispatch("amp::button::PWR::0")
	assertCmds(t, cmds, ok, true, "^ON0;")
}

func TestDispatchSTBYIsInverseOfOPER(t *testing.T) {
	cmds, ok := Dispatch("amp::button::STBY::1")
	assertCmds(t, cmds, ok, true, "^OS0;", "^OS;")

	cmds, ok = Dispatch("amp::button::STBY::0")
	assertCmds(t, cmds, ok, true, "^OS1;", "^OS;")
}

func TestDispatchBandDropdown(t *testing.T) {
	cmds, ok := Dispatch("amp::dropdown::Band::20m")
	assertCmds(t, cmds, ok, true, "^BN05;")
}

func TestDispatchUnknownBandRejected(t *testing.T) {
	_, ok := Dispatch("amp::dropdown::Band::2m")
	if ok {
		t.Fatalf("expected unknown band to be rejected")
	}
}

func TestDispatchUnrecognizedPrefix(t *testing.T) {
	_, ok := Dispatch("amp::nonsense::Foo::1")
	if ok {
		t.Fatalf("expected unrecognized prefix to be rejected")
	}
}

func TestDispatchFanSpeedSlider(t *testing.T) {
	cmds, ok := Dispatch("amp::slider::Fan Speed::3")
	assertCmds(t, cmds, ok, true, "^FC3;", "^FC;")
}
