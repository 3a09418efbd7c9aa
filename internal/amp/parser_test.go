package amp

import (
	"testing"

	"github.com/n1kdo/kpa500-bridge/internal/devstate"
)

func newTestState() *devstate.State {
	return devstate.New("amp", Keys, InitialValues)
}

func TestParseVIBoundaryCases(t *testing.T) {
	s := newTestState()
	Parse(s, []byte("^VI000 001;"))
	if got := s.Get(KeyVoltage); got != "000" {
		t.Fatalf("voltage = %q, want \"000\"", got)
	}
	if got := s.Get(KeyCurrent); got != "1" {
		t.Fatalf("current = %q, want \"1\"", got)
	}
}

func TestParseWSBoundaryCases(t *testing.T) {
	s := newTestState()
	Parse(s, []byte("^WS000 000;"))
	if got := s.Get(KeyPower); got != "000" {
		t.Fatalf("power = %q, want \"000\" (preserved)", got)
	}
	if got := s.Get(KeySWR); got != "0" {
		t.Fatalf("SWR = %q, want \"0\"", got)
	}

	s2 := newTestState()
	Parse(s2, []byte("^WS015 125;"))
	if got := s2.Get(KeyPower); got != "15" {
		t.Fatalf("power = %q, want \"15\"", got)
	}
	if got := s2.Get(KeySWR); got != "125" {
		t.Fatalf("SWR = %q, want \"125\"", got)
	}
}

func TestParseFaultLookup(t *testing.T) {
	s := newTestState()
	Parse(s, []byte("^FL02;"))
	if got := s.Get(KeyFault); got != "HI CURR" {
		t.Fatalf("fault = %q, want \"HI CURR\"", got)
	}
}

func TestParseRVMThreeLetterCommand(t *testing.T) {
	s := newTestState()
	Parse(s, []byte("^RVM1.2.3;"))
	if got := s.Get(KeyFirmware); got != "1.2.3" {
		t.Fatalf("firmware = %q, want \"1.2.3\"", got)
	}
}

func TestParseOSSetsInverseSTBY(t *testing.T) {
	s := newTestState()
	Parse(s, []byte("^OS1;"))
	if got := s.Get(KeyOper); got != "1" {
		t.Fatalf("oper = %q, want \"1\"", got)
	}
	if got := s.Get(KeyStby); got != "0" {
		t.Fatalf("stby = %q, want \"0\"", got)
	}
}

func TestParseMissingLeadingCaretIsIgnored(t *testing.T) {
	s := newTestState()
	before := s.Get(KeyFirmware)
	Parse(s, []byte("RVM1.2.3;"))
	if got := s.Get(KeyFirmware); got != before {
		t.Fatalf("firmware changed to %q on malformed reply, want unchanged %q", got, before)
	}
}

func TestParseBareAttentionReplyIsIgnored(t *testing.T) {
	s := newTestState()
	Parse(s, []byte(";"))
	// Must not panic and must leave state untouched; nothing to assert
	// beyond "did not crash" since ";" carries no command.
	_ = s
}
