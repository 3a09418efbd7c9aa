package tuner

import "github.com/n1kdo/kpa500-bridge/internal/devstate"

// initialQueries and normalQueries are grounded verbatim on
// original_source/src/kpa500-remote/kat500.py.
var initialQueries = [][]byte{[]byte(";"), []byte("I;"), []byte("RV;"), []byte("SN;"), []byte("PS;")}
var normalQueries = [][]byte{
	[]byte("VFWD;"), []byte("BYP;"), []byte("AMPI;"), []byte("VRFL;"), []byte("ATTN;"),
	[]byte("VSWR;"), []byte("AN;"), []byte("VSWRB;"), []byte("MD;"), []byte("VFWD;"),
	[]byte("F;"), []byte("VRFL;"), []byte("TP;"), []byte("BN;"), []byte("FLT;"), []byte("PS;"),
}

// Profile implements driver.Profile for the KAT500 tuner.
type Profile struct{}

func (Profile) Label() string { return "tuner" }

func (Profile) AttentionCmd() []byte  { return []byte(";") }
func (Profile) PowerProbeCmd() []byte { return []byte("PS;") }
func (Profile) PowerOnCmd() []byte    { return []byte("PS1;") }
func (Profile) PowerOffCmd() []byte   { return []byte("PS0;") }
func (Profile) RawPowerPulse() []byte { return []byte("PS1") }

func (Profile) InitialQueries() [][]byte { return initialQueries }
func (Profile) NormalQueries() [][]byte  { return normalQueries }

func (Profile) NoDevice(s *devstate.State) {
	s.Update(KeyPower, "0")
	s.Update(KeyFault, FaultTexts[5]) // "NO TUNER"
}

func (Profile) PoweringOn(s *devstate.State) {
	s.Update(KeyFault, FaultTexts[6]) // "POWERING UP"
}

func (Profile) PowerProbeOn(s *devstate.State) {
	s.Update(KeyPower, "1")
	s.Update(KeyFault, FaultTexts[0]) // "NO FAULT"
}

func (Profile) PowerProbeOff(s *devstate.State) {
	s.Update(KeyPower, "0")
	s.Update(KeyFault, FaultTexts[0]) // "NO FAULT"
}

// SetOffData resets live telemetry on power-down, per spec.md §4.5: button
// positions default to PWR=0, FAULT=0 ("NO FAULT") for the tuner.
func (Profile) SetOffData(s *devstate.State) {
	s.Update(KeyPower, "0")
	s.Update(KeyFault, FaultTexts[0])
}

func (Profile) ParseReply(s *devstate.State, reply []byte) bool {
	return Parse(s, reply)
}
