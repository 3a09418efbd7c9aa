package amp

import "github.com/n1kdo/kpa500-bridge/internal/devstate"

// initialQueries and normalQueries are grounded verbatim on
// original_source/src/kpa500-remote/kpa500.py.
var initialQueries = [][]byte{[]byte(";"), []byte("^RVM;"), []byte("^SN;"), []byte("^ON;"), []byte("^FC;")}
var normalQueries = [][]byte{[]byte("^FL;"), []byte("^WS;"), []byte("^VI;"), []byte("^OS;"), []byte("^TM;"), []byte("^BN;"), []byte("^SP;")}

// Profile implements driver.Profile for the KPA500 amplifier.
type Profile struct{}

func (Profile) Label() string { return "amp" }

func (Profile) AttentionCmd() []byte  { return []byte(";") }
func (Profile) PowerProbeCmd() []byte { return []byte("^ON;") }
func (Profile) PowerOnCmd() []byte    { return []byte("^ON1;") }
func (Profile) PowerOffCmd() []byte   { return []byte("^ON0;") }
func (Profile) RawPowerPulse() []byte { return []byte("P") }

func (Profile) InitialQueries() [][]byte { return initialQueries }
func (Profile) NormalQueries() [][]byte  { return normalQueries }

func (Profile) NoDevice(s *devstate.State) {
	s.Update(KeyPwr, "0")
	s.Update(KeyFault, FaultNoAmp)
}

func (Profile) PoweringOn(s *devstate.State) {
	s.Update(KeyFault, FaultPoweringOn)
}

func (Profile) PowerProbeOn(s *devstate.State) {
	s.Update(KeyPwr, "1")
	s.Update(KeyFault, FaultTexts[0]) // "AMP ON"
}

func (Profile) PowerProbeOff(s *devstate.State) {
	s.Update(KeyPwr, "0")
	s.Update(KeyFault, FaultOff)
}

// SetOffData resets live telemetry on power-down, per spec.md §4.5: button
// positions default to STBY=1, OPER=0, PWR=0 for the amplifier.
func (Profile) SetOffData(s *devstate.State) {
	s.Update(KeyOper, "0")
	s.Update(KeyStby, "1")
	s.Update(KeyPwr, "0")
	s.Update(KeyCurrent, "000")
	s.Update(KeyPower, "000")
	s.Update(KeySWR, "000")
	s.Update(KeyTemp, "0")
	s.Update(KeyVoltage, "00")
}

func (Profile) ParseReply(s *devstate.State, reply []byte) bool {
	return Parse(s, reply)
}
