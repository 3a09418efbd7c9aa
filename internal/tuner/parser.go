package tuner

import (
	"log"
	"strconv"
	"strings"

	"github.com/n1kdo/kpa500-bridge/internal/bandplan"
	"github.com/n1kdo/kpa500-bridge/internal/devstate"
)

// cmdsByLength disambiguates the tuner's variable-length command names by
// longest match, per spec.md §4.4 ("VSWRB shares a prefix with VSWR, AMPI
// with AN, etc."). Grounded on
// original_source/src/kpa500-remote/kat500.py's process_kat500_message,
// restructured into the single longest-match table spec.md's design notes
// ask for instead of the four nested length checks the original used.
var cmdsByLength = [][]string{
	5: {"VSWRB"},
	4: {"AMPI", "ATTN", "VFWD", "VRFL", "VSWR"},
	3: {"BYP", "FLT"},
	2: {"AN", "BN", "MD", "PS", "RV", "SL", "SN", "TP"},
	1: {"F"},
}

// identifyResponse is consumed silently (spec.md §4.4).
const identifyResponse = "KAT500"

// Parse feeds one decoded, ';'-terminated tuner reply to the device state
// table (spec C5). A reply lacking a trailing ';' is logged and discarded.
func Parse(s *devstate.State, reply []byte) bool {
	if len(reply) == 0 {
		return true
	}
	msg := string(reply)
	if msg == ";" {
		return true
	}
	if msg[len(msg)-1] != ';' {
		log.Printf("tuner: bad data (missing ';'): %q", msg)
		return false
	}
	body := msg[:len(msg)-1] // strip trailing ';'

	if strings.HasPrefix(body, identifyResponse) {
		return true
	}

	cmd, data, ok := matchCmd(body)
	if !ok {
		log.Printf("tuner: unrecognized command in reply: %q", msg)
		return false
	}

	switch cmd {
	case "AN":
		n, err := strconv.Atoi(data)
		if err == nil && n >= 1 && n <= len(AntennaNames) {
			s.Update(KeyAntenna, AntennaNames[n-1])
		}
	case "BN":
		n, err := strconv.Atoi(data)
		if err == nil {
			if name := bandplan.Name(n); name != "" {
				s.Update(KeyBand, name)
			}
		}
	case "MD":
		if name, ok := ModeNames[data]; ok {
			s.Update(KeyMode, name)
		} else {
			s.Update(KeyMode, data)
		}
	case "PS":
		s.Update(KeyPower, data)
	case "TP":
		s.Update(KeyTune, data)
	case "F":
		s.Update(KeyFrequency, data)
	case "BYP":
		s.Update(KeyByp, data)
	case "FLT":
		s.Update(KeyFault, data)
	case "AMPI":
		s.Update(KeyAmpi, data)
	case "ATTN":
		s.Update(KeyAttn, data)
	case "VFWD":
		s.Update(KeyVFwd, data)
	case "VRFL":
		s.Update(KeyVRfl, data)
	case "VSWR":
		s.Update(KeyVSWR, data)
	case "VSWRB":
		s.Update(KeyVSWRB, data)
	case "RV", "SL", "SN":
		// informational only, per spec.md §4.4.
	}
	return true
}

// matchCmd finds the longest known command that is a prefix of body and
// returns its trailing data.
func matchCmd(body string) (cmd, data string, ok bool) {
	for length := len(cmdsByLength) - 1; length >= 1; length-- {
		if length >= len(cmdsByLength) || cmdsByLength[length] == nil {
			continue
		}
		if len(body) < length {
			continue
		}
		prefix := body[:length]
		for _, candidate := range cmdsByLength[length] {
			if prefix == candidate {
				return candidate, body[length:], true
			}
		}
	}
	return "", "", false
}
