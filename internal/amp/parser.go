package amp

import (
	"log"
	"strconv"
	"strings"

	"github.com/n1kdo/kpa500-bridge/internal/bandplan"
	"github.com/n1kdo/kpa500-bridge/internal/devstate"
)

// threeLetterCmds is checked before the two-letter table, implementing the
// longest-match table lookup spec.md's design notes call for (replacing
// kpa500_server.py's "peek at the next byte" trick with an explicit set).
var threeLetterCmds = map[string]bool{"RVM": true}

// Parse feeds one decoded, ';'-terminated amplifier reply to the device
// state table (spec C5). Grounded on
// original_source/src/kpa500_server.py's process_kpa500_message, adapted
// to spec.md §4.4's documented CMD table (16-entry fault lookup instead of
// the diagnostic script's two-way "00"/passthrough check).
func Parse(s *devstate.State, reply []byte) bool {
	if len(reply) == 0 {
		return true
	}
	if len(reply) == 1 && reply[0] == ';' {
		return true
	}
	if reply[0] != '^' {
		log.Printf("amp: malformed reply (missing leading '^'): %q", reply)
		return false
	}
	body := reply[1:]
	semi := indexByte(body, ';')
	if semi < 0 {
		log.Printf("amp: malformed reply (missing ';'): %q", reply)
		return false
	}
	body = body[:semi]

	cmd, data, ok := splitCmd(body)
	if !ok {
		log.Printf("amp: could not parse command from reply: %q", reply)
		return false
	}

	switch cmd {
	case "BN":
		n, err := strconv.Atoi(data)
		if err == nil && n <= 10 {
			if name := bandplan.Name(n); name != "" {
				s.Update(KeyBand, name)
			}
		}
	case "FC":
		n, err := strconv.Atoi(data)
		if err == nil {
			s.Update(KeyFanSlider, strconv.Itoa(n))
		}
	case "FL":
		s.Update(KeyFault, FaultText(data))
	case "ON":
		s.Update(KeyPwr, data)
	case "OS":
		s.Update(KeyOper, data)
		if data == "0" {
			s.Update(KeyStby, "1")
		} else {
			s.Update(KeyStby, "0")
		}
	case "RVM":
		s.Update(KeyFirmware, data)
	case "SN":
		s.Update(KeySerial, data)
	case "SP":
		s.Update(KeySpkr, data)
	case "TM":
		n, err := strconv.Atoi(data)
		if err == nil {
			s.Update(KeyTemp, strconv.Itoa(n))
		}
	case "VI":
		parts := strings.SplitN(data, " ", 2)
		if len(parts) == 2 {
			s.Update(KeyVoltage, parts[0])
			s.Update(KeyCurrent, stripToZero(parts[1]))
		}
	case "WS":
		parts := strings.SplitN(data, " ", 2)
		if len(parts) == 2 {
			s.Update(KeyPower, stripPreserveZeros(parts[0]))
			s.Update(KeySWR, stripToZero(parts[1]))
		}
	default:
		log.Printf("amp: unrecognized command %q with data %q", cmd, data)
		return false
	}
	return true
}

// splitCmd splits a CMD<DATA> body into its command and data parts,
// matching the longest known command first (RVM before the 2-letter
// table), per spec.md's "CMD is 2 or 3 uppercase letters" grammar.
func splitCmd(body []byte) (cmd, data string, ok bool) {
	if len(body) >= 3 && threeLetterCmds[string(body[:3])] {
		return string(body[:3]), string(body[3:]), true
	}
	if len(body) >= 2 {
		return string(body[:2]), string(body[2:]), true
	}
	return "", "", false
}

// stripToZero strips all leading zeros, collapsing an all-zero value to a
// single "0" (spec.md boundary case: "^VI000 001;" yields current="1";
// "^WS000 000;" yields SWR="0"). Used for current and SWR.
func stripToZero(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// stripPreserveZeros strips leading zeros but preserves an all-zero value
// verbatim (spec.md: "^WS000 000;" yields power="000" preserved). Used for
// the WS power field.
func stripPreserveZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return s
	}
	return trimmed
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
