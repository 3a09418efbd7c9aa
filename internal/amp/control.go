package amp

import (
	"fmt"
	"strings"

	"github.com/n1kdo/kpa500-bridge/internal/bandplan"
)

// Dispatch translates one client control line (spec.md §6, amplifier
// prefixes) into the device command(s) it enqueues. It returns the
// commands to push (as one atomic tuple) and whether the line was
// recognized.
func Dispatch(line string) ([][]byte, bool) {
	switch {
	case strings.HasPrefix(line, "amp::button::CLEAR::"):
		return cmds("^FLC;"), true
	case strings.HasPrefix(line, "amp::button::OPER::"):
		v := line[len("amp::button::OPER::"):]
		if v == "1" {
			return cmds("^OS1;", "^OS;"), true
		}
		return cmds("^OS0;", "^OS;"), true
	case strings.HasPrefix(line, "amp::button::STBY::"):
		v := line[len("amp::button::STBY::"):]
		// STBY is the inverse of OPER.
		if v == "1" {
			return cmds("^OS0;", "^OS;"), true
		}
		return cmds("^OS1;", "^OS;"), true
	case strings.HasPrefix(line, "amp::button::PWR::"):
		v := line[len("amp::button::PWR::"):]
		if v == "1" {
			return cmds("^ON1;"), true
		}
		return cmds("^ON0;"), true
	case strings.HasPrefix(line, "amp::button::SPKR::"):
		v := line[len("amp::button::SPKR::"):]
		if v == "1" {
			return cmds("^SP1;"), true
		}
		return cmds("^SP0;"), true
	case strings.HasPrefix(line, "amp::dropdown::Band::"):
		v := line[len("amp::dropdown::Band::"):]
		n, ok := bandplan.Number(v)
		if !ok {
			return nil, false
		}
		return cmds(fmt.Sprintf("^BN%02d;", n)), true
	case strings.HasPrefix(line, "amp::slider::Fan Speed::"):
		v := line[len("amp::slider::Fan Speed::"):]
		return cmds(fmt.Sprintf("^FC%s;", v), "^FC;"), true
	}
	return nil, false
}

func cmds(s ...string) [][]byte {
	out := make([][]byte, len(s))
	for i, v := range s {
		out[i] = []byte(v)
	}
	return out
}
