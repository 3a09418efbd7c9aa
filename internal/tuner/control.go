package tuner

import "strings"

// Dispatch translates one client control line (spec.md §6, tuner prefixes)
// into the device command(s) it enqueues, atomically as one tuple.
func Dispatch(line string) ([][]byte, bool) {
	switch {
	case strings.HasPrefix(line, "tuner::button::clear::"):
		return cmds("FLTC;", "FLT;"), true
	case strings.HasPrefix(line, "tuner::dropdown::Mode::"):
		switch line[len("tuner::dropdown::Mode::"):] {
		case "Auto":
			return cmds("MDA;", "MD;"), true
		case "Manual":
			return cmds("MDM;", "MD;"), true
		case "Bypass":
			return cmds("MDB;", "MD;"), true
		}
		return nil, false
	case strings.HasPrefix(line, "tuner::dropdown::Antenna::"):
		switch line[len("tuner::dropdown::Antenna::"):] {
		case "One":
			return cmds("AN1;", "AN;"), true
		case "Two":
			return cmds("AN2;", "AN;"), true
		case "Three":
			return cmds("AN3;", "AN;"), true
		}
		return nil, false
	case strings.HasPrefix(line, "tuner::button::AMPI::"):
		if line[len("tuner::button::AMPI::"):] == "1" {
			return cmds("AMPI1;", "AMPI;"), true
		}
		return cmds("AMPI0;", "AMPI;"), true
	case strings.HasPrefix(line, "tuner::button::ATTN::"):
		if line[len("tuner::button::ATTN::"):] == "1" {
			return cmds("ATTN1;", "ATTN;"), true
		}
		return cmds("ATTN0;", "ATTN;"), true
	case strings.HasPrefix(line, "tuner::button::BYP::"):
		if line[len("tuner::button::BYP::"):] == "1" {
			return cmds("BYPB;", "BYP;"), true
		}
		return cmds("BYPN;", "BYP;"), true
	case strings.HasPrefix(line, "tuner::button::Power::"):
		if line[len("tuner::button::Power::"):] == "1" {
			return cmds("PS1;", "PS;"), true
		}
		return cmds("PS0;", "PS;"), true
	case strings.HasPrefix(line, "tuner::button::Tune::"):
		if line[len("tuner::button::Tune::"):] == "1" {
			return cmds("FT;", "TP;"), true
		}
		return cmds("CT;", "TP;"), true
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
