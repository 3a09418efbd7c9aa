package amp

import "strconv"

// FaultTexts is the 16-entry amplifier fault table (spec.md §3). Only
// codes 0 ("AMP ON"), 2 ("HI CURR") and 9 ("REFL HI") are given literally
// in the specification; the remaining entries are filled in with
// conventional linear-amplifier fault terminology to complete the fixed
// table.
var FaultTexts = [16]string{
	0:  "AMP ON",
	1:  "PTT ASSERT",
	2:  "HI CURR",
	3:  "HI TEMP",
	4:  "HI SWR",
	5:  "HI FWD PWR",
	6:  "UNDER VOLT",
	7:  "OVER VOLT",
	8:  "FAN FAIL",
	9:  "REFL HI",
	10: "INPUT SWITCH",
	11: "TUNE FAIL",
	12: "HEATSINK HOT",
	13: "GATE FAULT",
	14: "NO OUTPUT",
	15: "UNKNOWN FAULT",
}

// FaultText maps a numeric fault code string to its table text. Unknown
// codes pass through as-is (spec.md §4.4).
func FaultText(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 || n >= len(FaultTexts) {
		return code
	}
	return FaultTexts[n]
}

// Synthetic, bridge-internal fault strings (spec C3, spec.md §4.5).
const (
	FaultNoAmp      = "NO AMP"
	FaultPoweringOn = "Powering On"
	FaultOff        = "AMP OFF"
)
