// Package tuner implements the KAT500 antenna tuner device variant: its
// key table, fault table, wire parser (spec C5), and driver.Profile (spec
// C6). Grounded directly on
// original_source/src/kpa500-remote/kat500.py.
package tuner

// Key table K_D for the tuner, 15 entries.
const (
	KeyAmpi = iota // 00 button::AMPI
	KeyAttn        // 01 button::ATTN
	KeyByp         // 02 button::BYP
	KeyClear       // 03 button::Clear
	KeyPower       // 04 button::Power
	KeyTune        // 05 button::Tune
	KeyAntenna     // 06 dropdown::Antenna
	KeyBand        // 07 dropdown::Band
	KeyMode        // 08 dropdown::Mode
	KeyFault       // 09 fault
	KeyFrequency   // 10 meter::Frequency
	KeyVFwd        // 11 meter::VFWD
	KeyVRfl        // 12 meter::VRFL
	KeyVSWR        // 13 meter::VSWR
	KeyVSWRB       // 14 meter::VSWRB

	KeyCount
)

// Keys is K_D, the ordered wire-name table.
var Keys = []string{
	"tuner::button::AMPI",
	"tuner::button::ATTN",
	"tuner::button::BYP",
	"tuner::button::Clear",
	"tuner::button::Power",
	"tuner::button::Tune",
	"tuner::dropdown::Antenna",
	"tuner::dropdown::Band",
	"tuner::dropdown::Mode",
	"tuner::fault",
	"tuner::meter::Frequency",
	"tuner::meter::VFWD",
	"tuner::meter::VRFL",
	"tuner::meter::VSWR",
	"tuner::meter::VSWRB",
}

// AntennaNames maps antenna number (1-based on the wire) to display name.
var AntennaNames = []string{"One", "Two", "Three"}

// ModeNames maps the single-letter mode code to its display name.
var ModeNames = map[string]string{"M": "Manual", "A": "Auto", "B": "Bypass"}

// InitialValues mirrors kat500.py's __init__.
var InitialValues = func() []string {
	v := make([]string, KeyCount)
	for i := range v {
		v[i] = "0"
	}
	v[KeyPower] = "1"
	v[KeyAntenna] = ""
	v[KeyBand] = ""
	v[KeyVSWR] = "1.0"
	v[KeyVSWRB] = "1.0"
	return v
}()

// InitialBroadcast is the order a brand-new client is seeded with, per
// spec.md §4.6, confirmed against
// original_source/src/kpa500-remote/kat500.py's update_list.extend(...)
// call.
var InitialBroadcast = []int{9, 4, 5, 0, 1, 2, 3, 6, 8, 7, 13, 14, 11, 12, 10}
