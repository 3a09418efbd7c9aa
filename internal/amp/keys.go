// Package amp implements the KPA500 amplifier device variant: its key
// table, fault table, wire parser (spec C5), and driver.Profile (spec C6).
// Key table and initial values are grounded directly on
// original_source/src/kpa500-remote/kpa500.py and kpa500_server.py.
package amp

// Key table K_D for the amplifier, 19 entries, index is the canonical
// in-memory handle referenced throughout the driver, parser and remote
// server.
const (
	KeyOper = iota // 00 button::OPER, "0" or "1"
	KeyStby        // 01 button::STBY, inverse of OPER
	KeyClear       // 02 button::CLEAR
	KeySpkr        // 03 button::SPKR
	KeyPwr         // 04 button::PWR
	KeyBand        // 05 dropdown::Band
	KeyFault       // 06 fault
	KeyFirmware    // 07 firmware
	KeyBandList    // 08 list::Band
	KeyCurrent     // 09 meter::Current
	KeyPower       // 10 meter::Power
	KeySWR         // 11 meter::SWR
	KeyTemp        // 12 meter::Temp
	KeyVoltage     // 13 meter::Voltage
	KeyFanRange    // 14 range::Fan Speed
	KeyHoldRange   // 15 range::PWR Meter Hold
	KeySerial      // 16 serial
	KeyFanSlider   // 17 slider::Fan Speed
	KeyHoldSlider  // 18 slider::PWR Meter Hold

	KeyCount
)

// Keys is K_D, the ordered wire-name table.
var Keys = []string{
	"amp::button::OPER",
	"amp::button::STBY",
	"amp::button::CLEAR",
	"amp::button::SPKR",
	"amp::button::PWR",
	"amp::dropdown::Band",
	"amp::fault",
	"amp::firmware",
	"amp::list::Band",
	"amp::meter::Current",
	"amp::meter::Power",
	"amp::meter::SWR",
	"amp::meter::Temp",
	"amp::meter::Voltage",
	"amp::range::Fan Speed",
	"amp::range::PWR Meter Hold",
	"amp::serial",
	"amp::slider::Fan Speed",
	"amp::slider::PWR Meter Hold",
}

// InitialValues mirrors kpa500.py's __init__: every slot defaults to "0"
// except the ones explicitly seeded.
var InitialValues = func() []string {
	v := make([]string, KeyCount)
	for i := range v {
		v[i] = "0"
	}
	v[KeyStby] = "1"
	v[KeyBandList] = "160m,80m,60m,40m,30m,20m,17m,15m,12m,10m,6m"
	v[KeyCurrent] = "000"
	v[KeyPower] = "000"
	v[KeySWR] = "000"
	v[KeyVoltage] = "00"
	v[KeyFanRange] = "0,6,0"
	v[KeyHoldRange] = "0,10,0"
	v[KeyHoldSlider] = "4"
	return v
}()

// InitialBroadcast is the order a brand-new client is seeded with, per
// spec.md §4.6 and confirmed against
// original_source/src/kpa500-remote/main.py's update_list.extend(...) call.
var InitialBroadcast = []int{7, 16, 6, 0, 1, 2, 3, 4, 8, 5, 9, 10, 11, 12, 13, 14, 15, 17, 18}
