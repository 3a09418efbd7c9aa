package tuner

// FaultTexts is the 7-entry tuner fault table (spec.md §3), grounded
// verbatim on original_source/src/kpa500-remote/kat500.py's fault_texts.
// It is used only for the bridge's own synthetic fault states (profile.go);
// unlike the amplifier's numeric FL<nn> reply, the tuner's own FLT<n> wire
// reply is a direct string update (spec.md §4.4) and never indexes this
// table.
var FaultTexts = [7]string{
	"NO FAULT",
	"NO MATCH",
	"POWER ABOVE DESIGN LIMIT",
	"POWER ABOVE RELAY LIMIT",
	"SWR ABOVE THRESHOLD",
	"NO TUNER",
	"POWERING UP",
}

const (
	FaultCodeNoFault = "0"
	FaultCodeNoTuner = "5"
	FaultCodePowerUp = "6"
)
