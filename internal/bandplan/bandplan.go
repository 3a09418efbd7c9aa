// Package bandplan holds the amateur radio band catalog shared by the
// amplifier and tuner wire parsers, mirroring the numeric band index both
// devices use on the wire.
package bandplan

// Names is the ordered band catalog; index i is "band number" i as sent by
// both the KPA500 and KAT500 (BN<n> / BN;).
var Names = []string{
	"160m", "80m", "60m", "40m", "30m", "20m", "17m", "15m", "12m", "10m", "6m",
}

// Name returns the band name for a band number, or "" if n is out of range.
func Name(n int) string {
	if n < 0 || n >= len(Names) {
		return ""
	}
	return Names[n]
}

// Number returns the band number for a band name, and false if unknown.
func Number(name string) (int, bool) {
	for i, n := range Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
