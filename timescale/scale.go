// Package timescale converts instants between the GPS, TAI, TT, UTC and
// UT1 time scales, pivoting every conversion through TAI. UT1 conversions
// consume UT1-UTC offsets from an Earth orientation table; UTC conversions
// consume the built-in leap-second table.
package timescale

import (
	"fmt"
	"strings"
)

// Scale is one of the supported time scales.
type Scale uint8

const (
	// GPS is the GPS system time, a fixed 19 s behind TAI.
	GPS Scale = iota
	// TAI is the international atomic time, the pivot scale.
	TAI
	// TT is terrestrial time, a fixed 32.184 s ahead of TAI.
	TT
	// UTC is civil time, behind TAI by the accumulated leap seconds.
	UTC
	// UT1 is the Earth-rotation time scale, offset from UTC by the
	// published UT1-UTC value.
	UT1
)

// Scales lists every supported scale, useful for exhaustive iteration.
var Scales = []Scale{GPS, TAI, TT, UTC, UT1}

func (s Scale) String() string {
	switch s {
	case GPS:
		return "GPS"
	case TAI:
		return "TAI"
	case TT:
		return "TT"
	case UTC:
		return "UTC"
	case UT1:
		return "UT1"
	default:
		return "unknown"
	}
}

// ParseScale resolves a case-insensitive scale name.
func ParseScale(name string) (Scale, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GPS", "GPST":
		return GPS, nil
	case "TAI":
		return TAI, nil
	case "TT":
		return TT, nil
	case "UTC":
		return UTC, nil
	case "UT1":
		return UT1, nil
	default:
		return 0, fmt.Errorf("unknown time scale %q", name)
	}
}
