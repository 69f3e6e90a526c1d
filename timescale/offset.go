package timescale

import (
	"errors"
	"fmt"

	"github.com/orbitdet/eopkit/eop"
)

const (
	// taiMinusGPS is the fixed TAI-GPS offset in seconds.
	taiMinusGPS = 19.0
	// ttMinusTAI is the fixed TT-TAI offset in seconds.
	ttMinusTAI = 32.184
	// secondsPerDay is the nominal day length used to shift MJD values by
	// second-sized offsets.
	secondsPerDay = 86400.0
)

// utcRefinementPasses is the fixed iteration count used when the
// destination is UTC or UT1. The leap-second count depends on which UTC
// day the instant falls in, and that day is only known once the offset has
// been applied. Leap steps are integral seconds and offsets are sub-day,
// so a fixed three passes settle the day; the count is deliberately not a
// general convergence loop so results stay reproducible.
const utcRefinementPasses = 3

// ErrNoTable is returned when a UT1 conversion is requested without an
// Earth orientation table.
var ErrNoTable = errors.New("timescale: ut1 conversion requires an eop table")

// Offset computes the additive offset in seconds between two time scales
// for the instant day+frac, where day is the integer day part and frac the
// fractional day, both expressed in the source scale. The destination
// instant is the source instant plus the returned offset.
//
// The table is only consulted for UT1 conversions and may be nil
// otherwise. Out-of-range and gap failures from the table are passed
// through wrapped.
func Offset(table *eop.Table, from, to Scale, day, frac float64) (float64, error) {
	if from == to {
		return 0, nil
	}

	offset := 0.0
	mjd := day + frac

	// Leg 1: source to TAI. The civil day for the leap-second lookup is
	// derived from the raw input date; for a UTC-like source that date
	// already identifies the correct calendar day.
	switch from {
	case GPS:
		offset += taiMinusGPS
	case TAI:
	case TT:
		offset -= ttMinusTAI
	case UTC:
		offset += LeapSeconds(mjd)
	case UT1:
		if table == nil {
			return 0, ErrNoTable
		}
		offset += LeapSeconds(mjd)
		du, err := table.UT1UTC(mjd)
		if err != nil {
			return 0, fmt.Errorf("ut1 to tai at mjd %.6f: %w", mjd, err)
		}
		offset -= du
	default:
		return 0, fmt.Errorf("unknown source scale %d", from)
	}

	// Leg 2: TAI to destination.
	switch to {
	case GPS:
		offset -= taiMinusGPS
	case TAI:
	case TT:
		offset += ttMinusTAI
	case UTC, UT1:
		tai := mjd + offset/secondsPerDay
		trial := tai
		leap := 0.0
		for pass := 0; pass < utcRefinementPasses; pass++ {
			leap = LeapSeconds(trial)
			trial = tai - leap/secondsPerDay
		}
		offset -= leap
		if to == UT1 {
			if table == nil {
				return 0, ErrNoTable
			}
			du, err := table.UT1UTC(trial)
			if err != nil {
				return 0, fmt.Errorf("tai to ut1 at mjd %.6f: %w", trial, err)
			}
			offset += du
		}
	default:
		return 0, fmt.Errorf("unknown destination scale %d", to)
	}

	return offset, nil
}

// Convert shifts the two-part date from one scale to another, returning
// the shifted two-part date. The integer part is preserved; the offset is
// folded into the fractional part.
func Convert(table *eop.Table, from, to Scale, day, frac float64) (float64, float64, error) {
	offset, err := Offset(table, from, to, day, frac)
	if err != nil {
		return 0, 0, err
	}
	return day, frac + offset/secondsPerDay, nil
}
