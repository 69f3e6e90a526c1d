package eop

import (
	"fmt"
	"math"

	"github.com/orbitdet/eopkit/telemetry"
)

// ExtrapolationPolicy decides what a lookup at or beyond a parameter's
// upper bound returns.
type ExtrapolationPolicy int

const (
	// ExtrapolateZero answers out-of-range lookups with 0.0.
	ExtrapolateZero ExtrapolationPolicy = iota
	// ExtrapolateHold answers out-of-range lookups with the last valid value.
	ExtrapolateHold
	// ExtrapolateError rejects out-of-range lookups with an OutOfRangeError.
	ExtrapolateError
)

func (p ExtrapolationPolicy) String() string {
	switch p {
	case ExtrapolateZero:
		return "zero"
	case ExtrapolateHold:
		return "hold"
	case ExtrapolateError:
		return "error"
	default:
		return "unknown"
	}
}

// Parameters bundles all Earth orientation parameters for one date.
// Angular values are radians, time values seconds.
type Parameters struct {
	PolarX float64
	PolarY float64
	UT1UTC float64
	DX     float64
	DY     float64
	LOD    float64
}

// Table is an immutable per-day store of Earth orientation parameters.
//
// A table is safe for unlimited concurrent reads once constructed; there is
// no update-in-place API. Interpolation between adjacent days and the
// extrapolation policy are fixed at construction time.
type Table struct {
	records     map[int]Record
	source      SourceType
	policy      ExtrapolationPolicy
	interpolate bool

	mjdMin   int
	mjdMax   int
	lastLOD  int
	lastDxDy int

	collector telemetry.Collector
}

// newTable builds the store and the four scalar bounds from an ordered
// record stream. Out-of-order or duplicate day keys are rejected so that
// the bound bookkeeping below cannot silently go wrong.
func newTable(records []Record, src SourceType, policy ExtrapolationPolicy, interpolate bool, collector telemetry.Collector) (*Table, error) {
	if collector == nil {
		collector = telemetry.Noop()
	}
	t := &Table{
		records:     make(map[int]Record, len(records)),
		source:      src,
		policy:      policy,
		interpolate: interpolate,
		mjdMin:      MJDNever,
		mjdMax:      MJDNever,
		lastLOD:     MJDNever,
		lastDxDy:    MJDNever,
		collector:   collector,
	}
	for i, rec := range records {
		if i == 0 {
			t.mjdMin = rec.MJD
		} else if rec.MJD <= t.mjdMax {
			return nil, fmt.Errorf("record %d: mjd %d not after previous mjd %d", i, rec.MJD, t.mjdMax)
		}
		t.mjdMax = rec.MJD
		if rec.LOD != nil {
			t.lastLOD = rec.MJD
		}
		if rec.DX != nil && rec.DY != nil {
			t.lastDxDy = rec.MJD
		}
		t.records[rec.MJD] = rec
	}
	return t, nil
}

// Source reports the format the table was built from.
func (t *Table) Source() SourceType { return t.source }

// Policy reports the extrapolation policy fixed at construction.
func (t *Table) Policy() ExtrapolationPolicy { return t.policy }

// Interpolating reports whether lookups between days interpolate linearly.
func (t *Table) Interpolating() bool { return t.interpolate }

// Len returns the number of stored days.
func (t *Table) Len() int { return len(t.records) }

// MinMJD returns the earliest stored day, or MJDNever for an empty table.
func (t *Table) MinMJD() int { return t.mjdMin }

// MaxMJD returns the latest stored day, or MJDNever for an empty table.
func (t *Table) MaxMJD() int { return t.mjdMax }

// LastLOD returns the latest day with a valid length-of-day value, or
// MJDNever when the source never reported one.
func (t *Table) LastLOD() int { return t.lastLOD }

// LastDxDy returns the latest day with valid CIP corrections, or MJDNever.
func (t *Table) LastDxDy() int { return t.lastDxDy }

// UT1UTC returns the UT1-UTC offset in seconds for the given date.
func (t *Table) UT1UTC(mjd float64) (float64, error) {
	return t.lookup(mjd, t.mjdMax, "ut1_utc", func(r Record) (float64, bool) {
		return r.UT1UTC, true
	})
}

// PolarMotion returns the polar motion components in radians.
func (t *Table) PolarMotion(mjd float64) (x, y float64, err error) {
	x, err = t.lookup(mjd, t.mjdMax, "pm_x", func(r Record) (float64, bool) {
		return r.PolarX, true
	})
	if err != nil {
		return 0, 0, err
	}
	y, err = t.lookup(mjd, t.mjdMax, "pm_y", func(r Record) (float64, bool) {
		return r.PolarY, true
	})
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// CIPOffsets returns the celestial intermediate pole corrections dX and dY
// in radians. The in-range test uses the last day both corrections were
// published, not the table maximum.
func (t *Table) CIPOffsets(mjd float64) (dx, dy float64, err error) {
	dx, err = t.lookup(mjd, t.lastDxDy, "dx", func(r Record) (float64, bool) {
		if r.DX == nil {
			return 0, false
		}
		return *r.DX, true
	})
	if err != nil {
		return 0, 0, err
	}
	dy, err = t.lookup(mjd, t.lastDxDy, "dy", func(r Record) (float64, bool) {
		if r.DY == nil {
			return 0, false
		}
		return *r.DY, true
	})
	if err != nil {
		return 0, 0, err
	}
	return dx, dy, nil
}

// LOD returns the length-of-day offset in seconds. Sources that never
// report it keep the bound at MJDNever, so every lookup goes through the
// extrapolation policy.
func (t *Table) LOD(mjd float64) (float64, error) {
	return t.lookup(mjd, t.lastLOD, "lod", func(r Record) (float64, bool) {
		if r.LOD == nil {
			return 0, false
		}
		return *r.LOD, true
	})
}

// At returns all parameters for one date by combining the per-parameter
// accessors, each with its own bound and extrapolation behaviour.
func (t *Table) At(mjd float64) (Parameters, error) {
	var p Parameters
	var err error
	p.UT1UTC, err = t.UT1UTC(mjd)
	if err != nil {
		return Parameters{}, err
	}
	p.PolarX, p.PolarY, err = t.PolarMotion(mjd)
	if err != nil {
		return Parameters{}, err
	}
	p.DX, p.DY, err = t.CIPOffsets(mjd)
	if err != nil {
		return Parameters{}, err
	}
	p.LOD, err = t.LOD(mjd)
	if err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// lookup is the shared accessor algorithm. Dates strictly below the
// parameter's upper bound are answered from table data, interpolating
// between the floor day and the next when enabled. Dates at or beyond the
// bound are answered by the extrapolation policy.
func (t *Table) lookup(mjd float64, bound int, parameter string, get func(Record) (float64, bool)) (float64, error) {
	if bound != MJDNever && mjd < float64(bound) {
		t1 := int(math.Floor(mjd))
		y1, err := t.valueAt(t1, parameter, get)
		if err != nil {
			return 0, err
		}
		if !t.interpolate {
			return y1, nil
		}
		y2, err := t.valueAt(t1+1, parameter, get)
		if err != nil {
			return 0, err
		}
		return y1 + (y2-y1)*(mjd-float64(t1)), nil
	}

	t.collector.IncExtrapolation(parameter, t.policy.String())
	switch t.policy {
	case ExtrapolateZero:
		return 0, nil
	case ExtrapolateHold:
		if bound == MJDNever {
			// No day ever carried this parameter; the upstream format
			// pins it to zero.
			return 0, nil
		}
		return t.valueAt(bound, parameter, get)
	default:
		return 0, &OutOfRangeError{Parameter: parameter, MJD: mjd, Bound: bound}
	}
}

// valueAt reads one parameter from the record for the given day, turning a
// missing entry or a missing optional value into a GapError.
func (t *Table) valueAt(day int, parameter string, get func(Record) (float64, bool)) (float64, error) {
	rec, ok := t.records[day]
	if !ok {
		return 0, &GapError{Parameter: parameter, MJD: day}
	}
	value, ok := get(rec)
	if !ok {
		return 0, &GapError{Parameter: parameter, MJD: day}
	}
	return value, nil
}

// Values holds one explicit set of Earth orientation parameters for the
// static single-entry constructor. Angular values are radians, time values
// seconds.
type Values struct {
	MJD    int
	PolarX float64
	PolarY float64
	UT1UTC float64
	DX     float64
	DY     float64
	LOD    float64
}

// FromValues builds a one-entry table with hold semantics: every date at or
// after the entry answers with the stored values. Dates before the entry
// report a gap, since there is nothing to hold backwards.
func FromValues(v Values) *Table {
	rec := Record{
		MJD:    v.MJD,
		PolarX: v.PolarX,
		PolarY: v.PolarY,
		UT1UTC: v.UT1UTC,
		DX:     ptr(v.DX),
		DY:     ptr(v.DY),
		LOD:    ptr(v.LOD),
	}
	t, err := newTable([]Record{rec}, SourceStatic, ExtrapolateHold, false, telemetry.Noop())
	if err != nil {
		// A single record cannot be out of order.
		panic(err)
	}
	return t
}

// Zero builds a degenerate table that answers 0.0 for every parameter at
// every date.
func Zero() *Table {
	t, err := newTable(nil, SourceStatic, ExtrapolateZero, false, telemetry.Noop())
	if err != nil {
		panic(err)
	}
	return t
}
