package eop

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ArcsecToRad converts published arc-second values into radians.
const ArcsecToRad = math.Pi / 180.0 / 3600.0

// MJDNever marks a per-field bound for a table that never carried a valid
// value of that field.
const MJDNever = -1

// SourceType identifies the external text format a table was built from.
type SourceType int

const (
	// SourceLongTerm is the fixed-width long-term product (14-line header,
	// seven mandatory columns per data row).
	SourceLongTerm SourceType = iota
	// SourceBulletinA is the rapid-bulletin layout read through the
	// variant-A column ranges.
	SourceBulletinA
	// SourceBulletinB is the same physical layout read through the
	// variant-B column ranges.
	SourceBulletinB
	// SourceStatic marks tables built from explicit in-memory values.
	SourceStatic
)

func (s SourceType) String() string {
	switch s {
	case SourceLongTerm:
		return "longterm"
	case SourceBulletinA:
		return "bulletin_a"
	case SourceBulletinB:
		return "bulletin_b"
	case SourceStatic:
		return "static"
	default:
		return "unknown"
	}
}

// Record is one normalized day of Earth orientation data. Angular values
// are radians, time values seconds. DX, DY and LOD are nil when the source
// format, or the particular era within it, does not report them.
type Record struct {
	MJD    int
	PolarX float64
	PolarY float64
	UT1UTC float64
	DX     *float64
	DY     *float64
	LOD    *float64
}

// bulletinMinLen is the shortest bulletin line that still carries the
// mandatory variant columns.
const bulletinMinLen = 68

// parseLine converts one data line of the given source format into a record.
func parseLine(src SourceType, line string, lineNo int) (Record, error) {
	switch src {
	case SourceLongTerm:
		return parseLongTermLine(line, lineNo)
	case SourceBulletinA, SourceBulletinB:
		return parseBulletinLine(src, line, lineNo)
	default:
		return Record{}, &ParseError{Line: lineNo, Field: "source", Raw: src.String()}
	}
}

// parseLongTermLine reads the long-term product columns. Every field is
// mandatory in this format.
func parseLongTermLine(line string, lineNo int) (Record, error) {
	mjd, err := parseIntField(line, 12, 19, "mjd", lineNo)
	if err != nil {
		return Record{}, err
	}
	px, err := parseFloatField(line, 19, 30, "pm_x", lineNo)
	if err != nil {
		return Record{}, err
	}
	py, err := parseFloatField(line, 30, 41, "pm_y", lineNo)
	if err != nil {
		return Record{}, err
	}
	du, err := parseFloatField(line, 41, 53, "ut1_utc", lineNo)
	if err != nil {
		return Record{}, err
	}
	lod, err := parseFloatField(line, 53, 65, "lod", lineNo)
	if err != nil {
		return Record{}, err
	}
	dx, err := parseFloatField(line, 65, 76, "dx", lineNo)
	if err != nil {
		return Record{}, err
	}
	dy, err := parseFloatField(line, 76, 87, "dy", lineNo)
	if err != nil {
		return Record{}, err
	}
	return Record{
		MJD:    mjd,
		PolarX: px * ArcsecToRad,
		PolarY: py * ArcsecToRad,
		UT1UTC: du,
		DX:     ptr(dx * ArcsecToRad),
		DY:     ptr(dy * ArcsecToRad),
		LOD:    ptr(lod),
	}, nil
}

// parseBulletinLine reads the rapid-bulletin layout. Variants A and B share
// one physical file but read disjoint column ranges; which optional fields
// may legitimately be absent differs between them.
func parseBulletinLine(src SourceType, line string, lineNo int) (Record, error) {
	if len(line) < bulletinMinLen {
		return Record{}, &ParseError{Line: lineNo, Field: "line", Raw: line, Err: errShortLine}
	}
	mjd, err := parseIntField(line, 6, 12, "mjd", lineNo)
	if err != nil {
		return Record{}, err
	}

	if src == SourceBulletinA {
		px, err := parseFloatField(line, 17, 27, "pm_x", lineNo)
		if err != nil {
			return Record{}, err
		}
		py, err := parseFloatField(line, 37, 46, "pm_y", lineNo)
		if err != nil {
			return Record{}, err
		}
		du, err := parseFloatField(line, 58, 68, "ut1_utc", lineNo)
		if err != nil {
			return Record{}, err
		}
		lod, err := parseOptionalField(line, 78, 86, "lod", lineNo)
		if err != nil {
			return Record{}, err
		}
		dx, err := parseOptionalField(line, 97, 106, "dx", lineNo)
		if err != nil {
			return Record{}, err
		}
		dy, err := parseOptionalField(line, 116, 125, "dy", lineNo)
		if err != nil {
			return Record{}, err
		}
		rec := Record{
			MJD:    mjd,
			PolarX: px * ArcsecToRad,
			PolarY: py * ArcsecToRad,
			UT1UTC: du,
			LOD:    lod,
		}
		if dx != nil {
			rec.DX = ptr(*dx * ArcsecToRad)
		}
		if dy != nil {
			rec.DY = ptr(*dy * ArcsecToRad)
		}
		return rec, nil
	}

	// Variant B. The format never reports LOD and always reports dX/dY.
	px, err := parseFloatField(line, 134, 144, "pm_x", lineNo)
	if err != nil {
		return Record{}, err
	}
	py, err := parseFloatField(line, 144, 154, "pm_y", lineNo)
	if err != nil {
		return Record{}, err
	}
	du, err := parseFloatField(line, 154, 165, "ut1_utc", lineNo)
	if err != nil {
		return Record{}, err
	}
	dx, err := parseFloatField(line, 165, 175, "dx", lineNo)
	if err != nil {
		return Record{}, err
	}
	dy, err := parseFloatField(line, 175, 185, "dy", lineNo)
	if err != nil {
		return Record{}, err
	}
	return Record{
		MJD:    mjd,
		PolarX: px * ArcsecToRad,
		PolarY: py * ArcsecToRad,
		UT1UTC: du,
		DX:     ptr(dx * ArcsecToRad),
		DY:     ptr(dy * ArcsecToRad),
	}, nil
}

var errShortLine = errors.New("line shorter than format minimum")

// slice cuts the half-open column range out of the line. The second return
// reports whether the line is long enough to contain the range at all.
func slice(line string, lo, hi int) (string, bool) {
	if len(line) < hi {
		return "", false
	}
	return line[lo:hi], true
}

func parseIntField(line string, lo, hi int, name string, lineNo int) (int, error) {
	raw, ok := slice(line, lo, hi)
	if !ok {
		return 0, &ParseError{Line: lineNo, Field: name, Raw: line, Err: errShortLine}
	}
	trimmed := strings.TrimSpace(raw)
	// Some products render the day key as "59569." with a trailing
	// fractional marker.
	trimmed = strings.TrimSuffix(trimmed, ".")
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		value64, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil {
			return 0, &ParseError{Line: lineNo, Field: name, Raw: raw, Err: err}
		}
		return int(math.Floor(value64)), nil
	}
	return value, nil
}

func parseFloatField(line string, lo, hi int, name string, lineNo int) (float64, error) {
	raw, ok := slice(line, lo, hi)
	if !ok {
		return 0, &ParseError{Line: lineNo, Field: name, Raw: line, Err: errShortLine}
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Line: lineNo, Field: name, Raw: raw, Err: err}
	}
	return value, nil
}

// parseOptionalField behaves like parseFloatField except that a short line
// or an all-blank slice yields nil rather than an error. A non-blank slice
// that fails to parse is still an error.
func parseOptionalField(line string, lo, hi int, name string, lineNo int) (*float64, error) {
	raw, ok := slice(line, lo, hi)
	if !ok {
		return nil, nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, &ParseError{Line: lineNo, Field: name, Raw: raw, Err: err}
	}
	return &value, nil
}

func ptr(v float64) *float64 {
	return &v
}
