package eop

import "fmt"

// ParseError reports a line that could not be converted into a record.
//
// Field and Raw identify the offending column slice so malformed upstream
// files can be diagnosed without re-reading them by hand.
type ParseError struct {
	Line  int
	Field string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: field %s %q: %v", e.Line, e.Field, e.Raw, e.Err)
	}
	return fmt.Sprintf("line %d: field %s %q", e.Line, e.Field, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OutOfRangeError reports a lookup at or beyond a parameter's upper bound
// while the table runs under ExtrapolateError. The original design aborted
// the process here; callers of this implementation decide what a hard stop
// means for them.
type OutOfRangeError struct {
	Parameter string
	MJD       float64
	Bound     int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: mjd %.6f at or beyond table bound %d with extrapolation disabled", e.Parameter, e.MJD, e.Bound)
}

// GapError reports a missing table entry, or a missing optional value, at a
// day the interpolation step needs. The upstream products publish one row
// per day, so a gap means the source file itself is incomplete.
type GapError struct {
	Parameter string
	MJD       int
}

func (e *GapError) Error() string {
	return fmt.Sprintf("%s: missing table entry for mjd %d", e.Parameter, e.MJD)
}
