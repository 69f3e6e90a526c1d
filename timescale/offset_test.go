package timescale

import (
	"errors"
	"math"
	"testing"

	"github.com/orbitdet/eopkit/eop"
)

func staticTable(du float64) *eop.Table {
	return eop.FromValues(eop.Values{MJD: 50000, UT1UTC: du})
}

func TestOffsetIdentity(t *testing.T) {
	for _, scale := range Scales {
		offset, err := Offset(nil, scale, scale, 59569, 0.25)
		if err != nil {
			t.Fatalf("%s to itself: %v", scale, err)
		}
		if offset != 0 {
			t.Fatalf("%s to itself must be exactly zero, got %v", scale, offset)
		}
	}
}

func TestOffsetFixedConstants(t *testing.T) {
	cases := []struct {
		from, to Scale
		want     float64
	}{
		{GPS, TAI, 19.0},
		{TAI, GPS, -19.0},
		{TT, TAI, -32.184},
		{TAI, TT, 32.184},
		{GPS, TT, 19.0 + 32.184},
		{TT, GPS, -(19.0 + 32.184)},
	}
	for _, tc := range cases {
		offset, err := Offset(nil, tc.from, tc.to, 59569, 0.25)
		if err != nil {
			t.Fatalf("%s to %s: %v", tc.from, tc.to, err)
		}
		if offset != tc.want {
			t.Fatalf("%s to %s: expected %v, got %v", tc.from, tc.to, tc.want, offset)
		}
	}
}

func TestOffsetUTCLegUsesLeapSeconds(t *testing.T) {
	offset, err := Offset(nil, UTC, TAI, 59569, 0.25)
	if err != nil {
		t.Fatalf("utc to tai: %v", err)
	}
	if offset != 37 {
		t.Fatalf("expected 37 leap seconds in 2021, got %v", offset)
	}
	offset, err = Offset(nil, TAI, UTC, 59569, 0.25)
	if err != nil {
		t.Fatalf("tai to utc: %v", err)
	}
	if offset != -37 {
		t.Fatalf("expected -37, got %v", offset)
	}
}

func TestOffsetRefinementAcrossLeapBoundary(t *testing.T) {
	// A TAI instant 8.64 s after 2017-01-01T00:00 TAI still belongs to the
	// 2016-12-31 UTC day, so the 36 s offset applies even though the naive
	// day lookup lands on the 37 s step.
	offset, err := Offset(nil, TAI, UTC, 57754, 0.0001)
	if err != nil {
		t.Fatalf("tai to utc: %v", err)
	}
	if offset != -36 {
		t.Fatalf("expected refined offset -36 across the step, got %v", offset)
	}

	// Well after the step the 37 s offset holds.
	offset, err = Offset(nil, TAI, UTC, 57754, 0.5)
	if err != nil {
		t.Fatalf("tai to utc: %v", err)
	}
	if offset != -37 {
		t.Fatalf("expected -37 after the step, got %v", offset)
	}
}

func TestOffsetUT1RoundTrip(t *testing.T) {
	table := staticTable(-0.1)
	offset, err := Offset(table, UTC, UT1, 59569, 0.25)
	if err != nil {
		t.Fatalf("utc to ut1: %v", err)
	}
	if math.Abs(offset-(-0.1)) > 1e-9 {
		t.Fatalf("utc to ut1 must equal ut1-utc, got %v", offset)
	}
	offset, err = Offset(table, UT1, UTC, 59569, 0.25)
	if err != nil {
		t.Fatalf("ut1 to utc: %v", err)
	}
	if math.Abs(offset-0.1) > 1e-9 {
		t.Fatalf("ut1 to utc must equal utc-ut1, got %v", offset)
	}
}

func TestOffsetComposition(t *testing.T) {
	table := eop.FromDefaults(eop.ExtrapolateHold, true)
	day, frac := 59570.0, 0.25
	for _, a := range Scales {
		for _, b := range Scales {
			for _, c := range Scales {
				ab, err := Offset(table, a, b, day, frac)
				if err != nil {
					t.Fatalf("%s to %s: %v", a, b, err)
				}
				bc, err := Offset(table, b, c, day, frac)
				if err != nil {
					t.Fatalf("%s to %s: %v", b, c, err)
				}
				ac, err := Offset(table, a, c, day, frac)
				if err != nil {
					t.Fatalf("%s to %s: %v", a, c, err)
				}
				if math.Abs(ab+bc-ac) > 1e-6 {
					t.Fatalf("composition %s-%s-%s off by %v", a, b, c, ab+bc-ac)
				}
			}
		}
	}
}

func TestOffsetUT1RequiresTable(t *testing.T) {
	if _, err := Offset(nil, UT1, TAI, 59569, 0); !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
	if _, err := Offset(nil, TAI, UT1, 59569, 0); !errors.Is(err, ErrNoTable) {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
}

func TestOffsetPropagatesTableErrors(t *testing.T) {
	table := eop.FromDefaults(eop.ExtrapolateError, true)
	_, err := Offset(table, UT1, TAI, 70000, 0)
	var rangeErr *eop.OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected wrapped OutOfRangeError, got %v", err)
	}
}

func TestConvertFoldsOffsetIntoFraction(t *testing.T) {
	day, frac, err := Convert(nil, GPS, TAI, 59569, 0.5)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if day != 59569 {
		t.Fatalf("integer part must be preserved, got %v", day)
	}
	if math.Abs(frac-(0.5+19.0/86400.0)) > 1e-15 {
		t.Fatalf("unexpected fraction %v", frac)
	}
}
