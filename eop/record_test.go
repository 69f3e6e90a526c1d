package eop

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type column struct {
	lo, hi int
	value  string
}

// buildLine right-aligns each value into its half-open column range on a
// blank line of the given width.
func buildLine(t *testing.T, width int, cols ...column) string {
	t.Helper()
	buf := []byte(strings.Repeat(" ", width))
	for _, c := range cols {
		if len(c.value) > c.hi-c.lo {
			t.Fatalf("value %q does not fit columns [%d,%d)", c.value, c.lo, c.hi)
		}
		copy(buf[c.hi-len(c.value):c.hi], c.value)
	}
	return string(buf)
}

func bulletinALine(t *testing.T, mjd int, px, py, du float64, lod, dx, dy *float64) string {
	t.Helper()
	cols := []column{
		{6, 12, fmt.Sprintf("%d.", mjd)},
		{17, 27, fmt.Sprintf("%.6f", px)},
		{37, 46, fmt.Sprintf("%.6f", py)},
		{58, 68, fmt.Sprintf("%.7f", du)},
	}
	if lod != nil {
		cols = append(cols, column{78, 86, fmt.Sprintf("%.5f", *lod)})
	}
	if dx != nil {
		cols = append(cols, column{97, 106, fmt.Sprintf("%.6f", *dx)})
	}
	if dy != nil {
		cols = append(cols, column{116, 125, fmt.Sprintf("%.6f", *dy)})
	}
	return buildLine(t, 125, cols...)
}

func bulletinBLine(t *testing.T, mjd int, px, py, du, dx, dy float64) string {
	t.Helper()
	return buildLine(t, 185,
		column{6, 12, fmt.Sprintf("%d.", mjd)},
		column{134, 144, fmt.Sprintf("%.6f", px)},
		column{144, 154, fmt.Sprintf("%.6f", py)},
		column{154, 165, fmt.Sprintf("%.7f", du)},
		column{165, 175, fmt.Sprintf("%.6f", dx)},
		column{175, 185, fmt.Sprintf("%.6f", dy)},
	)
}

func longTermLine(t *testing.T, mjd int, px, py, du, lod, dx, dy float64) string {
	t.Helper()
	return buildLine(t, 87,
		column{0, 4, "2021"},
		column{4, 8, "12"},
		column{8, 12, "21"},
		column{12, 19, fmt.Sprintf("%d", mjd)},
		column{19, 30, fmt.Sprintf("%.6f", px)},
		column{30, 41, fmt.Sprintf("%.6f", py)},
		column{41, 53, fmt.Sprintf("%.7f", du)},
		column{53, 65, fmt.Sprintf("%.7f", lod)},
		column{65, 76, fmt.Sprintf("%.6f", dx)},
		column{76, 87, fmt.Sprintf("%.6f", dy)},
	)
}

func TestParseBulletinAAllFields(t *testing.T) {
	lod, dx, dy := 0.00055, 0.000266, -0.000108
	line := bulletinALine(t, 59569, 0.055108, 0.278170, -0.1079838, &lod, &dx, &dy)
	rec, err := parseLine(SourceBulletinA, line, 1)
	if err != nil {
		t.Fatalf("parse bulletin A: %v", err)
	}
	if rec.MJD != 59569 {
		t.Fatalf("expected mjd 59569, got %d", rec.MJD)
	}
	// A float64 variable keeps the expected products at runtime precision;
	// constant folding would round once instead of twice and land one ulp off.
	scale := float64(ArcsecToRad)
	if rec.PolarX != 0.055108*scale {
		t.Fatalf("pm_x not scaled to radians: %v", rec.PolarX)
	}
	if rec.PolarY != 0.278170*scale {
		t.Fatalf("pm_y not scaled to radians: %v", rec.PolarY)
	}
	if rec.UT1UTC != -0.1079838 {
		t.Fatalf("expected ut1_utc -0.1079838, got %v", rec.UT1UTC)
	}
	if rec.LOD == nil || *rec.LOD != 0.00055 {
		t.Fatalf("unexpected lod: %v", rec.LOD)
	}
	if rec.DX == nil || *rec.DX != 0.000266*scale {
		t.Fatalf("unexpected dx: %v", rec.DX)
	}
	if rec.DY == nil || *rec.DY != -0.000108*scale {
		t.Fatalf("unexpected dy: %v", rec.DY)
	}
}

func TestParseBulletinAOptionalFieldsAbsent(t *testing.T) {
	line := bulletinALine(t, 59569, 0.055108, 0.278170, -0.1079838, nil, nil, nil)
	rec, err := parseLine(SourceBulletinA, line, 1)
	if err != nil {
		t.Fatalf("parse bulletin A without optionals: %v", err)
	}
	if rec.LOD != nil || rec.DX != nil || rec.DY != nil {
		t.Fatalf("expected absent optional fields, got lod=%v dx=%v dy=%v", rec.LOD, rec.DX, rec.DY)
	}
}

func TestParseBulletinAIndependentOptionals(t *testing.T) {
	dx := 0.000266
	line := bulletinALine(t, 59569, 0.055108, 0.278170, -0.1079838, nil, &dx, nil)
	rec, err := parseLine(SourceBulletinA, line, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rec.DX == nil {
		t.Fatalf("expected dx present")
	}
	if rec.DY != nil {
		t.Fatalf("expected dy absent")
	}
}

func TestParseBulletinShortLineFails(t *testing.T) {
	_, err := parseLine(SourceBulletinA, strings.Repeat(" ", 67), 3)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line != 3 {
		t.Fatalf("expected line 3 in error, got %d", parseErr.Line)
	}
}

func TestParseBulletinBadFieldReportsNameAndRaw(t *testing.T) {
	line := bulletinALine(t, 59569, 0.055108, 0.278170, -0.1079838, nil, nil, nil)
	corrupted := []byte(line)
	copy(corrupted[58:68], []byte("  bogus   "))
	_, err := parseLine(SourceBulletinA, string(corrupted), 7)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Field != "ut1_utc" {
		t.Fatalf("expected field ut1_utc, got %s", parseErr.Field)
	}
	if !strings.Contains(parseErr.Raw, "bogus") {
		t.Fatalf("expected raw substring in error, got %q", parseErr.Raw)
	}
}

func TestParseBulletinBFields(t *testing.T) {
	line := bulletinBLine(t, 59569, 0.055108, 0.278170, -0.1079838, 0.000266, -0.000108)
	rec, err := parseLine(SourceBulletinB, line, 1)
	if err != nil {
		t.Fatalf("parse bulletin B: %v", err)
	}
	if rec.UT1UTC != -0.1079838 {
		t.Fatalf("expected ut1_utc -0.1079838, got %v", rec.UT1UTC)
	}
	if rec.LOD != nil {
		t.Fatalf("variant B must never report lod")
	}
	if rec.DX == nil || rec.DY == nil {
		t.Fatalf("variant B must always report dx/dy")
	}
}

func TestParseLongTermLine(t *testing.T) {
	line := longTermLine(t, 59569, 0.055108, 0.278170, -0.1079838, 0.0005436, 0.000266, -0.000108)
	rec, err := parseLine(SourceLongTerm, line, 15)
	if err != nil {
		t.Fatalf("parse long-term: %v", err)
	}
	if rec.MJD != 59569 {
		t.Fatalf("expected mjd 59569, got %d", rec.MJD)
	}
	if rec.LOD == nil || *rec.LOD != 0.0005436 {
		t.Fatalf("unexpected lod: %v", rec.LOD)
	}
	if rec.DX == nil || rec.DY == nil {
		t.Fatalf("long-term format carries mandatory dx/dy")
	}
}

func TestParseLongTermTruncatedLineFails(t *testing.T) {
	line := longTermLine(t, 59569, 0.055108, 0.278170, -0.1079838, 0.0005436, 0.000266, -0.000108)
	_, err := parseLine(SourceLongTerm, line[:60], 15)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
