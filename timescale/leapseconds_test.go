package timescale

import "testing"

func TestLeapSecondsSteps(t *testing.T) {
	cases := []struct {
		mjd  float64
		want float64
	}{
		{41498.9, 10}, // before the stepped system
		{41499.0, 11}, // 1972-07-01
		{41683.5, 12}, // 1973-01-01
		{44239.0, 19}, // 1980-01-01, GPS epoch era
		{57203.9, 35}, // just before 2015-07-01
		{57204.0, 36}, // 2015-07-01
		{57753.999, 36},
		{57754.0, 37}, // 2017-01-01
		{59569.25, 37},
		{70000.0, 37}, // open-ended last step
	}
	for _, tc := range cases {
		if got := LeapSeconds(tc.mjd); got != tc.want {
			t.Fatalf("mjd %v: expected %v leap seconds, got %v", tc.mjd, tc.want, got)
		}
	}
}

func TestLeapSecondsFractionalDaysShareTheDay(t *testing.T) {
	if LeapSeconds(57754.0) != LeapSeconds(57754.999) {
		t.Fatalf("every instant of a UTC day shares the day's offset")
	}
}
