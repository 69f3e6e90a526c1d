package timescale

import "math"

// leapStep records the cumulative TAI-UTC offset valid from the given UTC
// day onward. The slice is ordered newest first and walked until the first
// step at or before the requested day.
type leapStep struct {
	mjd   int
	total float64
}

var leapSteps = []leapStep{
	{57754, 37}, // 2017-01-01
	{57204, 36}, // 2015-07-01
	{56109, 35}, // 2012-07-01
	{54832, 34}, // 2009-01-01
	{53736, 33}, // 2006-01-01
	{51179, 32}, // 1999-01-01
	{50630, 31}, // 1997-07-01
	{50083, 30}, // 1996-01-01
	{49534, 29}, // 1994-07-01
	{49169, 28}, // 1993-07-01
	{48804, 27}, // 1992-07-01
	{48257, 26}, // 1991-01-01
	{47892, 25}, // 1990-01-01
	{47161, 24}, // 1988-01-01
	{46247, 23}, // 1985-07-01
	{45516, 22}, // 1983-07-01
	{45151, 21}, // 1982-07-01
	{44786, 20}, // 1981-07-01
	{44239, 19}, // 1980-01-01
	{43874, 18}, // 1979-01-01
	{43509, 17}, // 1978-01-01
	{43144, 16}, // 1977-01-01
	{42778, 15}, // 1976-01-01
	{42413, 14}, // 1975-01-01
	{42048, 13}, // 1974-01-01
	{41683, 12}, // 1973-01-01
	{41499, 11}, // 1972-07-01
}

// taiMinusUTC1972 is the offset in force when the stepped UTC system
// started; dates before the first step fall back to it.
const taiMinusUTC1972 = 10.0

// LeapSeconds returns the cumulative TAI-UTC offset in seconds for the UTC
// calendar day containing the given MJD. The lookup is total: any date
// resolves to a value.
func LeapSeconds(mjd float64) float64 {
	day := int(math.Floor(mjd))
	for _, step := range leapSteps {
		if day >= step.mjd {
			return step.total
		}
	}
	return taiMinusUTC1972
}
