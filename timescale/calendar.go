package timescale

import "fmt"

// mjdJDNOffset converts between an MJD day number and the Julian day
// number of the noon inside that day.
const mjdJDNOffset = 2400001

// CivilFromMJD converts an MJD day number to its Gregorian calendar date.
func CivilFromMJD(mjd int) (year, month, day int) {
	jdn := mjd + mjdJDNOffset
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day = e - (153*m+2)/5 + 1
	month = m + 3 - 12*(m/10)
	year = 100*b + d - 4800 + m/10
	return year, month, day
}

// MJDFromCivil converts a Gregorian calendar date to its MJD day number.
func MJDFromCivil(year, month, day int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return 0, fmt.Errorf("day %d out of range", day)
	}
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	jdn := day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
	return jdn - mjdJDNOffset, nil
}
