// Package model holds the domain entities the deserializer materializes
// from a parsed tape: dates, tags, ids, and the save's own data (§3).
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paradoxgg/eu4save/errs"
)

// epochYearOffset is the number of years between the binary date encoding's
// zero year and year 1 of the proleptic calendar it represents. Verified
// against the worked example (raw int32 0x038D9870 decodes to 1804.12.09).
const epochYearOffset = 5000

const hoursPerDay = 24

const daysPerYear = 365

// cumDaysBeforeMonth[m] is the day-of-year (0-based) of the first day of
// month m+1, ignoring leap years — the game calendar has none.
var cumDaysBeforeMonth = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is the (year, month, day) triple used throughout the save (§3
// Primitives). The zero value is not a valid date.
type Date struct {
	Year  int16
	Month uint8
	Day   uint8
}

// IsZero reports whether d is the unset Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as "Y.M.D", matching the text dialect's date literal.
func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmp(int(d.Year), int(other.Year))
	case d.Month != other.Month:
		return cmp(int(d.Month), int(other.Month))
	default:
		return cmp(int(d.Day), int(other.Day))
	}
}

// Before reports whether d sorts strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseDate parses a "Y.M.D" literal as produced by the text dialect and
// the melter. Whitespace is not tolerated.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Date{}, &errs.InvalidSyntaxError{Msg: "date must have 3 dot-separated components: " + s}
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, &errs.InvalidSyntaxError{Msg: "invalid date year: " + s}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, &errs.InvalidSyntaxError{Msg: "invalid date month: " + s}
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, &errs.InvalidSyntaxError{Msg: "invalid date day: " + s}
	}
	if month < 1 || month > 12 || day < 1 || day > daysInMonth[month] {
		return Date{}, &errs.InvalidSyntaxError{Msg: "date out of range: " + s}
	}

	return Date{Year: int16(year), Month: uint8(month), Day: uint8(day)}, nil
}

// daysSinceEpoch converts raw (hours since the epoch defined by
// epochYearOffset) into (yearIndex, dayOfYear), both 0-based. It does not
// validate the calendar.
func daysSinceEpoch(raw int32) (yearIndex, dayOfYear int) {
	days := int(raw) / hoursPerDay
	yearIndex = days / daysPerYear
	dayOfYear = days % daysPerYear

	return yearIndex, dayOfYear
}

// monthDayFromDayOfYear converts a 0-based day-of-year into a 1-based
// (month, day) pair.
func monthDayFromDayOfYear(dayOfYear int) (month, day int) {
	for m := 1; m <= 12; m++ {
		if dayOfYear < cumDaysBeforeMonth[m] {
			return m, dayOfYear - cumDaysBeforeMonth[m-1] + 1
		}
	}

	return 12, 31
}

// FromPackedInt32 decodes raw as a packed binary date unconditionally,
// without the plausibility checks FromBinaryHeuristic applies. Used when a
// key is known (by name or by explicit request) to hold a date.
func FromPackedInt32(raw int32) (Date, error) {
	if raw < 0 {
		return Date{}, &errs.InvalidDateError{Value: raw}
	}

	yearIndex, dayOfYear := daysSinceEpoch(raw)
	month, day := monthDayFromDayOfYear(dayOfYear)
	year := yearIndex - epochYearOffset

	return Date{Year: int16(year), Month: uint8(month), Day: uint8(day)}, nil
}

// FromBinaryHeuristic decodes raw the same way as FromPackedInt32 but only
// reports success when the result looks like a plausible game date: year
// in [1, 2000], month in [1, 12], and day legal for that month (§9
// "Heuristic safety"). Used to tell date fields apart from plain integers
// when the field name alone isn't decisive.
func FromBinaryHeuristic(raw int32) (Date, bool) {
	d, err := FromPackedInt32(raw)
	if err != nil {
		return Date{}, false
	}
	if d.Year < 1 || d.Year > 2000 {
		return Date{}, false
	}
	if d.Month < 1 || d.Month > 12 {
		return Date{}, false
	}
	if d.Day < 1 || int(d.Day) > daysInMonth[d.Month] {
		return Date{}, false
	}

	return d, true
}

// ToPackedInt32 encodes d using the same epoch as FromPackedInt32, the
// inverse used by tests and by any component re-emitting binary saves.
func ToPackedInt32(d Date) int32 {
	yearIndex := int(d.Year) + epochYearOffset
	dayOfYear := cumDaysBeforeMonth[d.Month-1] + int(d.Day-1)
	days := yearIndex*daysPerYear + dayOfYear

	return int32(days * hoursPerDay)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	yearIndex := int(d.Year) + epochYearOffset
	dayOfYear := cumDaysBeforeMonth[d.Month-1] + int(d.Day-1)
	total := yearIndex*daysPerYear + dayOfYear + n

	yearIndex = total / daysPerYear
	dayOfYear = total % daysPerYear
	if dayOfYear < 0 {
		yearIndex--
		dayOfYear += daysPerYear
	}

	month, day := monthDayFromDayOfYear(dayOfYear)

	return Date{Year: int16(yearIndex - epochYearOffset), Month: uint8(month), Day: uint8(day)}
}
