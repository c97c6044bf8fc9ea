// internal/analytics/dates.go
package analytics

import (
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/width"

	"recruit-analytics/internal/models"
)

var (
	fullDatePattern  = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
	monthDayPattern  = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日`)
	fiscalRolloverAt = time.March
)

// DateParser turns free-text cells into calendar dates. Text without a year
// is placed in the recruiting season starting in ReferenceYear: January to
// March belong to the following calendar year.
type DateParser struct {
	ReferenceYear int
}

// ParseDate is shorthand for DateParser{ReferenceYear: referenceYear}.Parse(text).
func ParseDate(text string, referenceYear int) models.Date {
	return DateParser{ReferenceYear: referenceYear}.Parse(text)
}

// Parse never fails: anything that is not a recognisable, real calendar date
// yields models.NoDate.
func (p DateParser) Parse(text string) models.Date {
	if text == "" {
		return models.NoDate
	}
	text = width.Narrow.String(text)

	if m := fullDatePattern.FindStringSubmatch(text); m != nil {
		return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		month := atoi(m[1])
		year := p.ReferenceYear
		if month >= 1 && month <= int(fiscalRolloverAt) {
			year++
		}
		return calendarDate(year, month, atoi(m[2]))
	}

	return models.NoDate
}

// calendarDate rejects values that time.Date would silently normalise
// (2025/2/30 becoming March 2nd).
func calendarDate(year, month, day int) models.Date {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return models.NoDate
	}
	d := models.NewDate(year, time.Month(month), day)
	if d.Time.Year() != year || int(d.Time.Month()) != month || d.Time.Day() != day {
		return models.NoDate
	}
	return d
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// wallClock reinterprets now's local wall time as UTC so it compares with
// the naive dates of the roster.
func wallClock(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}

// ElapsedDays is the whole number of days from d to now, rounded down.
// It is negative for dates in the future.
func ElapsedDays(now time.Time, d models.Date) int {
	hours := wallClock(now).Sub(d.Time).Hours()
	days := int(hours / 24)
	if hours < 0 && float64(days)*24 != hours {
		days--
	}
	return days
}

// isPast reports whether d lies strictly before now.
func isPast(now time.Time, d models.Date) bool {
	return d.Valid && d.Time.Before(wallClock(now))
}

// isUpcoming reports whether d lies in [now, now+days]. It never overlaps isPast.
func isUpcoming(now time.Time, d models.Date, days int) bool {
	wall := wallClock(now)
	return d.Valid && !d.Time.Before(wall) && !d.Time.After(wall.AddDate(0, 0, days))
}
