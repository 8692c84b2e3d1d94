package tree

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"
)

// Display tokens for dates that carry no printable value. Locale string
// tables upstream map them to translated labels.
const (
	DisplayUnknown = "unknown"
	DisplayLiving  = "living"
)

var (
	bareYearPattern = regexp.MustCompile(`^\d{4}$`)
	calendarPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// FormatBirthDate renders a birth date for display. nil and "" both mean
// the date is unknown.
func FormatBirthDate(date *string) string {
	if date == nil || *date == "" {
		return DisplayUnknown
	}
	return formatKnownDate(*date)
}

// FormatDeathDate renders a death date for display. nil means unknown, but
// the empty string specifically means the person is living. The asymmetry
// with FormatBirthDate is intentional and must not be normalized away.
func FormatDeathDate(date *string) string {
	if date == nil {
		return DisplayUnknown
	}
	if *date == "" {
		return DisplayLiving
	}
	return formatKnownDate(*date)
}

func formatKnownDate(date string) string {
	if bareYearPattern.MatchString(date) {
		return date
	}
	if calendarPattern.MatchString(date) {
		if t, err := dateparse.ParseIn(date, time.UTC); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	// free text such as "circa 1800" passes through verbatim
	return date
}
