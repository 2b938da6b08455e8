// Package clock turns stored (date, time-of-day) pairs into instants and
// compares them against now.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock returns the current time. Services take one so tests can pin now.
type Clock func() time.Time

// System is the wall clock.
func System() time.Time { return time.Now() }

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])?$`)

// ParseTimeOfDay accepts "HH:mm" or "h:mm AM/PM".
func ParseTimeOfDay(s string) (hour, minute int, ok bool) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if minute > 59 {
		return 0, 0, false
	}

	switch strings.ToUpper(m[3]) {
	case "":
		if hour > 23 {
			return 0, 0, false
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour != 12 {
			hour += 12
		}
	}
	return hour, minute, true
}

// NormalizeTimeValue returns the canonical 24-hour "HH:mm" form.
func NormalizeTimeValue(s string) (string, error) {
	h, m, ok := ParseTimeOfDay(s)
	if !ok {
		return "", fmt.Errorf("unrecognised time of day %q", s)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// FormatDisplayTime renders a time value as "hh:mm AM/PM". Unparsable input
// is returned unchanged.
func FormatDisplayTime(timeValue string) string {
	h, m, ok := ParseTimeOfDay(timeValue)
	if !ok {
		return timeValue
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix)
}

// CombineDateAndTime places timeString on date's calendar day in date's
// location. A missing or unparsable time yields 23:59:59 on that day.
func CombineDateAndTime(date time.Time, timeString string) time.Time {
	y, mo, d := date.Date()
	h, m, ok := ParseTimeOfDay(timeString)
	if !ok {
		return time.Date(y, mo, d, 23, 59, 59, 0, date.Location())
	}
	return time.Date(y, mo, d, h, m, 0, 0, date.Location())
}

// IsWithinWindow reports whether instant lies strictly between lower and
// upper ahead of now.
func IsWithinWindow(instant, now time.Time, lower, upper time.Duration) bool {
	until := instant.Sub(now)
	return until > lower && until < upper
}

// HasPassedWithBuffer reports whether instant is more than buffer behind now.
func HasPassedWithBuffer(instant, now time.Time, buffer time.Duration) bool {
	return now.Sub(instant) > buffer
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
