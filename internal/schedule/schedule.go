package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ReferenceZone is the fixed UTC+9 offset schedules are read and compared in.
var ReferenceZone = time.FixedZone("JST", 9*60*60)

// ErrInvalidScheduleFormat is returned when a schedule matches no accepted shape.
var ErrInvalidScheduleFormat = errors.New("invalid schedule format")

const dateLayout = "2006-01-02"

// Loose local form: "YYYY-MM-DD" or "YYYY-MM-DD HH:MM", no zone marker.
var loosePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:\s+(\d{2}):(\d{2}))?$`)

var plainDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ISO-8601 layouts, extended (+09:00), basic (+0900) and hour-only (+09)
// offsets; the zone-less ones are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// Date is a calendar date (YYYY-MM-DD) in ReferenceZone.
type Date string

func (d Date) String() string { return string(d) }

// DateOf returns the calendar date of t in ReferenceZone.
func DateOf(t time.Time) Date {
	return Date(t.In(ReferenceZone).Format(dateLayout))
}

func invalid(value string) error {
	return fmt.Errorf("%w: %q (expected \"YYYY-MM-DD HH:MM\" in UTC+9 or ISO 8601)", ErrInvalidScheduleFormat, value)
}

type looseValue struct {
	date         time.Time
	hour, minute int
}

func parseLoose(value string) (looseValue, bool) {
	m := loosePattern.FindStringSubmatch(value)
	if m == nil {
		return looseValue{}, false
	}
	d, err := time.ParseInLocation(dateLayout, m[1], ReferenceZone)
	if err != nil {
		return looseValue{}, false
	}
	out := looseValue{date: d}
	if m[2] != "" {
		out.hour, _ = strconv.Atoi(m[2])
		out.minute, _ = strconv.Atoi(m[3])
		if out.hour > 23 || out.minute > 59 {
			return looseValue{}, false
		}
	}
	return out, true
}

func parseISO(value string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate extracts the calendar date of an untrusted schedule string.
// A loose local value is taken as already being in ReferenceZone; an ISO
// value is an absolute instant converted into ReferenceZone first.
func NormalizeDate(value string) (Date, error) {
	s := strings.TrimSpace(value)
	if l, ok := parseLoose(s); ok {
		return Date(l.date.Format(dateLayout)), nil
	}
	if t, ok := parseISO(s); ok {
		return DateOf(t), nil
	}
	return "", invalid(value)
}

// RemoteDate is the permissive variant for timestamps reported by the
// scheduling service: values that do not parse fall back to their first
// ten characters.
func RemoteDate(s string) Date {
	if d, err := NormalizeDate(s); err == nil {
		return d
	}
	if len(s) > len(dateLayout) {
		return Date(s[:len(dateLayout)])
	}
	return Date(s)
}

// ParseDate accepts exactly YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	if !plainDate.MatchString(s) {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidScheduleFormat, s)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q is not a calendar date", ErrInvalidScheduleFormat, s)
	}
	return Date(s), nil
}

// ParseInstant resolves a schedule to the instant a post should go out.
// Loose local values are wall clock times in ReferenceZone; a date without a
// clock means midnight there (15:00 UTC the day before).
func ParseInstant(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if t, ok := parseISO(s); ok {
		return t, nil
	}
	if l, ok := parseLoose(s); ok {
		return l.date.Add(time.Duration(l.hour)*time.Hour + time.Duration(l.minute)*time.Minute), nil
	}
	return time.Time{}, invalid(value)
}

// FormatLocal renders t in ReferenceZone for human output.
func FormatLocal(t time.Time) string {
	return t.In(ReferenceZone).Format("2006/01/02 15:04:05") + " JST"
}
