// Package dates parses the day expressions accepted by date flags.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the day format the API expects for trends and search.
const Layout = "2006-01-02"

// Matches: "3d ago", "2w ago", "1mo ago", "3d"
var agoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d)(\s*ago)?$`)

// Parse resolves a day relative to now. Every expression looks backwards:
// "monday" is the most recent Monday, "last fri" the one before today.
// Supports: "today", "yesterday", "3d ago", "2w", "1mo ago", weekday names,
// yyyy-mm-dd and RFC3339. The result is the start of that day in now's zone.
func Parse(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if m := agoRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, fmt.Errorf("invalid relative date %q", raw)
		}
		day := startOfDay(now)
		switch m[2] {
		case "mo":
			return day.AddDate(0, -n, 0), nil
		case "w":
			return day.AddDate(0, 0, -7*n), nil
		default:
			return day.AddDate(0, 0, -n), nil
		}
	}

	if t, err := time.ParseInLocation(Layout, raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return startOfDay(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use yyyy-mm-dd, today, yesterday, a weekday or Nd ago", raw)
}

// Format renders t in Layout, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	input := expr
	last := false
	if rest, ok := strings.CutPrefix(input, "last "); ok {
		last = true
		input = strings.TrimSpace(rest)
	}
	weekday, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}
	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if last && delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}
