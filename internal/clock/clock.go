// Package clock maintains the simulator's rolling wall-clock: a calendar day
// that advances whenever the tick time wraps back to 00:00.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"evcharge/internal/simerr"
)

// Clock tracks the current simulated timestamp one HH:MM tick at a time.
type Clock struct {
	date    time.Time // midnight of the current calendar day
	cur     time.Time // full timestamp of the last tick set
	hasPrev bool
}

// New creates a Clock starting on the given calendar day (time-of-day is
// ignored; the clock has no "current time" until the first SetHHMM call).
func New(startDate time.Time) *Clock {
	y, m, d := startDate.Date()
	return &Clock{date: time.Date(y, m, d, 0, 0, 0, 0, startDate.Location())}
}

// SetHHMM parses "H:MM" or "HH:MM", composes it with the current calendar
// day, and rolls the day over when the new value is exactly 00:00 and the
// previous tick was later in the day.
func (c *Clock) SetHHMM(s string) (time.Time, error) {
	h, m, err := parseHHMM(s)
	if err != nil {
		return time.Time{}, err
	}

	if h == 0 && m == 0 && c.hasPrev {
		prevMins := c.cur.Hour()*60 + c.cur.Minute()
		if prevMins > 0 {
			c.date = c.date.AddDate(0, 0, 1)
		}
	}

	next := time.Date(c.date.Year(), c.date.Month(), c.date.Day(), h, m, 0, 0, c.date.Location())
	c.cur = next
	c.hasPrev = true
	return next, nil
}

// Current returns the last timestamp set via SetHHMM.
func (c *Clock) Current() time.Time { return c.cur }

// FormatCurrent renders the current timestamp as "YYYY-MM-DD HH:MM".
func (c *Clock) FormatCurrent() string {
	return c.cur.Format("2006-01-02 15:04")
}

func parseHHMM(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, simerr.Input("BAD_TIME_FORMAT", fmt.Sprintf("invalid time %q, expected H:MM or HH:MM", s), nil)
	}
	h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil {
		return 0, 0, simerr.Input("BAD_TIME_FORMAT", fmt.Sprintf("invalid time %q", s), nil)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, simerr.Input("BAD_TIME_FORMAT", fmt.Sprintf("invalid time %q", s), nil)
	}
	return h, m, nil
}

// InWindow reports whether tMins (minutes since midnight) falls in
// [start, end) on a 24h clock, wrapping across midnight when start > end.
// Mirrors the schedule-window test used by the fault-window / high-demand
// configuration.
func InWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}

// MinutesSinceMidnight parses "HH:MM" into minutes-since-midnight, used for
// config-supplied window bounds (fault window, high-demand window).
func MinutesSinceMidnight(s string) (int, error) {
	h, m, err := parseHHMM(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}
