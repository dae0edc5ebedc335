package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadClockToken marks a time token that is not a valid wall-clock time.
var ErrBadClockToken = errors.New("bad clock token")

// ParseClock parses a wall-clock token: either four digits ("1430") or
// colon-delimited ("14:30", "9:05"). Hours above 23 and minutes above 59
// are rejected.
func ParseClock(token string) (hour, minute int, err error) {
	token = strings.TrimSpace(token)

	if len(token) == 4 && isDigits(token) {
		hour, _ = strconv.Atoi(token[:2])
		minute, _ = strconv.Atoi(token[2:])
		if hour > 23 || minute > 59 {
			return 0, 0, fmt.Errorf("%w: %q out of range", ErrBadClockToken, token)
		}
		return hour, minute, nil
	}

	if h, m, ok := strings.Cut(token, ":"); ok {
		if (len(h) == 1 || len(h) == 2) && isDigits(h) && len(m) == 2 && isDigits(m) {
			hour, _ = strconv.Atoi(h)
			minute, _ = strconv.Atoi(m)
			if hour <= 23 && minute <= 59 {
				return hour, minute, nil
			}
		}
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrBadClockToken, token)
	}

	return 0, 0, fmt.Errorf("%w: %q", ErrBadClockToken, token)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AnchorToday binds a wall-clock time to now's calendar day in now's
// location, with seconds and below zeroed.
func AnchorToday(hour, minute int, now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
}

// ExplicitRespawn interprets anchor as a stated respawn time. A time at or
// before now means the next occurrence of that clock time, tomorrow. The
// result is always strictly after now.
func ExplicitRespawn(anchor, now time.Time) time.Time {
	if !anchor.After(now) {
		return anchor.AddDate(0, 0, 1)
	}
	return anchor
}

// DeathRespawn interprets anchor as the death instant and returns the next
// respawn strictly after now, a whole number of periods after the death.
//
// Operators often register a death hours late, past local midnight, so an
// anchor more than futureThreshold ahead of now is taken to be yesterday's
// clock time and pulled back one day before the period math runs.
func DeathRespawn(anchor, now time.Time, period, futureThreshold time.Duration) time.Time {
	if anchor.Sub(now) > futureThreshold {
		anchor = anchor.AddDate(0, 0, -1)
	}
	respawn := anchor.Add(period)
	for !respawn.After(now) {
		respawn = respawn.Add(period)
	}
	return respawn
}
