package core

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// absoluteLayouts are the accepted absolute date-time literals. Layouts
// without an offset are read as UTC.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// relativePattern matches an integer immediately followed by a single unit
// letter: minutes, hours or days.
var relativePattern = regexp.MustCompile(`^(\d+)([mhd])$`)

// ResolveScheduleTime converts a schedule expression into an absolute UTC
// instant. Absolute literals are parsed as-is; relative expressions such as
// "30m", "2h" or "1d" resolve to now plus the duration. An instant in the
// past is accepted: the dispatcher treats it as "send on the next sweep".
func ResolveScheduleTime(expr string, now time.Time) (time.Time, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, expr); err == nil {
			return t.UTC(), nil
		}
	}

	m := relativePattern.FindStringSubmatch(expr)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidScheduleExpression, expr)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidScheduleExpression, expr)
	}

	var d time.Duration
	switch m[2] {
	case "m":
		d = time.Duration(value) * time.Minute
	case "h":
		d = time.Duration(value) * time.Hour
	case "d":
		d = time.Duration(value) * 24 * time.Hour
	}

	return now.UTC().Add(d), nil
}
