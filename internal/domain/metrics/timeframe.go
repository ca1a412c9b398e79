package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe selects the calendar window metrics are computed over.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
)

// DefaultTimeframe applies when a caller omits the timeframe entirely.
const DefaultTimeframe = TimeframeWeek

// Valid reports whether tf is one of day, week, or month.
func (tf Timeframe) Valid() bool {
	switch tf {
	case TimeframeDay, TimeframeWeek, TimeframeMonth:
		return true
	}
	return false
}

// ParseTimeframe validates a caller supplied timeframe. An empty value selects
// DefaultTimeframe; anything else outside day|week|month is rejected.
func ParseTimeframe(raw string) (Timeframe, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeframe, nil
	}
	tf := Timeframe(strings.ToLower(raw))
	if !tf.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, raw)
	}
	return tf, nil
}

// Window resolves tf to the half-open range [start, now) in loc. Weeks start
// on Sunday.
func Window(tf Timeframe, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	y, m, d := local.Date()

	var start time.Time
	switch tf {
	case TimeframeDay:
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case TimeframeWeek:
		start = time.Date(y, m, d-int(local.Weekday()), 0, 0, 0, 0, loc)
	case TimeframeMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeframe, tf)
	}
	return start, local, nil
}
