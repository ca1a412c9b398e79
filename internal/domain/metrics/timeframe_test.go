package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("")
	require.NoError(t, err)
	require.Equal(t, TimeframeWeek, tf)

	tf, err = ParseTimeframe(" Month ")
	require.NoError(t, err)
	require.Equal(t, TimeframeMonth, tf)

	_, err = ParseTimeframe("year")
	require.ErrorIs(t, err, ErrInvalidTimeframe)
}

func TestWindow(t *testing.T) {
	// Wednesday.
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		tf    Timeframe
		now   time.Time
		start time.Time
	}{
		{name: "day", tf: TimeframeDay, now: now, start: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
		{name: "week starts sunday", tf: TimeframeWeek, now: now, start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "week crosses month", tf: TimeframeWeek, now: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC), start: time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC)},
		{name: "week on sunday", tf: TimeframeWeek, now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "month", tf: TimeframeMonth, now: now, start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Window(tt.tf, tt.now, nil)
			require.NoError(t, err)
			require.True(t, tt.start.Equal(start), "start %s, want %s", start, tt.start)
			require.True(t, tt.now.Equal(end))
		})
	}

	_, _, err := Window("year", now, time.UTC)
	require.ErrorIs(t, err, ErrInvalidTimeframe)
}

func TestWindow_UsesLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 22:00 on March 3 in EST.
	now := time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC)

	start, _, err := Window(TimeframeDay, now, est)
	require.NoError(t, err)
	require.True(t, time.Date(2026, 3, 3, 0, 0, 0, 0, est).Equal(start))

	start, _, err = Window(TimeframeDay, now, time.UTC)
	require.NoError(t, err)
	require.True(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC).Equal(start))
}
