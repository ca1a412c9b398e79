package session

import (
	"math"
	"time"
)

const (
	// DefaultTimeout is the largest gap between two page visits that still
	// belongs to one session.
	DefaultTimeout = 30 * time.Minute
	// DefaultMinSession is the duration floor applied to every session.
	DefaultMinSession = time.Minute
)

// Config holds the session windowing thresholds.
type Config struct {
	Timeout    time.Duration `yaml:"session_timeout" env:"SESSION_TIMEOUT"`
	MinSession time.Duration `yaml:"min_session" env:"MIN_SESSION"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{Timeout: DefaultTimeout, MinSession: DefaultMinSession}
}

// Session is a contiguous run of page visits by one actor. Sessions are
// derived on demand and never stored.
type Session struct {
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
	Visits   int           `json:"visits"`
}

// DurationMinutes returns the session duration in fractional minutes.
func (s Session) DurationMinutes() float64 {
	return s.Duration.Minutes()
}

// TotalMinutes sums session durations and rounds to whole minutes.
func TotalMinutes(sessions []Session) int {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	return int(math.Round(total.Minutes()))
}
