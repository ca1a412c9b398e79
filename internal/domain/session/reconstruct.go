package session

import (
	"slices"
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
)

// Reconstructor splits page-visit streams into sessions.
type Reconstructor struct {
	cfg Config
}

// NewReconstructor creates a reconstructor. Zero thresholds fall back to the defaults.
func NewReconstructor(cfg Config) *Reconstructor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinSession <= 0 {
		cfg.MinSession = DefaultMinSession
	}
	return &Reconstructor{cfg: cfg}
}

// Config returns the effective thresholds.
func (r *Reconstructor) Config() Config {
	return r.cfg
}

// Sessions groups the page-visit events of one actor into sessions. Events
// of other types are ignored. Input order does not matter: visits are sorted
// by ClientTimestamp (then OrderingKey) before windowing.
func (r *Reconstructor) Sessions(events []activity.Event) []Session {
	stamps := make([]visit, 0, len(events))
	for _, ev := range events {
		if ev.Type != activity.TypePageVisit {
			continue
		}
		stamps = append(stamps, visit{at: ev.ClientTimestamp, key: ev.OrderingKey})
	}
	if len(stamps) == 0 {
		return nil
	}
	slices.SortStableFunc(stamps, func(a, b visit) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	var sessions []Session
	start, lastSeen, count := stamps[0].at, stamps[0].at, 1
	for _, v := range stamps[1:] {
		if v.at.Sub(lastSeen) <= r.cfg.Timeout {
			lastSeen = v.at
			count++
			continue
		}
		sessions = append(sessions, r.close(start, lastSeen, count))
		start, lastSeen, count = v.at, v.at, 1
	}
	return append(sessions, r.close(start, lastSeen, count))
}

func (r *Reconstructor) close(start, end time.Time, visits int) Session {
	return Session{
		Start:    start,
		End:      end,
		Duration: max(r.cfg.MinSession, end.Sub(start)),
		Visits:   visits,
	}
}

type visit struct {
	at  time.Time
	key int64
}
