package activity

import "time"

// ListOptions provides filtering options for listing events. Results are
// always ordered by OrderingKey descending.
type ListOptions struct {
	ActorID   string
	ProjectID string
	// Since and Until bound ClientTimestamp as [Since, Until). Zero values are open.
	Since time.Time
	Until time.Time
	// BeforeKey resumes a listing strictly after (older than) the given
	// ordering key. Zero starts from the newest event.
	BeforeKey int64
	Limit     int
}
