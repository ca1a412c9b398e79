package metrics

import (
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
)

// Snapshot is the per-actor metrics for one timeframe window. Snapshots are
// computed on demand and never stored.
type Snapshot struct {
	ActorID     string                     `json:"actor_id"`
	Timeframe   Timeframe                  `json:"timeframe"`
	WindowStart time.Time                  `json:"window_start"`
	WindowEnd   time.Time                  `json:"window_end"`
	TotalEvents int                        `json:"total_events"`
	ByType      map[activity.EventType]int `json:"by_type"`

	TasksCompleted      int `json:"tasks_completed"`
	MilestonesCompleted int `json:"milestones_completed"`
	CommentsAdded       int `json:"comments_added"`
	DocumentsUploaded   int `json:"documents_uploaded"`
	// TimeSpentInSystem is whole minutes across reconstructed sessions.
	TimeSpentInSystem int `json:"time_spent_in_system"`
	PagesVisited      int `json:"pages_visited"`
	Sessions          int `json:"sessions"`
	ActivityScore     int `json:"activity_score"`
}

// ActorMetrics pairs an actor with its snapshot in a team summary.
type ActorMetrics struct {
	ActorID string   `json:"actor_id"`
	Metrics Snapshot `json:"metrics"`
}

func emptySnapshot(actorID string, tf Timeframe) Snapshot {
	return Snapshot{
		ActorID:   actorID,
		Timeframe: tf,
		ByType:    map[activity.EventType]int{},
	}
}
