package mcp

import (
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/metrics"
)

type LogActivityParams struct {
	ActorID   string         `json:"actor_id" jsonschema:"ID of the user who performed the action"`
	Type      string         `json:"type" jsonschema:"Event type, see list_event_types"`
	Detail    map[string]any `json:"detail,omitempty" jsonschema:"Type-specific payload"`
	ProjectID string         `json:"project_id,omitempty" jsonschema:"Project the action belongs to"`
}

type LogActivityResult struct {
	// EventID is null when the event was dropped.
	EventID *string `json:"event_id"`
}

type GetActorEventsParams struct {
	ActorID  string `json:"actor_id" jsonschema:"Actor whose events to list"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"Events per page (default 20, max 100)"`
	Cursor   string `json:"cursor,omitempty" jsonschema:"Cursor from the previous page"`
}

type GetProjectEventsParams struct {
	ProjectID string `json:"project_id" jsonschema:"Project whose events to list"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Events per page (default 20, max 100)"`
	Cursor    string `json:"cursor,omitempty" jsonschema:"Cursor from the previous page"`
}

type GetUserActivityMetricsParams struct {
	ActorID   string `json:"actor_id" jsonschema:"Actor to compute metrics for"`
	Timeframe string `json:"timeframe,omitempty" jsonschema:"day, week, or month (default week)"`
}

type GetTeamActivitySummaryParams struct {
	ActorIDs  []string `json:"actor_ids" jsonschema:"Actors to summarize, in output order"`
	Timeframe string   `json:"timeframe,omitempty" jsonschema:"day, week, or month (default week)"`
}

type ListEventTypesParams struct{}

type EventResponse struct {
	ID              string         `json:"id"`
	ActorID         string         `json:"actor_id"`
	Type            string         `json:"type"`
	Detail          map[string]any `json:"detail,omitempty"`
	ProjectID       string         `json:"project_id,omitempty"`
	ClientTimestamp string         `json:"client_timestamp"`
}

type PageResponse struct {
	Events []EventResponse `json:"events"`
	// Cursor is null when the page is empty.
	Cursor  *string `json:"cursor"`
	HasMore bool    `json:"has_more"`
}

type SnapshotResponse struct {
	ActorID             string         `json:"actor_id"`
	Timeframe           string         `json:"timeframe"`
	WindowStart         string         `json:"window_start,omitempty"`
	WindowEnd           string         `json:"window_end,omitempty"`
	TotalEvents         int            `json:"total_events"`
	ByType              map[string]int `json:"by_type"`
	TasksCompleted      int            `json:"tasks_completed"`
	MilestonesCompleted int            `json:"milestones_completed"`
	CommentsAdded       int            `json:"comments_added"`
	DocumentsUploaded   int            `json:"documents_uploaded"`
	TimeSpentInSystem   int            `json:"time_spent_in_system"`
	PagesVisited        int            `json:"pages_visited"`
	Sessions            int            `json:"sessions"`
	ActivityScore       int            `json:"activity_score"`
}

type ActorMetricsResponse struct {
	ActorID string           `json:"actor_id"`
	Metrics SnapshotResponse `json:"metrics"`
}

type TeamSummaryResponse struct {
	Actors []ActorMetricsResponse `json:"actors"`
}

type EventTypeInfo struct {
	Type       string `json:"type"`
	DetailKind string `json:"detail_kind"`
}

type EventTypesResponse struct {
	Types []EventTypeInfo `json:"types"`
}

func toEventResponse(ev activity.Event) EventResponse {
	return EventResponse{
		ID:              ev.ID,
		ActorID:         ev.ActorID,
		Type:            string(ev.Type),
		Detail:          activity.DetailToMap(ev.Detail),
		ProjectID:       ev.ProjectID,
		ClientTimestamp: formatTime(ev.ClientTimestamp),
	}
}

func toPageResponse(page activity.Page) PageResponse {
	resp := PageResponse{
		Events:  make([]EventResponse, 0, len(page.Events)),
		HasMore: page.HasMore,
	}
	for _, ev := range page.Events {
		resp.Events = append(resp.Events, toEventResponse(ev))
	}
	if page.Cursor != "" {
		cursor := page.Cursor
		resp.Cursor = &cursor
	}
	return resp
}

func toSnapshotResponse(s metrics.Snapshot) SnapshotResponse {
	byType := make(map[string]int, len(s.ByType))
	for typ, n := range s.ByType {
		byType[string(typ)] = n
	}
	return SnapshotResponse{
		ActorID:             s.ActorID,
		Timeframe:           string(s.Timeframe),
		WindowStart:         formatTime(s.WindowStart),
		WindowEnd:           formatTime(s.WindowEnd),
		TotalEvents:         s.TotalEvents,
		ByType:              byType,
		TasksCompleted:      s.TasksCompleted,
		MilestonesCompleted: s.MilestonesCompleted,
		CommentsAdded:       s.CommentsAdded,
		DocumentsUploaded:   s.DocumentsUploaded,
		TimeSpentInSystem:   s.TimeSpentInSystem,
		PagesVisited:        s.PagesVisited,
		Sessions:            s.Sessions,
		ActivityScore:       s.ActivityScore,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
