package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/metrics"
)

// ActivityService defines activity log operations needed by MCP.
type ActivityService interface {
	LogActivity(ctx context.Context, req activity.LogRequest) string
	GetActorEvents(ctx context.Context, actorID string, pageSize int, cursor string) activity.Page
	GetProjectEvents(ctx context.Context, projectID string, pageSize int, cursor string) activity.Page
}

// MetricsService defines engagement metrics operations needed by MCP.
type MetricsService interface {
	GetUserActivityMetrics(ctx context.Context, actorID string, tf metrics.Timeframe) metrics.Snapshot
	GetTeamActivitySummary(ctx context.Context, actorIDs []string, tf metrics.Timeframe) []metrics.ActorMetrics
}

// Method names shared by the MCP tools and the JSON-RPC endpoint.
const (
	MethodLogActivity            = "log_activity"
	MethodGetActorEvents         = "get_actor_events"
	MethodGetProjectEvents       = "get_project_events"
	MethodGetUserActivityMetrics = "get_user_activity_metrics"
	MethodGetTeamActivitySummary = "get_team_activity_summary"
	MethodListEventTypes         = "list_event_types"
)

// Handler dispatches MCP commands.
type Handler struct {
	activity ActivityService
	metrics  MetricsService
	logger   *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(activitySvc ActivityService, metricsSvc MetricsService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		activity: activitySvc,
		metrics:  metricsSvc,
		logger:   logger,
	}
}

// Handle dispatches a JSON-RPC method to the matching operation.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case MethodLogActivity:
		var req LogActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.LogActivity(ctx, req)
	case MethodGetActorEvents:
		var req GetActorEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetActorEvents(ctx, req)
	case MethodGetProjectEvents:
		var req GetProjectEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetProjectEvents(ctx, req)
	case MethodGetUserActivityMetrics:
		var req GetUserActivityMetricsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetUserActivityMetrics(ctx, req)
	case MethodGetTeamActivitySummary:
		var req GetTeamActivitySummaryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetTeamActivitySummary(ctx, req)
	case MethodListEventTypes:
		return h.ListEventTypes(), nil
	default:
		return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", method)}
	}
}

// LogActivity records an event. A dropped event yields a null event_id, never
// an error.
func (h *Handler) LogActivity(ctx context.Context, req LogActivityParams) (LogActivityResult, error) {
	typ, err := activity.ParseEventType(req.Type)
	if err != nil {
		// Pass the raw value through so the service records the rejection.
		typ = activity.EventType(req.Type)
	}

	var detail activity.Detail
	if typ.Valid() {
		detail, err = activity.DetailFromMap(typ, req.Detail)
		if err != nil {
			h.logger.Warn("activity dropped", "actor_id", req.ActorID, "type", typ, "error", err)
			return LogActivityResult{}, nil
		}
	}

	id := h.activity.LogActivity(ctx, activity.LogRequest{
		ActorID:   req.ActorID,
		Type:      typ,
		Detail:    detail,
		ProjectID: req.ProjectID,
	})
	if id == "" {
		return LogActivityResult{}, nil
	}
	return LogActivityResult{EventID: &id}, nil
}

func (h *Handler) GetActorEvents(ctx context.Context, req GetActorEventsParams) (PageResponse, error) {
	return toPageResponse(h.activity.GetActorEvents(ctx, req.ActorID, req.PageSize, req.Cursor)), nil
}

func (h *Handler) GetProjectEvents(ctx context.Context, req GetProjectEventsParams) (PageResponse, error) {
	return toPageResponse(h.activity.GetProjectEvents(ctx, req.ProjectID, req.PageSize, req.Cursor)), nil
}

// GetUserActivityMetrics rejects a malformed timeframe; everything else
// degrades to a zeroed snapshot inside the service.
func (h *Handler) GetUserActivityMetrics(ctx context.Context, req GetUserActivityMetricsParams) (SnapshotResponse, error) {
	tf, err := metrics.ParseTimeframe(req.Timeframe)
	if err != nil {
		return SnapshotResponse{}, invalidTimeframe(req.Timeframe, err)
	}
	return toSnapshotResponse(h.metrics.GetUserActivityMetrics(ctx, req.ActorID, tf)), nil
}

func (h *Handler) GetTeamActivitySummary(ctx context.Context, req GetTeamActivitySummaryParams) (TeamSummaryResponse, error) {
	tf, err := metrics.ParseTimeframe(req.Timeframe)
	if err != nil {
		return TeamSummaryResponse{}, invalidTimeframe(req.Timeframe, err)
	}
	summary := h.metrics.GetTeamActivitySummary(ctx, req.ActorIDs, tf)
	resp := TeamSummaryResponse{Actors: make([]ActorMetricsResponse, 0, len(summary))}
	for _, entry := range summary {
		resp.Actors = append(resp.Actors, ActorMetricsResponse{
			ActorID: entry.ActorID,
			Metrics: toSnapshotResponse(entry.Metrics),
		})
	}
	return resp, nil
}

func (h *Handler) ListEventTypes() EventTypesResponse {
	types := activity.EventTypes()
	resp := EventTypesResponse{Types: make([]EventTypeInfo, 0, len(types))}
	for _, typ := range types {
		resp.Types = append(resp.Types, EventTypeInfo{Type: string(typ), DetailKind: string(typ.DetailKind())})
	}
	return resp
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return nil
}
