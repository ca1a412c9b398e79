package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodLogActivity,
		Description: "Record a user action in the activity log. Returns a null event_id when the event is dropped",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in LogActivityParams) (*sdkmcp.CallToolResult, LogActivityResult, error) {
		out, err := h.LogActivity(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodGetActorEvents,
		Description: "List an actor's events, newest first, one page at a time",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetActorEventsParams) (*sdkmcp.CallToolResult, PageResponse, error) {
		out, err := h.GetActorEvents(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodGetProjectEvents,
		Description: "List a project's events, newest first, one page at a time",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectEventsParams) (*sdkmcp.CallToolResult, PageResponse, error) {
		out, err := h.GetProjectEvents(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodGetUserActivityMetrics,
		Description: "Compute an actor's engagement metrics for the current day, week, or month",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetUserActivityMetricsParams) (*sdkmcp.CallToolResult, SnapshotResponse, error) {
		out, err := h.GetUserActivityMetrics(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodGetTeamActivitySummary,
		Description: "Compute engagement metrics for several actors, in input order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetTeamActivitySummaryParams) (*sdkmcp.CallToolResult, TeamSummaryResponse, error) {
		out, err := h.GetTeamActivitySummary(ctx, in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        MethodListEventTypes,
		Description: "List the accepted event types and the detail each carries",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListEventTypesParams) (*sdkmcp.CallToolResult, EventTypesResponse, error) {
		return nil, h.ListEventTypes(), nil
	})
}
