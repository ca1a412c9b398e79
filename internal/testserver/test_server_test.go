package testserver_test

import (
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/config"
	"github.com/rpggio/cadence/internal/mcp"
	"github.com/rpggio/cadence/internal/testserver"
	"github.com/rpggio/cadence/internal/transport"
	"github.com/stretchr/testify/require"
)

// clock is a settable test clock.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func forEachDriver(t *testing.T, fn func(t *testing.T, driver string)) {
	for _, driver := range []string{config.DriverSQLite, config.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			fn(t, driver)
		})
	}
}

func TestEndToEnd_LogPageAndMeasure(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		// Tuesday 09:00 UTC; the week began Sunday 2026-03-01.
		clk := &clock{now: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)}
		ts := testserver.New(t, testserver.Options{Driver: driver, Clock: clk.Now})

		log := func(params mcp.LogActivityParams) *string {
			resp := ts.Call(mcp.MethodLogActivity, params)
			require.Nil(t, resp.Error)
			var out mcp.LogActivityResult
			ts.Decode(resp.Result, &out)
			return out.EventID
		}

		for _, offset := range []int{0, 5, 10, 50} {
			clk.now = time.Date(2026, 3, 3, 9, offset, 0, 0, time.UTC)
			path := "/board"
			if offset == 50 {
				path = "/reports"
			}
			require.NotNil(t, log(mcp.LogActivityParams{
				ActorID: "u1",
				Type:    "PAGE_VISIT",
				Detail:  map[string]any{"pathname": path},
			}))
		}
		clk.Advance(time.Minute)
		for range 3 {
			require.NotNil(t, log(mcp.LogActivityParams{ActorID: "u1", Type: "TASK_COMPLETED", ProjectID: "p1"}))
		}
		for range 2 {
			require.NotNil(t, log(mcp.LogActivityParams{ActorID: "u1", Type: "MILESTONE_COMPLETED", ProjectID: "p1"}))
		}
		require.NotNil(t, log(mcp.LogActivityParams{ActorID: "u1", Type: "COMMENT_ADDED", ProjectID: "p1"}))

		// Rejected at ingestion: nothing is stored.
		require.Nil(t, log(mcp.LogActivityParams{ActorID: "", Type: "USER_LOGIN"}))
		require.Nil(t, log(mcp.LogActivityParams{ActorID: "u1", Type: "USER_SNEEZED"}))

		// Page through the actor's 10 events, 4 at a time.
		seen := map[string]bool{}
		var cursor string
		pages := 0
		for {
			resp := ts.Call(mcp.MethodGetActorEvents, mcp.GetActorEventsParams{ActorID: "u1", PageSize: 4, Cursor: cursor})
			require.Nil(t, resp.Error)
			var page mcp.PageResponse
			ts.Decode(resp.Result, &page)
			pages++
			for _, ev := range page.Events {
				require.False(t, seen[ev.ID])
				seen[ev.ID] = true
			}
			if !page.HasMore {
				break
			}
			cursor = *page.Cursor
		}
		require.Len(t, seen, 10)
		require.Equal(t, 3, pages)

		resp := ts.Call(mcp.MethodGetProjectEvents, mcp.GetProjectEventsParams{ProjectID: "p1"})
		var projectPage mcp.PageResponse
		ts.Decode(resp.Result, &projectPage)
		require.Len(t, projectPage.Events, 6)
		require.Equal(t, "COMMENT_ADDED", projectPage.Events[0].Type)

		clk.now = time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
		resp = ts.Call(mcp.MethodGetUserActivityMetrics, mcp.GetUserActivityMetricsParams{ActorID: "u1", Timeframe: "week"})
		require.Nil(t, resp.Error)
		var snap mcp.SnapshotResponse
		ts.Decode(resp.Result, &snap)
		require.Equal(t, 10, snap.TotalEvents)
		require.Equal(t, 3, snap.TasksCompleted)
		require.Equal(t, 2, snap.MilestonesCompleted)
		require.Equal(t, 1, snap.CommentsAdded)
		require.Equal(t, 11, snap.TimeSpentInSystem)
		require.Equal(t, 2, snap.PagesVisited)
		require.Equal(t, 2, snap.Sessions)
		require.Equal(t, 4, snap.ActivityScore)

		// Nothing happened today.
		resp = ts.Call(mcp.MethodGetUserActivityMetrics, mcp.GetUserActivityMetricsParams{ActorID: "u1", Timeframe: "day"})
		ts.Decode(resp.Result, &snap)
		require.Zero(t, snap.TotalEvents)

		resp = ts.Call(mcp.MethodGetTeamActivitySummary, mcp.GetTeamActivitySummaryParams{ActorIDs: []string{"ghost", "u1"}})
		require.Nil(t, resp.Error)
		var team mcp.TeamSummaryResponse
		ts.Decode(resp.Result, &team)
		require.Len(t, team.Actors, 2)
		require.Equal(t, "ghost", team.Actors[0].ActorID)
		require.Zero(t, team.Actors[0].Metrics.ActivityScore)
		require.Equal(t, 4, team.Actors[1].Metrics.ActivityScore)
	})
}

func TestEndToEnd_BoundaryErrors(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})

	resp := ts.Call(mcp.MethodGetUserActivityMetrics, mcp.GetUserActivityMetricsParams{ActorID: "u1", Timeframe: "quarter"})
	require.NotNil(t, resp.Error)
	require.Equal(t, transport.CodeInvalidParams, resp.Error.Code)
	var data struct {
		Code    string               `json:"code"`
		Details mcp.TimeframeDetails `json:"details"`
	}
	ts.Decode(resp.Error.Data, &data)
	require.Equal(t, mcp.CodeInvalidTimeframe, data.Code)
	require.Equal(t, "quarter", data.Details.Timeframe)
	require.Equal(t, []string{"day", "week", "month"}, data.Details.Allowed)

	resp = ts.Call("delete_everything", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, transport.CodeMethodNotFound, resp.Error.Code)

	resp = ts.Call(mcp.MethodGetActorEvents, mcp.GetActorEventsParams{ActorID: "u1", Cursor: "garbage"})
	require.Nil(t, resp.Error)
	var page mcp.PageResponse
	ts.Decode(resp.Result, &page)
	require.Empty(t, page.Events)
	require.Nil(t, page.Cursor)

	resp = ts.Call(mcp.MethodListEventTypes, nil)
	require.Nil(t, resp.Error)
	var types mcp.EventTypesResponse
	ts.Decode(resp.Result, &types)
	require.Len(t, types.Types, 19)
}
