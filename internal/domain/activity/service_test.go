package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

func newService(repo *mocks.EventRepository) *activity.Service {
	return activity.NewService(repo, nil).WithClock(func() time.Time { return fixedNow })
}

func TestActivityService_LogActivity(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}

	detail := activity.TaskDetail{TaskID: "t1", Title: "Write docs", Status: "done"}
	repo.On("Append", mock.Anything, mock.MatchedBy(func(ev *activity.Event) bool {
		return ev.ActorID == "u1" &&
			ev.Type == activity.TypeTaskCompleted &&
			ev.ProjectID == "p1" &&
			ev.Detail == detail &&
			ev.ClientTimestamp.Equal(fixedNow)
	})).Run(func(args mock.Arguments) {
		ev := args.Get(1).(*activity.Event)
		ev.ID = "e1"
		ev.OrderingKey = 1
	}).Return(nil)

	id := newService(repo).LogActivity(ctx, activity.LogRequest{
		ActorID:   " u1 ",
		Type:      activity.TypeTaskCompleted,
		Detail:    detail,
		ProjectID: "p1",
	})
	require.Equal(t, "e1", id)
	repo.AssertExpectations(t)
}

func TestActivityService_LogActivity_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  activity.LogRequest
	}{
		{name: "empty actor", req: activity.LogRequest{Type: activity.TypeUserLogin}},
		{name: "blank actor", req: activity.LogRequest{ActorID: "   ", Type: activity.TypeUserLogin}},
		{name: "unknown type", req: activity.LogRequest{ActorID: "u1", Type: "TASK_EXPLODED"}},
		{name: "empty type", req: activity.LogRequest{ActorID: "u1"}},
		{name: "detail mismatch", req: activity.LogRequest{
			ActorID: "u1",
			Type:    activity.TypeTaskCreated,
			Detail:  activity.PageVisitDetail{Pathname: "/tasks"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.EventRepository{}
			id := newService(repo).LogActivity(context.Background(), tt.req)
			require.Empty(t, id)
			repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestActivityService_LogActivity_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	id := newService(repo).LogActivity(ctx, activity.LogRequest{ActorID: "u1", Type: activity.TypeUserLogout})
	require.Empty(t, id)
}

func TestActivityService_GetActorEvents_Paginates(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}

	first := []activity.Event{
		{ID: "e3", ActorID: "u1", Type: activity.TypeUserLogin, OrderingKey: 3},
		{ID: "e2", ActorID: "u1", Type: activity.TypePageVisit, OrderingKey: 2},
	}
	second := []activity.Event{
		{ID: "e1", ActorID: "u1", Type: activity.TypeUserLogin, OrderingKey: 1},
	}
	repo.On("List", mock.Anything, activity.ListOptions{ActorID: "u1", Limit: 2}).Return(first, nil)
	repo.On("List", mock.Anything, activity.ListOptions{ActorID: "u1", Limit: 2, BeforeKey: 2}).Return(second, nil)

	svc := newService(repo)

	page := svc.GetActorEvents(ctx, "u1", 2, "")
	require.Equal(t, first, page.Events)
	require.True(t, page.HasMore)
	require.NotEmpty(t, page.Cursor)

	page = svc.GetActorEvents(ctx, "u1", 2, page.Cursor)
	require.Equal(t, second, page.Events)
	require.False(t, page.HasMore)
	require.NotEmpty(t, page.Cursor)
	repo.AssertExpectations(t)
}

func TestActivityService_GetProjectEvents_DefaultPageSize(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}
	repo.On("List", mock.Anything, activity.ListOptions{ProjectID: "p1", Limit: activity.DefaultPageSize}).
		Return([]activity.Event{}, nil)

	page := newService(repo).GetProjectEvents(ctx, "p1", 0, "")
	require.Empty(t, page.Events)
	require.NotNil(t, page.Events)
	require.Empty(t, page.Cursor)
	require.False(t, page.HasMore)
	repo.AssertExpectations(t)
}

func TestActivityService_GetActorEvents_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	page := newService(repo).GetActorEvents(ctx, "u1", 20, "")
	require.Equal(t, activity.Page{Events: []activity.Event{}}, page)
}

func TestActivityService_RejectsForeignCursor(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.EventRepository{}
	repo.On("List", mock.Anything, activity.ListOptions{ActorID: "u1", Limit: 1}).
		Return([]activity.Event{{ID: "e5", ActorID: "u1", ProjectID: "p1", OrderingKey: 5}}, nil)

	svc := newService(repo)
	actorPage := svc.GetActorEvents(ctx, "u1", 1, "")
	require.True(t, actorPage.HasMore)

	projectPage := svc.GetProjectEvents(ctx, "p1", 1, actorPage.Cursor)
	require.Empty(t, projectPage.Events)
	require.False(t, projectPage.HasMore)

	otherActor := svc.GetActorEvents(ctx, "u2", 1, actorPage.Cursor)
	require.Empty(t, otherActor.Events)

	garbage := svc.GetActorEvents(ctx, "u1", 1, "%%%not-a-cursor")
	require.Empty(t, garbage.Events)

	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestActivityService_EmptyScopeID(t *testing.T) {
	repo := &mocks.EventRepository{}
	page := newService(repo).GetActorEvents(context.Background(), "", 10, "")
	require.Empty(t, page.Events)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
