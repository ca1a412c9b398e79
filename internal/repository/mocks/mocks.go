package mocks

import (
	"context"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// EventRepository is a mock for repository.EventRepository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Append(ctx context.Context, ev *activity.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *EventRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Event, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
