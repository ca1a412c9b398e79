package repository

import (
	"context"

	"github.com/rpggio/cadence/internal/domain/activity"
)

// EventRepository manages activity event persistence. Implementations are
// append-only: there is no update or delete.
type EventRepository interface {
	Append(ctx context.Context, ev *activity.Event) error
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Event, error)
}
