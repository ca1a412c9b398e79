package activity

import "context"

// Repository provides append-only persistence for activity events.
type Repository interface {
	// Append stores ev and assigns its ID and OrderingKey.
	Append(ctx context.Context, ev *Event) error
	List(ctx context.Context, opts ListOptions) ([]Event, error)
}
