package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/repository"
)

// EventRepository implements repository.EventRepository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append inserts ev and fills in its ID and OrderingKey.
func (r *EventRepository) Append(ctx context.Context, ev *activity.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	detail, err := activity.MarshalDetail(ev.Detail)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO activity_events (id, actor_id, type, detail, project_id, client_ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		ev.ID,
		ev.ActorID,
		string(ev.Type),
		string(detail),
		nullString(ev.ProjectID),
		ev.ClientTimestamp.UTC().UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event %s already exists", repository.ErrConflict, ev.ID)
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	key, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read ordering key: %w", err)
	}
	ev.OrderingKey = key

	return nil
}

// List returns events matching opts, newest ordering key first.
func (r *EventRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Event, error) {
	query := `
		SELECT ordering_key, id, actor_id, type, detail, project_id, client_ts
		FROM activity_events
	`

	var conditions []string
	var args []any

	if opts.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, opts.ActorID)
	}
	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if !opts.Since.IsZero() {
		conditions = append(conditions, "client_ts >= ?")
		args = append(args, opts.Since.UTC().UnixNano())
	}
	if !opts.Until.IsZero() {
		conditions = append(conditions, "client_ts < ?")
		args = append(args, opts.Until.UTC().UnixNano())
	}
	if opts.BeforeKey > 0 {
		conditions = append(conditions, "ordering_key < ?")
		args = append(args, opts.BeforeKey)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY ordering_key DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []activity.Event{}
	for rows.Next() {
		var (
			ev        activity.Event
			typ       string
			detail    string
			projectID sql.NullString
			clientTS  int64
		)
		if err := rows.Scan(
			&ev.OrderingKey,
			&ev.ID,
			&ev.ActorID,
			&typ,
			&detail,
			&projectID,
			&clientTS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		ev.Type = activity.EventType(typ)
		ev.ProjectID = projectID.String
		ev.ClientTimestamp = time.Unix(0, clientTS).UTC()
		ev.Detail, err = activity.UnmarshalDetail(ev.Type, []byte(detail))
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
