package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rpggio/cadence/internal/codec"
	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/repository"
)

// envelope is the stored form of an event.
type envelope struct {
	ID        string `cbor:"id"`
	ActorID   string `cbor:"actor"`
	Type      string `cbor:"type"`
	Detail    []byte `cbor:"detail,omitempty"`
	ProjectID string `cbor:"project,omitempty"`
	ClientTS  int64  `cbor:"ts"`
	Key       int64  `cbor:"key"`
}

// EventRepository implements repository.EventRepository on Badger.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Append stores ev with its primary record and index entries in one
// transaction, then fills in ID and OrderingKey.
func (r *EventRepository) Append(ctx context.Context, ev *activity.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := ev.ID
	if id == "" {
		id = uuid.NewString()
	}
	detail, err := activity.MarshalDetail(ev.Detail)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	key, err := r.db.nextKey()
	if err != nil {
		return err
	}

	data, err := codec.Marshal(envelope{
		ID:        id,
		ActorID:   ev.ActorID,
		Type:      string(ev.Type),
		Detail:    detail,
		ProjectID: ev.ProjectID,
		ClientTS:  ev.ClientTimestamp.UTC().UnixNano(),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(idKey(id)); err == nil {
			return fmt.Errorf("%w: event %s already exists", repository.ErrConflict, id)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(eventKey(key), data); err != nil {
			return err
		}
		if err := txn.Set(idKey(id), encodeKey(key)); err != nil {
			return err
		}
		if err := txn.Set(indexKey(actorPrefix, ev.ActorID, key), nil); err != nil {
			return err
		}
		if ev.ProjectID != "" {
			if err := txn.Set(indexKey(projectPrefix, ev.ProjectID, key), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	ev.ID = id
	ev.OrderingKey = key
	return nil
}

// staleRunLimit is how many consecutive events older than Since a scan
// passes before it stops. Keys follow ingest order and events are stamped at
// ingest, so timestamps only drift out of key order between concurrent appends.
const staleRunLimit = 64

// List scans newest first. Actor and project filters walk their index;
// otherwise the primary keyspace is scanned.
func (r *EventRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Event, error) {
	events, _, err := r.scan(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// scan returns the matching events and how many entries it visited.
func (r *EventRepository) scan(ctx context.Context, opts activity.ListOptions) ([]activity.Event, int, error) {
	prefix := []byte(eventPrefix)
	indexed := false
	switch {
	case opts.ActorID != "":
		prefix, indexed = indexPrefix(actorPrefix, opts.ActorID), true
	case opts.ProjectID != "":
		prefix, indexed = indexPrefix(projectPrefix, opts.ProjectID), true
	}

	var since int64
	if !opts.Since.IsZero() {
		since = opts.Since.UTC().UnixNano()
	}

	events := []activity.Event{}
	visited := 0
	err := r.db.View(func(txn *badger.Txn) error {
		iopts := badger.DefaultIteratorOptions
		iopts.Reverse = true
		iopts.Prefix = prefix
		iopts.PrefetchValues = !indexed
		it := txn.NewIterator(iopts)
		defer it.Close()

		staleRun := 0
		for it.Seek(seekKey(prefix, opts.BeforeKey)); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			visited++

			var env envelope
			var err error
			if indexed {
				env, err = loadEnvelope(txn, decodeKey(it.Item().Key()))
			} else {
				err = it.Item().Value(func(val []byte) error {
					return codec.Unmarshal(val, &env)
				})
			}
			if err != nil {
				return err
			}

			if since != 0 && env.ClientTS < since {
				staleRun++
				if staleRun >= staleRunLimit {
					return nil
				}
				continue
			}
			staleRun = 0

			if !matches(env, opts) {
				continue
			}
			ev, err := env.event()
			if err != nil {
				return err
			}
			events = append(events, ev)
			if opts.Limit > 0 && len(events) >= opts.Limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, visited, err
	}
	return events, visited, nil
}

func loadEnvelope(txn *badger.Txn, key int64) (envelope, error) {
	var env envelope
	item, err := txn.Get(eventKey(key))
	if err != nil {
		return env, fmt.Errorf("index points at missing event %d: %w", key, err)
	}
	err = item.Value(func(val []byte) error {
		return codec.Unmarshal(val, &env)
	})
	return env, err
}

func matches(env envelope, opts activity.ListOptions) bool {
	if opts.ActorID != "" && env.ActorID != opts.ActorID {
		return false
	}
	if opts.ProjectID != "" && env.ProjectID != opts.ProjectID {
		return false
	}
	if !opts.Since.IsZero() && env.ClientTS < opts.Since.UTC().UnixNano() {
		return false
	}
	if !opts.Until.IsZero() && env.ClientTS >= opts.Until.UTC().UnixNano() {
		return false
	}
	return true
}

func (env envelope) event() (activity.Event, error) {
	typ := activity.EventType(env.Type)
	detail, err := activity.UnmarshalDetail(typ, env.Detail)
	if err != nil {
		return activity.Event{}, fmt.Errorf("failed to decode event %s: %w", env.ID, err)
	}
	return activity.Event{
		ID:              env.ID,
		ActorID:         env.ActorID,
		Type:            typ,
		Detail:          detail,
		ProjectID:       env.ProjectID,
		ClientTimestamp: time.Unix(0, env.ClientTS).UTC(),
		OrderingKey:     env.Key,
	}, nil
}
