package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultPageSize is used when a caller passes a non-positive page size.
	DefaultPageSize = 20
	// MaxPageSize caps a single page.
	MaxPageSize = 100
)

const (
	scopeActor   = "actor"
	scopeProject = "project"
)

var tracer = otel.Tracer("github.com/rpggio/cadence/internal/domain/activity")

// Service handles activity log writes and paginated reads. It never returns
// errors to callers: logging is best-effort and must not block the action
// that triggered it.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to stamp ClientTimestamp.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// LogRequest describes a single user action to record.
type LogRequest struct {
	ActorID   string
	Type      EventType
	Detail    Detail
	ProjectID string
}

// Page is one page of a newest-first listing.
type Page struct {
	Events []Event
	// Cursor resumes after the last event of this page; empty when the page is empty.
	Cursor string
	// HasMore is true when the page is full; a short page is exhaustive.
	HasMore bool
}

// LogActivity validates and appends an event, returning its ID. An empty ID
// means the event was dropped; the reason is logged.
func (s *Service) LogActivity(ctx context.Context, req LogRequest) string {
	ctx, span := tracer.Start(ctx, "activity.log", trace.WithAttributes(
		attribute.String("activity.type", string(req.Type)),
	))
	defer span.End()

	ev, err := s.newEvent(req)
	if err != nil {
		s.logger.Warn("activity dropped", "actor_id", req.ActorID, "type", req.Type, "error", err)
		span.SetStatus(codes.Error, err.Error())
		return ""
	}

	if err := s.repo.Append(ctx, ev); err != nil {
		s.logger.Warn("activity not stored", "actor_id", ev.ActorID, "type", ev.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return ""
	}

	s.logger.Debug("activity logged", "id", ev.ID, "actor_id", ev.ActorID, "type", ev.Type, "ordering_key", ev.OrderingKey)
	return ev.ID
}

func (s *Service) newEvent(req LogRequest) (*Event, error) {
	actorID := strings.TrimSpace(req.ActorID)
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, req.Type)
	}
	if err := checkDetail(req.Type, req.Detail); err != nil {
		return nil, err
	}
	return &Event{
		ActorID:         actorID,
		Type:            req.Type,
		Detail:          req.Detail,
		ProjectID:       strings.TrimSpace(req.ProjectID),
		ClientTimestamp: s.now().UTC(),
	}, nil
}

// GetActorEvents lists events performed by actorID, newest first.
func (s *Service) GetActorEvents(ctx context.Context, actorID string, pageSize int, cursor string) Page {
	return s.page(ctx, scopeActor, actorID, pageSize, cursor)
}

// GetProjectEvents lists events scoped to projectID, newest first.
func (s *Service) GetProjectEvents(ctx context.Context, projectID string, pageSize int, cursor string) Page {
	return s.page(ctx, scopeProject, projectID, pageSize, cursor)
}

func (s *Service) page(ctx context.Context, kind, id string, pageSize int, token string) Page {
	ctx, span := tracer.Start(ctx, "activity.list", trace.WithAttributes(
		attribute.String("activity.scope", kind),
	))
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		s.logger.Warn("activity listing skipped", "scope", kind, "error", ErrInvalidInput)
		return emptyPage()
	}

	pageSize = normalizePageSize(pageSize)
	scope := scopeHash(kind, id)
	opts := ListOptions{Limit: pageSize}
	if kind == scopeActor {
		opts.ActorID = id
	} else {
		opts.ProjectID = id
	}
	if token != "" {
		key, err := decodeCursor(token, scope)
		if err != nil {
			s.logger.Warn("activity listing skipped", "scope", kind, "id", id, "error", err)
			return emptyPage()
		}
		opts.BeforeKey = key
	}

	events, err := s.repo.List(ctx, opts)
	if err != nil {
		s.logger.Warn("activity listing failed", "scope", kind, "id", id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return emptyPage()
	}
	if len(events) > pageSize {
		events = events[:pageSize]
	}
	if len(events) == 0 {
		return emptyPage()
	}

	return Page{
		Events:  events,
		Cursor:  encodeCursor(events[len(events)-1].OrderingKey, scope),
		HasMore: len(events) == pageSize,
	}
}

func normalizePageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}

func emptyPage() Page {
	return Page{Events: []Event{}}
}
