package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/rpggio/cadence/internal/domain/activity"
	"github.com/rpggio/cadence/internal/domain/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize       = 500
	defaultTeamConcurrency = 4
	// maxFallbackPages caps the pages-visited proxy used when an actor has
	// no page-visit events in the window.
	maxFallbackPages = 20
)

var tracer = otel.Tracer("github.com/rpggio/cadence/internal/domain/metrics")

// Config tunes the aggregator.
type Config struct {
	// Location resolves day/week/month boundaries. Nil means UTC.
	Location        *time.Location
	Session         session.Config
	Weights         Weights
	BatchSize       int
	TeamConcurrency int
}

// Service computes engagement metrics from the activity log.
type Service struct {
	repo            activity.Repository
	reconstructor   *session.Reconstructor
	weights         Weights
	loc             *time.Location
	batchSize       int
	teamConcurrency int
	logger          *slog.Logger
	now             func() time.Time
}

// NewService creates a metrics service. Zero config values fall back to defaults.
func NewService(repo activity.Repository, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.TeamConcurrency <= 0 {
		cfg.TeamConcurrency = defaultTeamConcurrency
	}
	return &Service{
		repo:            repo,
		reconstructor:   session.NewReconstructor(cfg.Session),
		weights:         cfg.Weights,
		loc:             cfg.Location,
		batchSize:       cfg.BatchSize,
		teamConcurrency: cfg.TeamConcurrency,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock replaces the clock used to resolve timeframe windows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetUserActivityMetrics returns the snapshot for actorID over tf. Invalid
// input or store failures yield a zeroed snapshot; the cause is logged.
func (s *Service) GetUserActivityMetrics(ctx context.Context, actorID string, tf Timeframe) Snapshot {
	return s.userMetrics(ctx, actorID, tf, s.now())
}

// GetTeamActivitySummary computes each actor's snapshot independently and
// returns them in input order. One actor's failure only zeroes that actor.
func (s *Service) GetTeamActivitySummary(ctx context.Context, actorIDs []string, tf Timeframe) []ActorMetrics {
	ctx, span := tracer.Start(ctx, "metrics.team", trace.WithAttributes(
		attribute.Int("metrics.actors", len(actorIDs)),
		attribute.String("metrics.timeframe", string(tf)),
	))
	defer span.End()

	now := s.now()
	results := make([]ActorMetrics, len(actorIDs))

	var g errgroup.Group
	g.SetLimit(s.teamConcurrency)
	for i, actorID := range actorIDs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("team metrics panicked", "actor_id", actorID, "panic", r)
					results[i] = ActorMetrics{ActorID: actorID, Metrics: emptySnapshot(actorID, tf)}
				}
			}()
			results[i] = ActorMetrics{ActorID: actorID, Metrics: s.userMetrics(ctx, actorID, tf, now)}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) userMetrics(ctx context.Context, actorID string, tf Timeframe, now time.Time) Snapshot {
	ctx, span := tracer.Start(ctx, "metrics.user", trace.WithAttributes(
		attribute.String("metrics.timeframe", string(tf)),
	))
	defer span.End()

	snap, err := s.compute(ctx, actorID, tf, now)
	if err != nil {
		s.logger.Warn("metrics unavailable", "actor_id", actorID, "timeframe", tf, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "metrics unavailable")
		return emptySnapshot(strings.TrimSpace(actorID), tf)
	}
	return snap
}

func (s *Service) compute(ctx context.Context, actorID string, tf Timeframe, now time.Time) (Snapshot, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return Snapshot{}, ErrInvalidActor
	}
	start, end, err := Window(tf, now, s.loc)
	if err != nil {
		return Snapshot{}, err
	}

	events, err := s.collect(ctx, actorID, start, end)
	if err != nil {
		return Snapshot{}, err
	}

	snap := emptySnapshot(actorID, tf)
	snap.WindowStart = start
	snap.WindowEnd = end

	var visits []activity.Event
	paths := make(map[string]struct{})
	for _, ev := range events {
		snap.TotalEvents++
		snap.ByType[ev.Type]++
		if ev.Type != activity.TypePageVisit {
			continue
		}
		visits = append(visits, ev)
		if p := ev.Pathname(); p != "" {
			paths[p] = struct{}{}
		}
	}

	snap.TasksCompleted = snap.ByType[activity.TypeTaskCompleted]
	snap.MilestonesCompleted = snap.ByType[activity.TypeMilestoneCompleted]
	snap.CommentsAdded = snap.ByType[activity.TypeCommentAdded]
	snap.DocumentsUploaded = snap.ByType[activity.TypeDocumentUploaded]

	if len(visits) > 0 {
		sessions := s.reconstructor.Sessions(visits)
		snap.Sessions = len(sessions)
		snap.TimeSpentInSystem = session.TotalMinutes(sessions)
		snap.PagesVisited = len(paths)
	} else {
		// Coarse proxy when no navigation was recorded.
		snap.PagesVisited = min(maxFallbackPages, int(math.Round(float64(snap.TotalEvents)/3)))
	}

	snap.ActivityScore = s.weights.Score(snap)
	return snap, nil
}

// collect walks the actor's events in the window newest-first, batch by batch.
func (s *Service) collect(ctx context.Context, actorID string, start, end time.Time) ([]activity.Event, error) {
	opts := activity.ListOptions{
		ActorID: actorID,
		Since:   start,
		Until:   end,
		Limit:   s.batchSize,
	}
	var events []activity.Event
	for {
		batch, err := s.repo.List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("listing events: %w", err)
		}
		events = append(events, batch...)
		if len(batch) < s.batchSize {
			return events, nil
		}
		opts.BeforeKey = batch[len(batch)-1].OrderingKey
	}
}
