// Package domain defines the business logic for the activity registry.
package domain

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"example.com/activityregistry/internal/events"
	"example.com/activityregistry/internal/observability"
)

// ActivityRepository owns the activity catalog. Each mutation must apply its
// precondition checks and the change atomically.
type ActivityRepository interface {
	List(ctx context.Context) (map[string]Activity, error)
	AddParticipant(ctx context.Context, activityName, email string) error
	RemoveParticipant(ctx context.Context, activityName, email string) error
}

// EventPublisher accepts participant events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Envelope) error
}

// Service orchestrates registry workflows.
type Service struct {
	repo      ActivityRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithPublisher routes participant events to p.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service.
func NewService(repo ActivityRepository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.repo.List(ctx)
}

// Signup enrolls email in the named activity and returns a confirmation message.
func (s *Service) Signup(ctx context.Context, activityName, email string) (string, error) {
	if err := s.repo.AddParticipant(ctx, activityName, email); err != nil {
		s.reject("signup", activityName, email, err)
		return "", err
	}

	observability.RecordSignup(activityName)
	s.logger.Info("participant signed up", zap.String("activity", activityName), zap.String("email", email))
	s.publish(ctx, events.SignedUp(activityName, email, s.now()))
	return fmt.Sprintf("Signed up %s for %s", email, activityName), nil
}

// Unregister withdraws email from the named activity and returns a confirmation message.
func (s *Service) Unregister(ctx context.Context, activityName, email string) (string, error) {
	if err := s.repo.RemoveParticipant(ctx, activityName, email); err != nil {
		s.reject("unregister", activityName, email, err)
		return "", err
	}

	observability.RecordUnregistration(activityName)
	s.logger.Info("participant unregistered", zap.String("activity", activityName), zap.String("email", email))
	s.publish(ctx, events.Unregistered(activityName, email, s.now()))
	return fmt.Sprintf("Unregistered %s from %s", email, activityName), nil
}

func (s *Service) reject(operation, activityName, email string, err error) {
	kind := KindOf(err)
	observability.RecordRejection(operation, kind.String())
	s.logger.Debug("request rejected",
		zap.String("operation", operation),
		zap.String("activity", activityName),
		zap.String("email", email),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)
}

func (s *Service) publish(ctx context.Context, event events.Envelope) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("participant event not queued", zap.String("event_type", event.Type), zap.Error(err))
	}
}
