// Package registry holds the in-memory activity catalog.
package registry

import (
	"context"
	"slices"
	"sync"

	"example.com/activityregistry/internal/domain"
)

// InMemoryRepository stores activities for the lifetime of the process.
type InMemoryRepository struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
}

// NewInMemoryRepository constructs a repository populated from seed. The seed
// is copied, so later changes to it do not affect the repository.
func NewInMemoryRepository(seed map[string]domain.Activity) *InMemoryRepository {
	repo := &InMemoryRepository{
		activities: make(map[string]domain.Activity, len(seed)),
	}
	for name, activity := range seed {
		repo.activities[name] = activity.Clone()
	}
	return repo
}

// List implements domain.ActivityRepository.
func (r *InMemoryRepository) List(ctx context.Context) (map[string]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.Activity, len(r.activities))
	for name, activity := range r.activities {
		out[name] = activity.Clone()
	}
	return out, nil
}

// AddParticipant implements domain.ActivityRepository.
func (r *InMemoryRepository) AddParticipant(ctx context.Context, activityName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[activityName]
	if !ok {
		return domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.ErrAlreadySignedUp
	}

	activity.Participants = append(activity.Participants, email)
	r.activities[activityName] = activity
	return nil
}

// RemoveParticipant implements domain.ActivityRepository.
func (r *InMemoryRepository) RemoveParticipant(ctx context.Context, activityName, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[activityName]
	if !ok {
		return domain.ErrActivityNotFound
	}
	idx := slices.Index(activity.Participants, email)
	if idx < 0 {
		return domain.ErrNotRegistered
	}

	activity.Participants = slices.Delete(activity.Participants, idx, idx+1)
	r.activities[activityName] = activity
	return nil
}
