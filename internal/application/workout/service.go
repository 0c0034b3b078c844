package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/fitfusion/fitfusion-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateWorkoutRequest) (*domain.Workout, error)
	List(ctx context.Context, userID string) ([]domain.Workout, error)
	Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error)
	Delete(ctx context.Context, userID, workoutID string) error
}

type workoutStore interface {
	Put(ctx context.Context, w *domain.Workout) error
	Get(ctx context.Context, workoutID string) (*domain.Workout, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Workout, error)
	Delete(ctx context.Context, workoutID string) error
}

type service struct {
	workouts workoutStore
}

func NewService(store workoutStore) Service {
	return &service{workouts: store}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateWorkoutRequest) (*domain.Workout, error) {
	now := time.Now().UTC()
	w := &domain.Workout{
		WorkoutID: id.New(),
		UserID:    userID,
		Name:      req.Name,
		Exercises: req.Exercises,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.workouts.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Workout, error) {
	workouts, err := s.workouts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

// Get returns the workout only to its owner. A workout belonging to another
// user is reported as not found, never as forbidden, so ids cannot be probed.
func (s *service) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	w, err := s.workouts.Get(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, fmt.Errorf("workout not found: %w", domain.ErrNotFound)
	}
	return w, nil
}

func (s *service) Delete(ctx context.Context, userID, workoutID string) error {
	if _, err := s.Get(ctx, userID, workoutID); err != nil {
		return err
	}
	return s.workouts.Delete(ctx, workoutID)
}
