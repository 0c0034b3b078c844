package domain

import "time"

// Workout is a saved workout plan built from the exercise database.
type Workout struct {
	WorkoutID string            `json:"id" dynamodbav:"workout_id"`
	UserID    string            `json:"-" dynamodbav:"user_id"`
	Name      string            `json:"name" dynamodbav:"name"`
	Exercises []WorkoutExercise `json:"exercises" dynamodbav:"exercises"`
	CreatedAt time.Time         `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time         `json:"updated" dynamodbav:"updated_at"`
}

// WorkoutExercise is one entry in a workout plan. The descriptive fields are
// denormalized from the exercise database at save time.
type WorkoutExercise struct {
	ExerciseID string `json:"exercise_id" dynamodbav:"exercise_id"`
	Name       string `json:"name" dynamodbav:"name" validate:"required"`
	BodyPart   string `json:"body_part" dynamodbav:"body_part"`
	Equipment  string `json:"equipment" dynamodbav:"equipment"`
	Target     string `json:"target" dynamodbav:"target"`
	GifURL     string `json:"gif_url,omitempty" dynamodbav:"gif_url,omitempty"`
	Sets       int    `json:"sets" dynamodbav:"sets" validate:"min=1,max=20"`
	Reps       int    `json:"reps" dynamodbav:"reps" validate:"min=1,max=100"`
}

// CreateWorkoutRequest is the payload for saving a new workout.
type CreateWorkoutRequest struct {
	Name      string            `json:"name" validate:"required,max=100"`
	Exercises []WorkoutExercise `json:"exercises" validate:"required,min=1,dive"`
}
