package model

import (
	"errors"
	"time"
)

// Difficulty levels accepted for an attempt.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Outcomes accepted for an attempt.
const (
	OutcomeSolved  = "solved"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

var (
	ErrInvalidDifficulty = errors.New("difficulty must be easy, medium or hard")
	ErrInvalidOutcome    = errors.New("outcome must be solved, partial or failed")
)

// Attempt records one coding-problem attempt by a user.
type Attempt struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"userId" bson:"user_id"`
	ProblemID   string    `json:"problemId" bson:"problem_id"`
	Title       string    `json:"title" bson:"title"`
	Topic       string    `json:"topic" bson:"topic"`
	Difficulty  string    `json:"difficulty" bson:"difficulty"`
	Outcome     string    `json:"outcome" bson:"outcome"`
	DurationMin int       `json:"durationMin" bson:"duration_min"`
	Pitfalls    []string  `json:"pitfalls" bson:"pitfalls"`
	Notes       string    `json:"notes,omitempty" bson:"notes,omitempty"`
	AttemptedAt time.Time `json:"attemptedAt" bson:"attempted_at"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Validate checks enum fields and required identifiers at the boundary.
func (a *Attempt) Validate() error {
	if a.ProblemID == "" {
		return errors.New("problem id is required")
	}
	if a.Topic == "" {
		return errors.New("topic is required")
	}
	switch a.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return ErrInvalidDifficulty
	}
	switch a.Outcome {
	case OutcomeSolved, OutcomePartial, OutcomeFailed:
	default:
		return ErrInvalidOutcome
	}
	if a.DurationMin < 0 {
		return errors.New("duration cannot be negative")
	}
	return nil
}

// AttemptFilter narrows attempt listings.
type AttemptFilter struct {
	Topic      string
	Difficulty string
	Outcome    string
	Limit      int64
	Offset     int64
}
