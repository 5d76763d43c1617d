package model

import (
	"fmt"
	"time"
)

// Interview statuses.
const (
	StatusScheduled = "scheduled"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// InterviewConfig controls how a mock interview is run.
type InterviewConfig struct {
	DurationMin  int      `json:"durationMin" bson:"duration_min"`
	NumQuestions int      `json:"numQuestions" bson:"num_questions"`
	Topics       []string `json:"topics" bson:"topics"`
	Difficulty   string   `json:"difficulty" bson:"difficulty"`
}

// Phase is one segment of a running interview.
type Phase struct {
	Name      string     `json:"name" bson:"name"`
	ProblemID string     `json:"problemId,omitempty" bson:"problem_id,omitempty"`
	StartedAt time.Time  `json:"startedAt" bson:"started_at"`
	EndedAt   *time.Time `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
	Outcome   string     `json:"outcome,omitempty" bson:"outcome,omitempty"`
}

// MockInterview is a timed practice interview session.
type MockInterview struct {
	ID         string          `json:"id" bson:"id"`
	UserID     string          `json:"userId" bson:"user_id"`
	Status     string          `json:"status" bson:"status"`
	Config     InterviewConfig `json:"config" bson:"config"`
	Phases     []Phase         `json:"phases" bson:"phases"`
	Score      *int            `json:"score,omitempty" bson:"score,omitempty"`
	Feedback   string          `json:"feedback,omitempty" bson:"feedback,omitempty"`
	CreatedAt  time.Time       `json:"createdAt" bson:"created_at"`
	StartedAt  *time.Time      `json:"startedAt,omitempty" bson:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty" bson:"finished_at,omitempty"`
}

// Validate checks the interview configuration.
func (c *InterviewConfig) Validate() error {
	if c.DurationMin <= 0 || c.DurationMin > 240 {
		return fmt.Errorf("durationMin must be between 1 and 240, got %d", c.DurationMin)
	}
	if c.NumQuestions <= 0 || c.NumQuestions > 20 {
		return fmt.Errorf("numQuestions must be between 1 and 20, got %d", c.NumQuestions)
	}
	switch c.Difficulty {
	case "easy", "medium", "hard", "mixed":
	default:
		return fmt.Errorf("invalid difficulty: %q", c.Difficulty)
	}
	return nil
}

// CanStart reports whether the interview may transition to running.
func (m *MockInterview) CanStart() bool {
	return m.Status == StatusScheduled
}

// CanFinish reports whether the interview may transition to completed.
func (m *MockInterview) CanFinish() bool {
	return m.Status == StatusRunning
}

// CanAbandon reports whether the interview may transition to abandoned.
func (m *MockInterview) CanAbandon() bool {
	return m.Status == StatusScheduled || m.Status == StatusRunning
}
