package repository

import (
	"context"

	"xandar-lab/internal/practice/domain/model"
)

// PracticeRepository defines persistence operations for attempts and the
// per-user problem lists.
type PracticeRepository interface {
	CreateAttempt(ctx context.Context, attempt *model.Attempt) error
	GetAttempt(ctx context.Context, userID, attemptID string) (*model.Attempt, error)
	ListAttempts(ctx context.Context, userID string, filter model.AttemptFilter) ([]*model.Attempt, error)
	UpdateAttempt(ctx context.Context, attempt *model.Attempt) error
	DeleteAttempt(ctx context.Context, userID, attemptID string) error

	MarkProblemCompleted(ctx context.Context, userID, problemID string) error
	SaveProblem(ctx context.Context, userID, problemID string) error
	UnsaveProblem(ctx context.Context, userID, problemID string) error
}
