package usecase

import (
	"context"
	"fmt"

	"xandar-lab/internal/practice/domain/model"
	"xandar-lab/internal/practice/domain/repository"
	"xandar-lab/internal/shared/eventbus"

	"github.com/google/uuid"
)

// PracticeUsecaseInterface defines the contract for attempt tracking.
type PracticeUsecaseInterface interface {
	RecordAttempt(ctx context.Context, userID string, attempt *model.Attempt) (*model.Attempt, error)
	GetAttempt(ctx context.Context, userID, attemptID string) (*model.Attempt, error)
	ListAttempts(ctx context.Context, userID string, filter model.AttemptFilter) ([]*model.Attempt, error)
	UpdateAttempt(ctx context.Context, userID string, attempt *model.Attempt) (*model.Attempt, error)
	DeleteAttempt(ctx context.Context, userID, attemptID string) error
	CompleteProblem(ctx context.Context, userID, problemID string) error
	SaveProblem(ctx context.Context, userID, problemID string) error
	UnsaveProblem(ctx context.Context, userID, problemID string) error
}

// PracticeUsecase implements attempt tracking over the repository.
type PracticeUsecase struct {
	repo   repository.PracticeRepository
	events eventbus.EventBusInterface
}

// NewPracticeUsecase creates a new practice usecase.
func NewPracticeUsecase(repo repository.PracticeRepository, events eventbus.EventBusInterface) *PracticeUsecase {
	return &PracticeUsecase{repo: repo, events: events}
}

// RecordAttempt validates and stores a new attempt. A solved outcome also
// marks the problem completed.
func (uc *PracticeUsecase) RecordAttempt(ctx context.Context, userID string, attempt *model.Attempt) (*model.Attempt, error) {
	attempt.ID = uuid.New().String()
	attempt.UserID = userID
	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	if attempt.Outcome == model.OutcomeSolved {
		if err := uc.repo.MarkProblemCompleted(ctx, userID, attempt.ProblemID); err != nil {
			return nil, fmt.Errorf("failed to mark problem completed: %w", err)
		}
	}

	uc.publishRecorded(ctx, userID)
	return attempt, nil
}

// GetAttempt fetches one attempt, owner-scoped.
func (uc *PracticeUsecase) GetAttempt(ctx context.Context, userID, attemptID string) (*model.Attempt, error) {
	return uc.repo.GetAttempt(ctx, userID, attemptID)
}

// ListAttempts returns the user's attempts, newest first.
func (uc *PracticeUsecase) ListAttempts(ctx context.Context, userID string, filter model.AttemptFilter) ([]*model.Attempt, error) {
	return uc.repo.ListAttempts(ctx, userID, filter)
}

// UpdateAttempt validates and persists edits to an attempt.
func (uc *PracticeUsecase) UpdateAttempt(ctx context.Context, userID string, attempt *model.Attempt) (*model.Attempt, error) {
	attempt.UserID = userID
	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	uc.publishRecorded(ctx, userID)
	return uc.repo.GetAttempt(ctx, userID, attempt.ID)
}

// DeleteAttempt removes an attempt, owner-scoped.
func (uc *PracticeUsecase) DeleteAttempt(ctx context.Context, userID, attemptID string) error {
	if err := uc.repo.DeleteAttempt(ctx, userID, attemptID); err != nil {
		return err
	}
	uc.publishRecorded(ctx, userID)
	return nil
}

// CompleteProblem adds the problem to the user's completed list.
func (uc *PracticeUsecase) CompleteProblem(ctx context.Context, userID, problemID string) error {
	return uc.repo.MarkProblemCompleted(ctx, userID, problemID)
}

// SaveProblem adds the problem to the user's saved list.
func (uc *PracticeUsecase) SaveProblem(ctx context.Context, userID, problemID string) error {
	return uc.repo.SaveProblem(ctx, userID, problemID)
}

// UnsaveProblem removes the problem from the user's saved list.
func (uc *PracticeUsecase) UnsaveProblem(ctx context.Context, userID, problemID string) error {
	return uc.repo.UnsaveProblem(ctx, userID, problemID)
}

func (uc *PracticeUsecase) publishRecorded(ctx context.Context, userID string) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
		eventbus.EventTypeAttemptRecorded,
		map[string]string{"userId": userID},
		"practice",
	))
}

var _ PracticeUsecaseInterface = (*PracticeUsecase)(nil)
