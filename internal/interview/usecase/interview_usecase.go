package usecase

import (
	"context"
	"fmt"
	"time"

	"xandar-lab/internal/interview/domain/model"
	"xandar-lab/internal/interview/domain/repository"
	apperrors "xandar-lab/internal/shared/errors"
	"xandar-lab/internal/shared/eventbus"

	"github.com/google/uuid"
)

// LiveEvent is pushed to WebSocket watchers of an interview.
type LiveEvent struct {
	Type      string               `json:"type"`
	Interview *model.MockInterview `json:"interview"`
	At        time.Time            `json:"at"`
}

// LiveFeed delivers interview events to connected watchers.
type LiveFeed interface {
	Broadcast(interviewID string, event LiveEvent)
}

// InterviewUsecaseInterface defines mock interview operations.
type InterviewUsecaseInterface interface {
	Schedule(ctx context.Context, userID string, config model.InterviewConfig) (*model.MockInterview, error)
	Start(ctx context.Context, userID, interviewID string) (*model.MockInterview, error)
	Finish(ctx context.Context, userID, interviewID string, score int, feedback string) (*model.MockInterview, error)
	Abandon(ctx context.Context, userID, interviewID string) (*model.MockInterview, error)
	GetInterview(ctx context.Context, userID, interviewID string) (*model.MockInterview, error)
	ListInterviews(ctx context.Context, userID string, limit, offset int64) ([]*model.MockInterview, error)
}

// InterviewUsecase implements mock interview business logic.
type InterviewUsecase struct {
	repo   repository.InterviewRepository
	events eventbus.EventBusInterface
	feed   LiveFeed
	now    func() time.Time
}

// NewInterviewUsecase creates a new interview usecase. The live feed may be
// nil when no realtime transport is wired.
func NewInterviewUsecase(repo repository.InterviewRepository, events eventbus.EventBusInterface, feed LiveFeed) *InterviewUsecase {
	return &InterviewUsecase{
		repo:   repo,
		events: events,
		feed:   feed,
		now:    time.Now,
	}
}

// Schedule creates a new interview in the scheduled state.
func (uc *InterviewUsecase) Schedule(ctx context.Context, userID string, config model.InterviewConfig) (*model.MockInterview, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if err := config.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error()).WithCause(err)
	}

	interview := &model.MockInterview{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    model.StatusScheduled,
		Config:    config,
		Phases:    []model.Phase{},
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to schedule interview: %w", err)
	}
	return interview, nil
}

// Start transitions a scheduled interview to running.
func (uc *InterviewUsecase) Start(ctx context.Context, userID, interviewID string) (*model.MockInterview, error) {
	interview, err := uc.repo.GetByID(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.CanStart() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot start interview in status %q", interview.Status))
	}

	now := uc.now()
	interview.Status = model.StatusRunning
	interview.StartedAt = &now
	if err := uc.repo.Update(ctx, interview); err != nil {
		return nil, err
	}

	uc.publish(ctx, eventbus.EventTypeInterviewStarted, interview)
	uc.broadcast("started", interview)
	return interview, nil
}

// Finish transitions a running interview to completed with a score.
func (uc *InterviewUsecase) Finish(ctx context.Context, userID, interviewID string, score int, feedback string) (*model.MockInterview, error) {
	if score < 0 || score > 100 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("score must be between 0 and 100, got %d", score))
	}

	interview, err := uc.repo.GetByID(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.CanFinish() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot finish interview in status %q", interview.Status))
	}

	now := uc.now()
	interview.Status = model.StatusCompleted
	interview.FinishedAt = &now
	interview.Score = &score
	interview.Feedback = feedback
	if err := uc.repo.Update(ctx, interview); err != nil {
		return nil, err
	}

	uc.publish(ctx, eventbus.EventTypeInterviewFinished, interview)
	uc.broadcast("finished", interview)
	return interview, nil
}

// Abandon marks a scheduled or running interview as abandoned.
func (uc *InterviewUsecase) Abandon(ctx context.Context, userID, interviewID string) (*model.MockInterview, error) {
	interview, err := uc.repo.GetByID(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.CanAbandon() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot abandon interview in status %q", interview.Status))
	}

	now := uc.now()
	interview.Status = model.StatusAbandoned
	interview.FinishedAt = &now
	if err := uc.repo.Update(ctx, interview); err != nil {
		return nil, err
	}

	uc.publish(ctx, eventbus.EventTypeInterviewAbandoned, interview)
	uc.broadcast("abandoned", interview)
	return interview, nil
}

// GetInterview returns one interview owned by the caller.
func (uc *InterviewUsecase) GetInterview(ctx context.Context, userID, interviewID string) (*model.MockInterview, error) {
	return uc.repo.GetByID(ctx, userID, interviewID)
}

// ListInterviews returns the caller's interviews, newest first.
func (uc *InterviewUsecase) ListInterviews(ctx context.Context, userID string, limit, offset int64) ([]*model.MockInterview, error) {
	return uc.repo.ListByUser(ctx, userID, limit, offset)
}

func (uc *InterviewUsecase) publish(ctx context.Context, eventType string, interview *model.MockInterview) {
	if uc.events == nil {
		return
	}
	uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(eventType, map[string]string{
		"userId":      interview.UserID,
		"interviewId": interview.ID,
		"status":      interview.Status,
	}, "interview"))
}

func (uc *InterviewUsecase) broadcast(eventType string, interview *model.MockInterview) {
	if uc.feed == nil {
		return
	}
	uc.feed.Broadcast(interview.ID, LiveEvent{
		Type:      eventType,
		Interview: interview,
		At:        uc.now(),
	})
}

var _ InterviewUsecaseInterface = (*InterviewUsecase)(nil)
