package repository

import (
	"context"

	"xandar-lab/internal/interview/domain/model"
)

// InterviewRepository defines persistence operations for mock interviews.
type InterviewRepository interface {
	Create(ctx context.Context, interview *model.MockInterview) error
	GetByID(ctx context.Context, userID, interviewID string) (*model.MockInterview, error)
	Update(ctx context.Context, interview *model.MockInterview) error
	ListByUser(ctx context.Context, userID string, limit, offset int64) ([]*model.MockInterview, error)
}
