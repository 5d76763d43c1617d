package repository

import (
	"context"

	"xandar-lab/internal/jobs/domain/model"
)

// JobsRepository defines persistence for applications and captured postings.
type JobsRepository interface {
	CreateApplication(ctx context.Context, app *model.JobApplication) error
	GetApplication(ctx context.Context, userID, appID string) (*model.JobApplication, error)
	UpdateApplication(ctx context.Context, app *model.JobApplication) error
	DeleteApplication(ctx context.Context, userID, appID string) error
	ListApplications(ctx context.Context, userID, status string, limit, offset int64) ([]*model.JobApplication, error)

	UpsertPosting(ctx context.Context, posting *model.JobPosting) (*model.JobPosting, error)
	ListPostings(ctx context.Context, userID string, limit, offset int64) ([]*model.JobPosting, error)
	DeletePosting(ctx context.Context, userID, postingID string) error
}
