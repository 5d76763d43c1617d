package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"xandar-lab/internal/jobs/domain/model"
	"xandar-lab/internal/jobs/domain/repository"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/google/uuid"
)

// JobsUsecaseInterface defines application-tracker and posting operations.
type JobsUsecaseInterface interface {
	CreateApplication(ctx context.Context, userID string, app *model.JobApplication) (*model.JobApplication, error)
	GetApplication(ctx context.Context, userID, appID string) (*model.JobApplication, error)
	UpdateStatus(ctx context.Context, userID, appID, status string) (*model.JobApplication, error)
	UpdateApplication(ctx context.Context, userID, appID string, updates *model.JobApplication) (*model.JobApplication, error)
	UpdateNotes(ctx context.Context, userID, appID, notes string) (*model.JobApplication, error)
	DeleteApplication(ctx context.Context, userID, appID string) error
	ListApplications(ctx context.Context, userID, status string, limit, offset int64) ([]*model.JobApplication, error)

	CapturePosting(ctx context.Context, userID string, posting *model.JobPosting) (*model.JobPosting, error)
	ListPostings(ctx context.Context, userID string, limit, offset int64) ([]*model.JobPosting, error)
	DeletePosting(ctx context.Context, userID, postingID string) error
}

// JobsUsecase implements the job application tracker.
type JobsUsecase struct {
	repo repository.JobsRepository
	now  func() time.Time
}

// NewJobsUsecase creates a new jobs usecase
func NewJobsUsecase(repo repository.JobsRepository) *JobsUsecase {
	return &JobsUsecase{
		repo: repo,
		now:  time.Now,
	}
}

// CreateApplication validates and stores a new application. A missing status
// defaults to wishlist; anything outside the enum is rejected here, before it
// can reach storage.
func (uc *JobsUsecase) CreateApplication(ctx context.Context, userID string, app *model.JobApplication) (*model.JobApplication, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if app.Status == "" {
		app.Status = model.StatusWishlist
	}
	if err := app.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := uc.now()
	app.ID = uuid.NewString()
	app.UserID = userID
	app.CreatedAt = now
	app.UpdatedAt = now
	app.StatusHistory = []model.StatusChange{{Status: app.Status, ChangedAt: now}}

	if err := uc.repo.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// GetApplication returns one application owned by the caller.
func (uc *JobsUsecase) GetApplication(ctx context.Context, userID, appID string) (*model.JobApplication, error) {
	return uc.repo.GetApplication(ctx, userID, appID)
}

// UpdateStatus transitions an application to a new status.
func (uc *JobsUsecase) UpdateStatus(ctx context.Context, userID, appID, status string) (*model.JobApplication, error) {
	if !model.ValidStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status: %q", status)).WithCause(apperrors.ErrInvalidStatus)
	}

	app, err := uc.repo.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	if err := app.Transition(status, uc.now()); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.repo.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateApplication replaces the metadata of an application. Status is
// deliberately not touched here; transitions go through UpdateStatus so the
// history stays append-only.
func (uc *JobsUsecase) UpdateApplication(ctx context.Context, userID, appID string, updates *model.JobApplication) (*model.JobApplication, error) {
	app, err := uc.repo.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	app.Company = updates.Company
	app.Role = updates.Role
	app.URL = updates.URL
	app.Notes = updates.Notes
	if err := app.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	app.UpdatedAt = uc.now()

	if err := uc.repo.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateNotes replaces the free-form notes on an application.
func (uc *JobsUsecase) UpdateNotes(ctx context.Context, userID, appID, notes string) (*model.JobApplication, error) {
	app, err := uc.repo.GetApplication(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	app.Notes = notes
	app.UpdatedAt = uc.now()
	if err := uc.repo.UpdateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// DeleteApplication removes an application owned by the caller.
func (uc *JobsUsecase) DeleteApplication(ctx context.Context, userID, appID string) error {
	return uc.repo.DeleteApplication(ctx, userID, appID)
}

// ListApplications returns the caller's applications, optionally filtered by
// status.
func (uc *JobsUsecase) ListApplications(ctx context.Context, userID, status string, limit, offset int64) ([]*model.JobApplication, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status: %q", status)).WithCause(apperrors.ErrInvalidStatus)
	}
	return uc.repo.ListApplications(ctx, userID, status, limit, offset)
}

// CapturePosting stores a posting, refreshing metadata when the same URL is
// captured again.
func (uc *JobsUsecase) CapturePosting(ctx context.Context, userID string, posting *model.JobPosting) (*model.JobPosting, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	parsed, err := url.Parse(posting.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid posting URL: %q", posting.URL))
	}
	if posting.Title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	posting.ID = uuid.NewString()
	posting.UserID = userID
	posting.CapturedAt = uc.now()
	return uc.repo.UpsertPosting(ctx, posting)
}

// ListPostings returns the caller's captured postings.
func (uc *JobsUsecase) ListPostings(ctx context.Context, userID string, limit, offset int64) ([]*model.JobPosting, error) {
	return uc.repo.ListPostings(ctx, userID, limit, offset)
}

// DeletePosting removes a captured posting owned by the caller.
func (uc *JobsUsecase) DeletePosting(ctx context.Context, userID, postingID string) error {
	return uc.repo.DeletePosting(ctx, userID, postingID)
}

var _ JobsUsecaseInterface = (*JobsUsecase)(nil)
