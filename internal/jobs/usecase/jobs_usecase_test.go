package usecase_test

import (
	"context"
	"testing"

	"xandar-lab/internal/jobs/domain/model"
	"xandar-lab/internal/jobs/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type mockJobsRepository struct {
	mock.Mock
}

func (m *mockJobsRepository) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockJobsRepository) GetApplication(ctx context.Context, userID, appID string) (*model.JobApplication, error) {
	args := m.Called(ctx, userID, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobApplication), args.Error(1)
}

func (m *mockJobsRepository) UpdateApplication(ctx context.Context, app *model.JobApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *mockJobsRepository) DeleteApplication(ctx context.Context, userID, appID string) error {
	args := m.Called(ctx, userID, appID)
	return args.Error(0)
}

func (m *mockJobsRepository) ListApplications(ctx context.Context, userID, status string, limit, offset int64) ([]*model.JobApplication, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.JobApplication), args.Error(1)
}

func (m *mockJobsRepository) UpsertPosting(ctx context.Context, posting *model.JobPosting) (*model.JobPosting, error) {
	args := m.Called(ctx, posting)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.JobPosting), args.Error(1)
}

func (m *mockJobsRepository) ListPostings(ctx context.Context, userID string, limit, offset int64) ([]*model.JobPosting, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.JobPosting), args.Error(1)
}

func (m *mockJobsRepository) DeletePosting(ctx context.Context, userID, postingID string) error {
	args := m.Called(ctx, userID, postingID)
	return args.Error(0)
}

type JobsUsecaseTestSuite struct {
	suite.Suite
	mockRepo *mockJobsRepository
	usecase  *usecase.JobsUsecase
}

func (suite *JobsUsecaseTestSuite) SetupTest() {
	suite.mockRepo = &mockJobsRepository{}
	suite.usecase = usecase.NewJobsUsecase(suite.mockRepo)
}

func (suite *JobsUsecaseTestSuite) TestCreateApplication_DefaultsToWishlist() {
	ctx := context.Background()
	suite.mockRepo.On("CreateApplication", ctx, mock.MatchedBy(func(a *model.JobApplication) bool {
		return a.Status == model.StatusWishlist && len(a.StatusHistory) == 1
	})).Return(nil)

	app, err := suite.usecase.CreateApplication(ctx, "u1", &model.JobApplication{
		Company: "Acme",
		Role:    "Backend Engineer",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.StatusWishlist, app.Status)
	assert.NotEmpty(suite.T(), app.ID)
	assert.Equal(suite.T(), "u1", app.UserID)
}

func (suite *JobsUsecaseTestSuite) TestCreateApplication_RejectsUnknownStatus() {
	_, err := suite.usecase.CreateApplication(context.Background(), "u1", &model.JobApplication{
		Company: "Acme",
		Role:    "Backend Engineer",
		Status:  "ghosted",
	})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsValidation(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateApplication", mock.Anything, mock.Anything)
}

func (suite *JobsUsecaseTestSuite) TestCreateApplication_RequiresCompanyAndRole() {
	_, err := suite.usecase.CreateApplication(context.Background(), "u1", &model.JobApplication{Role: "Engineer"})
	assert.Error(suite.T(), err)

	_, err = suite.usecase.CreateApplication(context.Background(), "u1", &model.JobApplication{Company: "Acme"})
	assert.Error(suite.T(), err)
}

func (suite *JobsUsecaseTestSuite) TestUpdateStatus_AppendsHistory() {
	ctx := context.Background()
	suite.mockRepo.On("GetApplication", ctx, "u1", "a1").Return(&model.JobApplication{
		ID:      "a1",
		UserID:  "u1",
		Company: "Acme",
		Role:    "Backend Engineer",
		Status:  model.StatusApplied,
		StatusHistory: []model.StatusChange{
			{Status: model.StatusWishlist},
			{Status: model.StatusApplied},
		},
	}, nil)
	suite.mockRepo.On("UpdateApplication", ctx, mock.MatchedBy(func(a *model.JobApplication) bool {
		return a.Status == model.StatusScreen && len(a.StatusHistory) == 3
	})).Return(nil)

	app, err := suite.usecase.UpdateStatus(ctx, "u1", "a1", model.StatusScreen)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.StatusScreen, app.Status)
	assert.Equal(suite.T(), model.StatusScreen, app.StatusHistory[len(app.StatusHistory)-1].Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JobsUsecaseTestSuite) TestUpdateApplication_ReplacesMetadataKeepsStatus() {
	ctx := context.Background()
	suite.mockRepo.On("GetApplication", ctx, "u1", "a1").Return(&model.JobApplication{
		ID:      "a1",
		UserID:  "u1",
		Company: "Acme",
		Role:    "Backend Engineer",
		Status:  model.StatusInterview,
		StatusHistory: []model.StatusChange{
			{Status: model.StatusWishlist},
			{Status: model.StatusInterview},
		},
	}, nil)
	suite.mockRepo.On("UpdateApplication", ctx, mock.MatchedBy(func(a *model.JobApplication) bool {
		return a.Company == "Initech" && a.Status == model.StatusInterview && len(a.StatusHistory) == 2
	})).Return(nil)

	app, err := suite.usecase.UpdateApplication(ctx, "u1", "a1", &model.JobApplication{
		Company: "Initech",
		Role:    "Platform Engineer",
		Notes:   "referred by dana",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Initech", app.Company)
	assert.Equal(suite.T(), model.StatusInterview, app.Status, "metadata updates never touch status")
}

func (suite *JobsUsecaseTestSuite) TestUpdateApplication_RejectsEmptyCompany() {
	ctx := context.Background()
	suite.mockRepo.On("GetApplication", ctx, "u1", "a1").Return(&model.JobApplication{
		ID:      "a1",
		UserID:  "u1",
		Company: "Acme",
		Role:    "Backend Engineer",
		Status:  model.StatusApplied,
	}, nil)

	_, err := suite.usecase.UpdateApplication(ctx, "u1", "a1", &model.JobApplication{Role: "Engineer"})

	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsValidation(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateApplication", mock.Anything, mock.Anything)
}

func (suite *JobsUsecaseTestSuite) TestUpdateStatus_RejectsUnknownStatusBeforeLoad() {
	_, err := suite.usecase.UpdateStatus(context.Background(), "u1", "a1", "limbo")

	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidStatus)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetApplication", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JobsUsecaseTestSuite) TestUpdateStatus_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("GetApplication", ctx, "u1", "missing").Return(nil, apperrors.ErrApplicationNotFound)

	_, err := suite.usecase.UpdateStatus(ctx, "u1", "missing", model.StatusOffer)
	assert.ErrorIs(suite.T(), err, apperrors.ErrApplicationNotFound)
}

func (suite *JobsUsecaseTestSuite) TestListApplications_RejectsUnknownStatusFilter() {
	_, err := suite.usecase.ListApplications(context.Background(), "u1", "limbo", 10, 0)
	assert.Error(suite.T(), err)
}

func (suite *JobsUsecaseTestSuite) TestCapturePosting_Success() {
	ctx := context.Background()
	suite.mockRepo.On("UpsertPosting", ctx, mock.MatchedBy(func(p *model.JobPosting) bool {
		return p.ID != "" && p.UserID == "u1" && !p.CapturedAt.IsZero() &&
			p.Location == "Remote" &&
			p.Description == "Go services on the hiring team" &&
			p.Metadata["og:site_name"] == "ExampleJobs"
	})).Return(&model.JobPosting{ID: "p1", UserID: "u1", URL: "https://jobs.example.com/123"}, nil)

	posting, err := suite.usecase.CapturePosting(ctx, "u1", &model.JobPosting{
		URL:         "https://jobs.example.com/123",
		Title:       "Backend Engineer",
		Location:    "Remote",
		Description: "Go services on the hiring team",
		Metadata:    map[string]string{"og:site_name": "ExampleJobs"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "p1", posting.ID)
}

func (suite *JobsUsecaseTestSuite) TestCapturePosting_RejectsBadURL() {
	_, err := suite.usecase.CapturePosting(context.Background(), "u1", &model.JobPosting{
		URL:   "not a url",
		Title: "Backend Engineer",
	})
	assert.Error(suite.T(), err)

	_, err = suite.usecase.CapturePosting(context.Background(), "u1", &model.JobPosting{
		URL:   "/relative/path",
		Title: "Backend Engineer",
	})
	assert.Error(suite.T(), err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertPosting", mock.Anything, mock.Anything)
}

func (suite *JobsUsecaseTestSuite) TestCapturePosting_RequiresTitle() {
	_, err := suite.usecase.CapturePosting(context.Background(), "u1", &model.JobPosting{
		URL: "https://jobs.example.com/123",
	})
	assert.Error(suite.T(), err)
}

func TestJobsUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(JobsUsecaseTestSuite))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"wishlist", "applied", "screen", "interview", "offer", "rejected"} {
		assert.True(t, model.ValidStatus(s), s)
	}
	assert.False(t, model.ValidStatus(""))
	assert.False(t, model.ValidStatus("Applied"), "statuses are case sensitive")
	assert.False(t, model.ValidStatus("ghosted"))
}
