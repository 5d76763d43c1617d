package usecase_test

import (
	"context"
	"testing"
	"time"

	"xandar-lab/internal/practice/domain/model"
	"xandar-lab/internal/practice/usecase"
	"xandar-lab/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type mockPracticeRepository struct {
	mock.Mock
}

func (m *mockPracticeRepository) CreateAttempt(ctx context.Context, attempt *model.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockPracticeRepository) GetAttempt(ctx context.Context, userID, attemptID string) (*model.Attempt, error) {
	args := m.Called(ctx, userID, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attempt), args.Error(1)
}

func (m *mockPracticeRepository) ListAttempts(ctx context.Context, userID string, filter model.AttemptFilter) ([]*model.Attempt, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Attempt), args.Error(1)
}

func (m *mockPracticeRepository) UpdateAttempt(ctx context.Context, attempt *model.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *mockPracticeRepository) DeleteAttempt(ctx context.Context, userID, attemptID string) error {
	args := m.Called(ctx, userID, attemptID)
	return args.Error(0)
}

func (m *mockPracticeRepository) MarkProblemCompleted(ctx context.Context, userID, problemID string) error {
	args := m.Called(ctx, userID, problemID)
	return args.Error(0)
}

func (m *mockPracticeRepository) SaveProblem(ctx context.Context, userID, problemID string) error {
	args := m.Called(ctx, userID, problemID)
	return args.Error(0)
}

func (m *mockPracticeRepository) UnsaveProblem(ctx context.Context, userID, problemID string) error {
	args := m.Called(ctx, userID, problemID)
	return args.Error(0)
}

type PracticeUsecaseTestSuite struct {
	suite.Suite
	mockRepo *mockPracticeRepository
	usecase  *usecase.PracticeUsecase
}

func (suite *PracticeUsecaseTestSuite) SetupTest() {
	suite.mockRepo = &mockPracticeRepository{}
	suite.usecase = usecase.NewPracticeUsecase(suite.mockRepo, nil)
}

func (suite *PracticeUsecaseTestSuite) validAttempt() *model.Attempt {
	return &model.Attempt{
		ProblemID:   "two-sum",
		Title:       "Two Sum",
		Topic:       "arrays",
		Difficulty:  model.DifficultyEasy,
		Outcome:     model.OutcomePartial,
		DurationMin: 25,
		Pitfalls:    []string{"off-by-one"},
	}
}

func (suite *PracticeUsecaseTestSuite) TestRecordAttempt_Success() {
	ctx := context.Background()
	attempt := suite.validAttempt()

	suite.mockRepo.On("CreateAttempt", ctx, mock.MatchedBy(func(a *model.Attempt) bool {
		return a.ID != "" && a.UserID == "u1"
	})).Return(nil)

	created, err := suite.usecase.RecordAttempt(ctx, "u1", attempt)

	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), created.ID)
	assert.Equal(suite.T(), "u1", created.UserID)
	suite.mockRepo.AssertNotCalled(suite.T(), "MarkProblemCompleted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PracticeUsecaseTestSuite) TestRecordAttempt_SolvedMarksCompleted() {
	ctx := context.Background()
	attempt := suite.validAttempt()
	attempt.Outcome = model.OutcomeSolved

	suite.mockRepo.On("CreateAttempt", ctx, mock.Anything).Return(nil)
	suite.mockRepo.On("MarkProblemCompleted", ctx, "u1", "two-sum").Return(nil)

	_, err := suite.usecase.RecordAttempt(ctx, "u1", attempt)

	require.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PracticeUsecaseTestSuite) TestRecordAttempt_InvalidDifficulty() {
	attempt := suite.validAttempt()
	attempt.Difficulty = "impossible"

	_, err := suite.usecase.RecordAttempt(context.Background(), "u1", attempt)

	assert.ErrorIs(suite.T(), err, model.ErrInvalidDifficulty)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateAttempt", mock.Anything, mock.Anything)
}

func (suite *PracticeUsecaseTestSuite) TestRecordAttempt_InvalidOutcome() {
	attempt := suite.validAttempt()
	attempt.Outcome = "gave-up"

	_, err := suite.usecase.RecordAttempt(context.Background(), "u1", attempt)

	assert.ErrorIs(suite.T(), err, model.ErrInvalidOutcome)
}

func (suite *PracticeUsecaseTestSuite) TestRecordAttempt_PublishesEvent() {
	ctx := context.Background()
	bus := eventbus.NewEventBus(nil)
	received := make(chan eventbus.Event, 1)
	bus.Subscribe(eventbus.EventTypeAttemptRecorded, func(ctx context.Context, event eventbus.Event) error {
		received <- event
		return nil
	})
	uc := usecase.NewPracticeUsecase(suite.mockRepo, bus)

	suite.mockRepo.On("CreateAttempt", ctx, mock.Anything).Return(nil)

	_, err := uc.RecordAttempt(ctx, "u1", suite.validAttempt())
	require.NoError(suite.T(), err)

	select {
	case event := <-received:
		data, ok := event.Data().(map[string]string)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), "u1", data["userId"])
	case <-time.After(time.Second):
		suite.T().Fatal("attempt.recorded event was not published")
	}
}

func (suite *PracticeUsecaseTestSuite) TestUpdateAttempt_Validates() {
	attempt := suite.validAttempt()
	attempt.ID = "a1"
	attempt.Topic = ""

	_, err := suite.usecase.UpdateAttempt(context.Background(), "u1", attempt)

	assert.Error(suite.T(), err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAttempt", mock.Anything, mock.Anything)
}

func (suite *PracticeUsecaseTestSuite) TestDeleteAttempt() {
	ctx := context.Background()
	suite.mockRepo.On("DeleteAttempt", ctx, "u1", "a1").Return(nil)

	err := suite.usecase.DeleteAttempt(ctx, "u1", "a1")

	require.NoError(suite.T(), err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPracticeUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(PracticeUsecaseTestSuite))
}
