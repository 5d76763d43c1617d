package mongodb

import (
	"context"
	"time"

	"xandar-lab/internal/practice/domain/model"
	apperrors "xandar-lab/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultListLimit = 50

// MongoPracticeRepository implements PracticeRepository using MongoDB
type MongoPracticeRepository struct {
	db       *mongo.Database
	attempts *mongo.Collection
	users    *mongo.Collection
}

// NewMongoPracticeRepository creates a new MongoDB practice repository
func NewMongoPracticeRepository(db *mongo.Database) (*MongoPracticeRepository, error) {
	repo := &MongoPracticeRepository{
		db:       db,
		attempts: db.Collection("attempts"),
		users:    db.Collection("users"),
	}

	ctx := context.Background()

	// Listing and analytics both scan by owner and recency
	ownerIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "attempted_at", Value: -1}},
	}
	if _, err := repo.attempts.Indexes().CreateOne(ctx, ownerIndex); err != nil {
		return nil, err
	}

	topicIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "topic", Value: 1}},
	}
	if _, err := repo.attempts.Indexes().CreateOne(ctx, topicIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateAttempt inserts a new attempt document
func (r *MongoPracticeRepository) CreateAttempt(ctx context.Context, attempt *model.Attempt) error {
	now := time.Now()
	attempt.CreatedAt = now
	attempt.UpdatedAt = now
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = now
	}
	if attempt.Pitfalls == nil {
		attempt.Pitfalls = []string{}
	}

	_, err := r.attempts.InsertOne(ctx, attempt)
	return err
}

// GetAttempt fetches one attempt, owner-scoped.
func (r *MongoPracticeRepository) GetAttempt(ctx context.Context, userID, attemptID string) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.attempts.FindOne(ctx, bson.M{"id": attemptID, "user_id": userID}).Decode(&attempt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListAttempts returns a user's attempts, newest first, with optional
// topic/difficulty/outcome filters.
func (r *MongoPracticeRepository) ListAttempts(ctx context.Context, userID string, filter model.AttemptFilter) ([]*model.Attempt, error) {
	query := bson.M{"user_id": userID}
	if filter.Topic != "" {
		query["topic"] = filter.Topic
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.Outcome != "" {
		query["outcome"] = filter.Outcome
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "attempted_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := r.attempts.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	attempts := make([]*model.Attempt, 0)
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

// UpdateAttempt replaces the mutable fields of an attempt, owner-scoped.
func (r *MongoPracticeRepository) UpdateAttempt(ctx context.Context, attempt *model.Attempt) error {
	attempt.UpdatedAt = time.Now()
	res, err := r.attempts.UpdateOne(ctx,
		bson.M{"id": attempt.ID, "user_id": attempt.UserID},
		bson.M{"$set": bson.M{
			"title":        attempt.Title,
			"topic":        attempt.Topic,
			"difficulty":   attempt.Difficulty,
			"outcome":      attempt.Outcome,
			"duration_min": attempt.DurationMin,
			"pitfalls":     attempt.Pitfalls,
			"notes":        attempt.Notes,
			"attempted_at": attempt.AttemptedAt,
			"updated_at":   attempt.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrAttemptNotFound
	}
	return nil
}

// DeleteAttempt removes an attempt, owner-scoped.
func (r *MongoPracticeRepository) DeleteAttempt(ctx context.Context, userID, attemptID string) error {
	res, err := r.attempts.DeleteOne(ctx, bson.M{"id": attemptID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrAttemptNotFound
	}
	return nil
}

// MarkProblemCompleted adds the problem to the user's completed list.
func (r *MongoPracticeRepository) MarkProblemCompleted(ctx context.Context, userID, problemID string) error {
	return r.pushToUserList(ctx, userID, "completed_problems", problemID)
}

// SaveProblem adds the problem to the user's saved list.
func (r *MongoPracticeRepository) SaveProblem(ctx context.Context, userID, problemID string) error {
	return r.pushToUserList(ctx, userID, "saved_problems", problemID)
}

// UnsaveProblem removes the problem from the user's saved list.
func (r *MongoPracticeRepository) UnsaveProblem(ctx context.Context, userID, problemID string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
		"$pull": bson.M{"saved_problems": problemID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *MongoPracticeRepository) pushToUserList(ctx context.Context, userID, field, problemID string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
		"$addToSet": bson.M{field: problemID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
