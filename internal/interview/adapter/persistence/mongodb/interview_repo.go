package mongodb

import (
	"context"
	"errors"
	"fmt"

	"xandar-lab/internal/interview/domain/model"
	apperrors "xandar-lab/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInterviewRepository implements InterviewRepository using MongoDB.
type MongoInterviewRepository struct {
	collection *mongo.Collection
}

// NewMongoInterviewRepository creates a new MongoDB interview repository
func NewMongoInterviewRepository(db *mongo.Database) (*MongoInterviewRepository, error) {
	repo := &MongoInterviewRepository{
		collection: db.Collection("interviews"),
	}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create interview indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoInterviewRepository) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new interview document.
func (r *MongoInterviewRepository) Create(ctx context.Context, interview *model.MockInterview) error {
	_, err := r.collection.InsertOne(ctx, interview)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// GetByID returns one interview owned by the user.
func (r *MongoInterviewRepository) GetByID(ctx context.Context, userID, interviewID string) (*model.MockInterview, error) {
	var interview model.MockInterview
	err := r.collection.FindOne(ctx, bson.M{
		"id":      interviewID,
		"user_id": userID,
	}).Decode(&interview)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &interview, nil
}

// Update replaces the interview document. Ownership is part of the filter so
// a user can never touch another user's interview.
func (r *MongoInterviewRepository) Update(ctx context.Context, interview *model.MockInterview) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{
		"id":      interview.ID,
		"user_id": interview.UserID,
	}, interview)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrInterviewNotFound
	}
	return nil
}

// ListByUser returns the user's interviews, newest first.
func (r *MongoInterviewRepository) ListByUser(ctx context.Context, userID string, limit, offset int64) ([]*model.MockInterview, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer cursor.Close(ctx)

	interviews := make([]*model.MockInterview, 0)
	if err := cursor.All(ctx, &interviews); err != nil {
		return nil, fmt.Errorf("failed to decode interviews: %w", err)
	}
	return interviews, nil
}
