package mongodb

import (
	"context"
	"errors"
	"fmt"

	"xandar-lab/internal/jobs/domain/model"
	apperrors "xandar-lab/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoJobsRepository implements JobsRepository using MongoDB.
type MongoJobsRepository struct {
	applications *mongo.Collection
	postings     *mongo.Collection
}

// NewMongoJobsRepository creates a new MongoDB jobs repository
func NewMongoJobsRepository(db *mongo.Database) (*MongoJobsRepository, error) {
	repo := &MongoJobsRepository{
		applications: db.Collection("applications"),
		postings:     db.Collection("postings"),
	}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create jobs indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoJobsRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.applications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	// One posting per user per URL, enforced at the database level.
	_, err = r.postings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "url", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// CreateApplication inserts a new application document.
func (r *MongoJobsRepository) CreateApplication(ctx context.Context, app *model.JobApplication) error {
	_, err := r.applications.InsertOne(ctx, app)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetApplication returns one application owned by the user.
func (r *MongoJobsRepository) GetApplication(ctx context.Context, userID, appID string) (*model.JobApplication, error) {
	var app model.JobApplication
	err := r.applications.FindOne(ctx, bson.M{
		"id":      appID,
		"user_id": userID,
	}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// UpdateApplication replaces the application document.
func (r *MongoJobsRepository) UpdateApplication(ctx context.Context, app *model.JobApplication) error {
	result, err := r.applications.ReplaceOne(ctx, bson.M{
		"id":      app.ID,
		"user_id": app.UserID,
	}, app)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// DeleteApplication removes an application owned by the user.
func (r *MongoJobsRepository) DeleteApplication(ctx context.Context, userID, appID string) error {
	result, err := r.applications.DeleteOne(ctx, bson.M{
		"id":      appID,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// ListApplications returns the user's applications, optionally filtered by
// status, newest first.
func (r *MongoJobsRepository) ListApplications(ctx context.Context, userID, status string, limit, offset int64) ([]*model.JobApplication, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.applications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps := make([]*model.JobApplication, 0)
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode applications: %w", err)
	}
	return apps, nil
}

// UpsertPosting captures a posting, keyed by user and URL. Capturing the same
// URL twice refreshes the metadata instead of creating a duplicate.
func (r *MongoJobsRepository) UpsertPosting(ctx context.Context, posting *model.JobPosting) (*model.JobPosting, error) {
	filter := bson.M{
		"user_id": posting.UserID,
		"url":     posting.URL,
	}
	update := bson.M{
		"$set": bson.M{
			"title":       posting.Title,
			"company":     posting.Company,
			"location":    posting.Location,
			"description": posting.Description,
			"source":      posting.Source,
			"metadata":    posting.Metadata,
			"captured_at": posting.CapturedAt,
		},
		"$setOnInsert": bson.M{
			"id":      posting.ID,
			"user_id": posting.UserID,
			"url":     posting.URL,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.JobPosting
	if err := r.postings.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to capture posting: %w", err)
	}
	return &stored, nil
}

// ListPostings returns the user's captured postings, newest first.
func (r *MongoJobsRepository) ListPostings(ctx context.Context, userID string, limit, offset int64) ([]*model.JobPosting, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "captured_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.postings.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	defer cursor.Close(ctx)

	postings := make([]*model.JobPosting, 0)
	if err := cursor.All(ctx, &postings); err != nil {
		return nil, fmt.Errorf("failed to decode postings: %w", err)
	}
	return postings, nil
}

// DeletePosting removes a captured posting owned by the user.
func (r *MongoJobsRepository) DeletePosting(ctx context.Context, userID, postingID string) error {
	result, err := r.postings.DeleteOne(ctx, bson.M{
		"id":      postingID,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("failed to delete posting: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrPostingNotFound
	}
	return nil
}
