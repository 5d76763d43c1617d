package mongodb

import (
	"context"
	"time"

	"xandar-lab/internal/auth/domain/model"
	apperrors "xandar-lab/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuthRepository implements the AuthRepository interface using MongoDB
type MongoAuthRepository struct {
	db    *mongo.Database
	users *mongo.Collection
}

// NewMongoAuthRepository creates a new MongoDB auth repository
func NewMongoAuthRepository(db *mongo.Database) (*MongoAuthRepository, error) {
	repo := &MongoAuthRepository{
		db:    db,
		users: db.Collection("users"),
	}

	ctx := context.Background()

	usernameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, usernameIndex); err != nil {
		return nil, err
	}

	// Sparse: documents created before string IDs were introduced lack it
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser creates a new user in the database
func (r *MongoAuthRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.LastLoginAt = now

	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	if user.Sessions == nil {
		user.Sessions = []model.Session{}
	}
	if user.CompletedProblems == nil {
		user.CompletedProblems = []string{}
	}
	if user.SavedProblems == nil {
		user.SavedProblems = []string{}
	}

	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrUsernameTaken
		}
		return err
	}
	return nil
}

// GetUserByUsername retrieves a user by username
func (r *MongoAuthRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *MongoAuthRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *MongoAuthRepository) UpdateProfile(ctx context.Context, userID, email, bio string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
		"$set": bson.M{"email": email, "bio": bio},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ReplaceSessions writes the whole session ledger back in one document
// update. Concurrent logins racing on eviction interleave; last writer wins.
func (r *MongoAuthRepository) ReplaceSessions(ctx context.Context, userID string, sessions []model.Session) error {
	if sessions == nil {
		sessions = []model.Session{}
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
		"$set": bson.M{"sessions": sessions},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// TouchLastLogin stamps the user's last-login timestamp.
func (r *MongoAuthRepository) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"id": userID}, bson.M{
		"$set": bson.M{"last_login_at": time.Now()},
	})
	return err
}
