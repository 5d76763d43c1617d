package repository

import (
	"context"

	"xandar-lab/internal/auth/domain/model"
)

// AuthRepository defines the interface for authentication data operations
type AuthRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, email, bio string) error

	// ReplaceSessions persists the whole ledger of a user in one document
	// write. Last writer wins (no optimistic-concurrency token).
	ReplaceSessions(ctx context.Context, userID string, sessions []model.Session) error
	TouchLastLogin(ctx context.Context, userID string) error
}
