package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity record. Sessions are embedded so that ledger
// mutations are single-document writes (last writer wins, no optimistic
// concurrency token).
type User struct {
	ID                string             `json:"id" bson:"id,omitempty"`
	ObjectID          primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Username          string             `json:"username" bson:"username"`
	PasswordHash      string             `json:"-" bson:"password_hash,omitempty"`
	Email             string             `json:"email,omitempty" bson:"email,omitempty"`
	Bio               string             `json:"bio,omitempty" bson:"bio,omitempty"`
	CompletedProblems []string           `json:"completedProblems" bson:"completed_problems"`
	SavedProblems     []string           `json:"savedProblems" bson:"saved_problems"`
	Sessions          []Session          `json:"-" bson:"sessions"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	LastLoginAt       time.Time          `json:"last_login_at" bson:"last_login_at"`
}

// HasPassword reports whether the account carries a password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
