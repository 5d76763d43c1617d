package repository

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations. Verify returns
// nil claims on any failure; callers treat nil as unauthenticated.
type TokenService interface {
	Issue(userID, username, sessionID string) (string, error)
	Verify(tokenString string) *Claims
}

// Claims represents JWT claims binding a user identity to a session.
type Claims struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	SessionID string `json:"sessionId,omitempty"`
	jwt.RegisteredClaims
}
