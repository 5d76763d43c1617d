package security

import (
	"errors"
	"time"

	"xandar-lab/internal/auth/config"
	"xandar-lab/internal/auth/domain/repository"

	"github.com/golang-jwt/jwt/v5"
)

// LegacySessionID is assigned to verified tokens minted before sessions were
// bound into claims. Ledger lookup for it always misses (session IDs are
// uuids), so full validation fails closed while plain verification survives
// format evolution.
const LegacySessionID = "legacy"

// JWTokenService implements signed-token issuance and verification (HS256).
type JWTokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewJWTokenService creates a new JWT token service
func NewJWTokenService(cfg *config.Config) (*JWTokenService, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	if cfg.JWTIssuer == "" {
		return nil, errors.New("jwt issuer cannot be empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt token TTL must be positive")
	}

	return &JWTokenService{
		secretKey: []byte(cfg.JWTSecretKey),
		issuer:    cfg.JWTIssuer,
		ttl:       cfg.TokenTTL,
	}, nil
}

// Issue produces a signed token binding the user identity to a session ID,
// with absolute expiry ttl from now.
func (s *JWTokenService) Issue(userID, username, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id is required at mint time")
	}
	now := time.Now()
	claims := &repository.Claims{
		UserID:    userID,
		Username:  username,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify checks signature and expiry only. Any failure (bad signature,
// expired, malformed) yields nil; no error is surfaced to the caller.
func (s *JWTokenService) Verify(tokenString string) *repository.Claims {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &repository.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*repository.Claims)
	if !ok {
		return nil
	}

	if claims.SessionID == "" {
		claims.SessionID = LegacySessionID
	}

	return claims
}
