package security_test

import (
	"testing"
	"time"

	"xandar-lab/internal/auth/adapter/security"
	"xandar-lab/internal/auth/config"
	"xandar-lab/internal/auth/domain/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService(t *testing.T, ttl time.Duration) *security.JWTokenService {
	t.Helper()
	svc, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey: "test-secret-key",
		JWTIssuer:    "test-issuer",
		TokenTTL:     ttl,
	})
	require.NoError(t, err)
	return svc
}

func TestJWTokenService_IssueAndVerify(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	token, err := svc.Issue("user-1", "alice", "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := svc.Verify(token)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestJWTokenService_IssueRequiresSessionID(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	_, err := svc.Issue("user-1", "alice", "")
	assert.Error(t, err)
}

func TestJWTokenService_VerifyExpiredReturnsNil(t *testing.T) {
	svc := newTokenService(t, time.Millisecond)

	token, err := svc.Issue("user-1", "alice", "session-1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.Nil(t, svc.Verify(token))
}

func TestJWTokenService_VerifyWrongKeyReturnsNil(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	other, err := security.NewJWTokenService(&config.Config{
		JWTSecretKey: "a-different-secret",
		JWTIssuer:    "test-issuer",
		TokenTTL:     time.Hour,
	})
	require.NoError(t, err)

	token, err := other.Issue("user-1", "alice", "session-1")
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(token))
}

func TestJWTokenService_VerifyGarbageReturnsNil(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	assert.Nil(t, svc.Verify(""))
	assert.Nil(t, svc.Verify("not-a-token"))
	assert.Nil(t, svc.Verify("aaa.bbb.ccc"))
}

func TestJWTokenService_VerifyRejectsNonHMACMethod(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &repository.Claims{
		UserID:    "user-1",
		Username:  "alice",
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(token))
}

func TestJWTokenService_LegacyTokenGetsSentinelSessionID(t *testing.T) {
	svc := newTokenService(t, time.Hour)

	// A token minted before sessions were bound into claims carries no
	// sessionId. It must still verify, with the sentinel filled in.
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, &repository.Claims{
		UserID:   "user-1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "test-issuer",
		},
	})
	token, err := legacy.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	claims := svc.Verify(token)
	require.NotNil(t, claims)
	assert.Equal(t, security.LegacySessionID, claims.SessionID)
}

func TestNewJWTokenService_RejectsBadConfig(t *testing.T) {
	_, err := security.NewJWTokenService(&config.Config{JWTIssuer: "i", TokenTTL: time.Hour})
	assert.Error(t, err, "empty secret")

	_, err = security.NewJWTokenService(&config.Config{JWTSecretKey: "k", TokenTTL: time.Hour})
	assert.Error(t, err, "empty issuer")

	_, err = security.NewJWTokenService(&config.Config{JWTSecretKey: "k", JWTIssuer: "i"})
	assert.Error(t, err, "zero TTL")
}
