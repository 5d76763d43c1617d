package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"xandar-lab/internal/auth/adapter/security"
	"xandar-lab/internal/auth/config"
	"xandar-lab/internal/auth/domain/model"
	"xandar-lab/internal/auth/domain/repository"
	apperrors "xandar-lab/internal/shared/errors"
	"xandar-lab/internal/shared/eventbus"

	"github.com/google/uuid"
)

var (
	ErrUsernameTaken      = apperrors.ErrUsernameTaken
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrInvalidInviteCode  = apperrors.ErrInvalidInviteCode
	ErrSessionNotFound    = apperrors.ErrSessionNotFound
	ErrTokenInvalid       = apperrors.ErrInvalidToken
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
	ErrInvalidUsername    = errors.New("invalid username format")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// Principal is the request-scoped identity produced by full validation and
// passed explicitly through call chains.
type Principal struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	SessionID string `json:"sessionId"`
}

// LoginRequest is the single entry point for signup and login, both gated
// by the static invite code.
type LoginRequest struct {
	Username   string `json:"username"`
	InviteCode string `json:"inviteCode"`
	Password   string `json:"password,omitempty"`
	IsSignUp   bool   `json:"isSignUp"`

	// Filled by the HTTP layer, not the client body.
	Device string `json:"-"`
	IP     string `json:"-"`
}

// LoginResult carries the minted token and the user it authenticates.
type LoginResult struct {
	User  *model.User
	Token string
}

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, principal Principal) error
	// Verify is the cheap edge check: signature and expiry only.
	Verify(tokenString string) *repository.Claims
	// Validate is the strong check: Verify plus ledger liveness.
	Validate(ctx context.Context, tokenString string) (*Principal, error)
	ListSessions(ctx context.Context, principal Principal) ([]model.SessionView, error)
	RevokeSession(ctx context.Context, principal Principal, sessionID string) (ownSession bool, err error)
	RevokeOtherSessions(ctx context.Context, principal Principal) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, principal Principal, email, bio string) (*model.User, error)
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.AuthRepository
	tokenSvc repository.TokenService
	config   *config.Config
	events   eventbus.EventBusInterface
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.AuthRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
	events eventbus.EventBusInterface,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		config:   cfg,
		events:   events,
	}
}

func (uc *AuthUsecase) validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func (uc *AuthUsecase) validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}
	return nil
}

// Login authenticates or registers a user and admits a new session into the
// ledger, evicting the least-recently-active entry when over capacity.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := uc.validateUsername(req.Username); err != nil {
		return nil, err
	}
	if req.InviteCode != uc.config.InviteCode {
		return nil, ErrInvalidInviteCode
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	var user *model.User
	if req.IsSignUp {
		existing, err := uc.repo.GetUserByUsername(ctx, username)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}

		user = &model.User{
			ID:       uuid.New().String(),
			Username: username,
		}
		if req.Password != "" {
			if err := uc.validatePassword(req.Password); err != nil {
				return nil, err
			}
			hash, err := security.HashPassword(req.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			user.PasswordHash = hash
		}
		if err := uc.repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
	} else {
		var err error
		user, err = uc.repo.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user.HasPassword() && !security.VerifyPassword(req.Password, user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
	}

	now := time.Now()
	session := model.Session{
		ID:           uuid.New().String(),
		Device:       req.Device,
		IP:           req.IP,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(uc.config.TokenTTL),
	}

	ledger := model.NewSessionLedger(user.Sessions, uc.config.MaxSessionsPerUser)
	ledger.Admit(session)
	if err := uc.repo.ReplaceSessions(ctx, user.ID, ledger.Sessions); err != nil {
		return nil, fmt.Errorf("failed to persist session ledger: %w", err)
	}
	user.Sessions = ledger.Sessions

	if err := uc.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	// Invariant: the minted token's sessionId has a ledger entry by now.
	token, err := uc.tokenSvc.Issue(user.ID, user.Username, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if uc.events != nil {
		uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
			eventbus.EventTypeUserAuthenticated,
			map[string]string{"userId": user.ID, "sessionId": session.ID},
			"auth",
		))
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Token: token}, nil
}

// Logout revokes the caller's current session.
func (uc *AuthUsecase) Logout(ctx context.Context, principal Principal) error {
	_, err := uc.RevokeSession(ctx, principal, principal.SessionID)
	return err
}

// Verify performs the cheap cryptographic check used by the route guard.
func (uc *AuthUsecase) Verify(tokenString string) *repository.Claims {
	return uc.tokenSvc.Verify(tokenString)
}

// Validate cross-checks a verified token against the session ledger. A token
// whose session was revoked from another device fails here even though its
// signature is still good; that is what makes remote logout immediate.
func (uc *AuthUsecase) Validate(ctx context.Context, tokenString string) (*Principal, error) {
	claims := uc.tokenSvc.Verify(tokenString)
	if claims == nil {
		return nil, ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	ledger := model.NewSessionLedger(user.Sessions, uc.config.MaxSessionsPerUser)
	if ledger.Find(claims.SessionID, time.Now()) == nil {
		return nil, ErrTokenInvalid
	}

	return &Principal{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: claims.SessionID,
	}, nil
}

// ListSessions returns the caller's active sessions, current-flagged, most
// recently active first.
func (uc *AuthUsecase) ListSessions(ctx context.Context, principal Principal) ([]model.SessionView, error) {
	user, err := uc.repo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	ledger := model.NewSessionLedger(user.Sessions, uc.config.MaxSessionsPerUser)
	ledger.Touch(principal.SessionID, time.Now())
	if err := uc.repo.ReplaceSessions(ctx, user.ID, ledger.Sessions); err != nil {
		return nil, err
	}
	return ledger.Active(time.Now(), principal.SessionID), nil
}

// RevokeSession removes the given session from the caller's ledger. When the
// revoked session is the caller's own, the HTTP layer must clear the cookie
// and treat the caller as logged out.
func (uc *AuthUsecase) RevokeSession(ctx context.Context, principal Principal, sessionID string) (bool, error) {
	user, err := uc.repo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return false, err
	}

	ledger := model.NewSessionLedger(user.Sessions, uc.config.MaxSessionsPerUser)
	if !ledger.Revoke(sessionID) {
		return false, ErrSessionNotFound
	}
	if err := uc.repo.ReplaceSessions(ctx, user.ID, ledger.Sessions); err != nil {
		return false, err
	}

	if uc.events != nil {
		uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
			eventbus.EventTypeSessionRevoked,
			map[string]string{"userId": user.ID, "sessionId": sessionID},
			"auth",
		))
	}

	return sessionID == principal.SessionID, nil
}

// RevokeOtherSessions removes every ledger entry except the caller's own.
func (uc *AuthUsecase) RevokeOtherSessions(ctx context.Context, principal Principal) error {
	user, err := uc.repo.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return err
	}

	ledger := model.NewSessionLedger(user.Sessions, uc.config.MaxSessionsPerUser)
	ledger.RevokeAllExcept(principal.SessionID)
	if err := uc.repo.ReplaceSessions(ctx, user.ID, ledger.Sessions); err != nil {
		return err
	}

	if uc.events != nil {
		uc.events.PublishAndForget(ctx, eventbus.NewBasicEventWithSource(
			eventbus.EventTypeSessionRevoked,
			map[string]string{"userId": user.ID, "sessionId": "*"},
			"auth",
		))
	}
	return nil
}

// GetUserByID retrieves a user by ID with the password hash cleared.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile updates the caller's email and bio.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, principal Principal, email, bio string) (*model.User, error) {
	if err := uc.repo.UpdateProfile(ctx, principal.UserID, email, bio); err != nil {
		return nil, err
	}
	return uc.GetUserByID(ctx, principal.UserID)
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
