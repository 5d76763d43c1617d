package http

import (
	"errors"
	"time"

	"xandar-lab/internal/auth/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication and device
// self-management.
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieMaxAge   int
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cookieName, cookiePath, cookieDomain string,
	cookieMaxAge int,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieMaxAge:   cookieMaxAge,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes. Session and
// profile routes use the strong Protect check so a session revoked from
// another device is rejected immediately, not at token expiry.
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/login", middleware.RateLimiter(), h.Login)

	protected := router.Group("/", middleware.Protect())
	protected.Post("/logout", h.Logout)
	protected.Get("/me", h.GetCurrentUser)
	protected.Put("/profile", h.UpdateProfile)
	protected.Get("/sessions", h.ListSessions)
	protected.Delete("/sessions/:sessionId", h.RevokeSession)
	protected.Post("/sessions/revoke-others", h.RevokeOtherSessions)
}

// Login handles combined signup/login gated by the invite code.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Device = c.Get("User-Agent", "unknown device")
	req.IP = c.Get("X-Forwarded-For", c.IP())

	result, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Username already taken",
			})
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid username or password",
			})
		case errors.Is(err, apperrors.ErrInvalidInviteCode):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid invite code",
			})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	h.setCookie(c, result.Token)

	return c.JSON(fiber.Map{
		"user":  result.User,
		"token": result.Token,
	})
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.usecase.Logout(c.Context(), principal); err != nil && !errors.Is(err, apperrors.ErrSessionNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log out",
		})
	}

	h.clearCookie(c)
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the caller's profile.
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	user, err := h.usecase.GetUserByID(c.Context(), principal.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return c.JSON(user)
}

// UpdateProfile updates the caller's email and bio.
func (h *AuthHTTPHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req struct {
		Email string `json:"email"`
		Bio   string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.usecase.UpdateProfile(c.Context(), principal, req.Email, req.Bio)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(user)
}

// ListSessions returns the caller's active devices, current-flagged.
func (h *AuthHTTPHandler) ListSessions(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	sessions, err := h.usecase.ListSessions(c.Context(), principal)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list sessions",
		})
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// RevokeSession removes one device session. Revoking the caller's own
// session also clears the cookie and logs the caller out.
func (h *AuthHTTPHandler) RevokeSession(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID required",
		})
	}

	ownSession, err := h.usecase.RevokeSession(c.Context(), principal, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Session not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to revoke session",
		})
	}

	if ownSession {
		h.clearCookie(c)
	}
	return c.JSON(fiber.Map{
		"message":   "Session revoked",
		"loggedOut": ownSession,
	})
}

// RevokeOtherSessions removes every session except the caller's own.
func (h *AuthHTTPHandler) RevokeOtherSessions(c *fiber.Ctx) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if err := h.usecase.RevokeOtherSessions(c.Context(), principal); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to revoke sessions",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Other sessions revoked",
	})
}

// Helper methods

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(time.Duration(h.cookieMaxAge) * time.Second),
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
