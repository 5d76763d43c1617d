package http

import (
	"strings"
	"time"

	"xandar-lab/internal/auth/usecase"
	"xandar-lab/internal/shared/contextkeys"
	"xandar-lab/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Path prefixes gated by the route guard. UI prefixes redirect to the login
// entry point on failure; API prefixes answer 401 JSON.
var (
	protectedPagePrefixes = []string{
		"/dashboard",
		"/problems",
		"/analytics",
		"/interviews",
		"/applications",
		"/settings",
	}
	protectedAPIPrefixes = []string{
		"/api/v1/attempts",
		"/api/v1/problems",
		"/api/v1/analytics",
		"/api/v1/interviews",
		"/api/v1/applications",
		"/api/v1/postings",
		"/api/v1/auth/me",
		"/api/v1/auth/sessions",
		"/api/v1/auth/profile",
		"/api/v1/auth/logout",
		"/ws/interviews",
	}
)

const loginPath = "/login"

// AuthMiddleware provides the route guard and the strong per-handler check.
// It carries the full cookie configuration so its clears match the cookies
// the auth handler sets.
type AuthMiddleware struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName, cookiePath, cookieDomain string, cookieSecure, cookieHTTPOnly bool, cookieSameSite string) *AuthMiddleware {
	return &AuthMiddleware{
		usecase:        uc,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// CORS middleware for the web app and the browser extensions
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

// SecurityHeaders adds security headers
func (m *AuthMiddleware) SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RateLimiter creates rate limiting middleware for the login endpoint
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RouteGuard is the first gate on every request. For guarded prefixes it
// requires the auth cookie and verifies signature + expiry ONLY; ledger
// liveness is deliberately not checked here so the guard stays off the
// database. Handlers touching user state revalidate through Protect, which
// catches sessions revoked from another device. Auth failures fail closed:
// the cookie is cleared and the request is redirected (pages) or rejected
// with 401 (API).
func (m *AuthMiddleware) RouteGuard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		isAPI := hasPrefix(path, protectedAPIPrefixes)
		isPage := !isAPI && hasPrefix(path, protectedPagePrefixes)
		if !isAPI && !isPage {
			return c.Next()
		}

		token := c.Cookies(m.cookieName)
		if token == "" {
			return m.reject(c, isAPI)
		}

		claims := m.usecase.Verify(token)
		if claims == nil {
			m.clearCookie(c)
			return m.reject(c, isAPI)
		}

		ctx := c.UserContext()
		ctx = utils.WithUserID(ctx, claims.UserID)
		ctx = utils.WithUsername(ctx, claims.Username)
		ctx = utils.WithSessionID(ctx, claims.SessionID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// Protect returns middleware performing the strong check: signature, expiry,
// and a live ledger entry for the token's session. Use on endpoints where a
// remotely revoked session must be rejected immediately.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(m.cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		principal, err := m.usecase.Validate(c.Context(), token)
		if err != nil || principal == nil {
			m.clearCookie(c)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or revoked session",
			})
		}

		ctx := c.UserContext()
		ctx = utils.WithUserID(ctx, principal.UserID)
		ctx = utils.WithUsername(ctx, principal.Username)
		ctx = utils.WithSessionID(ctx, principal.SessionID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, isAPI bool) error {
	if isAPI {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return c.Redirect(loginPath, fiber.StatusFound)
}

func (m *AuthMiddleware) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.cookiePath,
		Domain:   m.cookieDomain,
		MaxAge:   -1,
		Secure:   m.cookieSecure,
		HTTPOnly: m.cookieHTTPOnly,
		SameSite: m.cookieSameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// PrincipalFromContext assembles the request principal injected by the
// guard or Protect middleware.
func PrincipalFromContext(c *fiber.Ctx) (usecase.Principal, error) {
	ctx := c.UserContext()
	userID, err := utils.GetUserIDFromContext(ctx)
	if err != nil {
		return usecase.Principal{}, err
	}
	username, _ := utils.GetUsernameFromContext(ctx)
	sessionID, _ := utils.GetSessionIDFromContext(ctx)
	return usecase.Principal{UserID: userID, Username: username, SessionID: sessionID}, nil
}
