package http

import (
	"xandar-lab/internal/analytics/usecase"
	authhttp "xandar-lab/internal/auth/adapter/http"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHTTPHandler serves the read-only analytics endpoints.
type AnalyticsHTTPHandler struct {
	usecase usecase.AnalyticsUsecaseInterface
}

// NewAnalyticsHTTPHandler creates a new analytics HTTP handler
func NewAnalyticsHTTPHandler(uc usecase.AnalyticsUsecaseInterface) *AnalyticsHTTPHandler {
	return &AnalyticsHTTPHandler{usecase: uc}
}

// SetupRoutes registers the analytics routes.
func (h *AnalyticsHTTPHandler) SetupRoutes(router fiber.Router) {
	analytics := router.Group("/analytics")
	analytics.Get("/summary", h.Summary)
	analytics.Get("/streaks", h.Streaks)
	analytics.Get("/topics", h.Topics)
	analytics.Get("/difficulty", h.Difficulty)
	analytics.Get("/pitfalls", h.Pitfalls)
}

// Summary returns all-time totals and rolling-window deltas.
func (h *AnalyticsHTTPHandler) Summary(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	summary, err := h.usecase.Summary(c.Context(), principal.UserID)
	if err != nil {
		return failed(c, "Failed to compute summary")
	}
	return c.JSON(summary)
}

// Streaks returns the caller's activity streaks.
func (h *AnalyticsHTTPHandler) Streaks(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	streaks, err := h.usecase.Streaks(c.Context(), principal.UserID)
	if err != nil {
		return failed(c, "Failed to compute streaks")
	}
	return c.JSON(streaks)
}

// Topics returns per-topic proficiency rows.
func (h *AnalyticsHTTPHandler) Topics(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	topics, err := h.usecase.Topics(c.Context(), principal.UserID)
	if err != nil {
		return failed(c, "Failed to compute topic stats")
	}
	return c.JSON(fiber.Map{
		"topics": topics,
	})
}

// Difficulty returns the per-difficulty breakdown.
func (h *AnalyticsHTTPHandler) Difficulty(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.usecase.Difficulty(c.Context(), principal.UserID)
	if err != nil {
		return failed(c, "Failed to compute difficulty stats")
	}
	return c.JSON(fiber.Map{
		"difficulty": stats,
	})
}

// Pitfalls returns the caller's most frequent pitfall tags.
func (h *AnalyticsHTTPHandler) Pitfalls(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	pitfalls, err := h.usecase.Pitfalls(c.Context(), principal.UserID)
	if err != nil {
		return failed(c, "Failed to compute pitfall counts")
	}
	return c.JSON(fiber.Map{
		"pitfalls": pitfalls,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func failed(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}
