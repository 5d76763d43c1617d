package http

import (
	"context"
	"errors"
	"strconv"

	authhttp "xandar-lab/internal/auth/adapter/http"
	"xandar-lab/internal/practice/domain/model"
	"xandar-lab/internal/practice/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// PracticeHTTPHandler handles attempt-tracking requests.
type PracticeHTTPHandler struct {
	usecase usecase.PracticeUsecaseInterface
}

// NewPracticeHTTPHandler creates a new practice HTTP handler
func NewPracticeHTTPHandler(uc usecase.PracticeUsecaseInterface) *PracticeHTTPHandler {
	return &PracticeHTTPHandler{usecase: uc}
}

// SetupRoutes registers attempt and problem-list routes. The route guard has
// already verified the token; handlers only need the injected principal.
func (h *PracticeHTTPHandler) SetupRoutes(router fiber.Router) {
	attempts := router.Group("/attempts")
	attempts.Post("/", h.RecordAttempt)
	attempts.Get("/", h.ListAttempts)
	attempts.Get("/:id", h.GetAttempt)
	attempts.Put("/:id", h.UpdateAttempt)
	attempts.Delete("/:id", h.DeleteAttempt)

	problems := router.Group("/problems")
	problems.Post("/:id/complete", h.CompleteProblem)
	problems.Post("/:id/save", h.SaveProblem)
	problems.Delete("/:id/save", h.UnsaveProblem)
}

// RecordAttempt creates a new attempt for the caller.
func (h *PracticeHTTPHandler) RecordAttempt(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var attempt model.Attempt
	if err := c.BodyParser(&attempt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := h.usecase.RecordAttempt(c.Context(), principal.UserID, &attempt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListAttempts returns the caller's attempts with optional filters.
func (h *PracticeHTTPHandler) ListAttempts(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	filter := model.AttemptFilter{
		Topic:      c.Query("topic"),
		Difficulty: c.Query("difficulty"),
		Outcome:    c.Query("outcome"),
		Limit:      limit,
		Offset:     offset,
	}

	attempts, err := h.usecase.ListAttempts(c.Context(), principal.UserID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list attempts",
		})
	}
	return c.JSON(fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}

// GetAttempt returns one attempt owned by the caller.
func (h *PracticeHTTPHandler) GetAttempt(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	attempt, err := h.usecase.GetAttempt(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAttemptNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Attempt not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get attempt",
		})
	}
	return c.JSON(attempt)
}

// UpdateAttempt edits an attempt owned by the caller.
func (h *PracticeHTTPHandler) UpdateAttempt(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var attempt model.Attempt
	if err := c.BodyParser(&attempt); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	attempt.ID = c.Params("id")

	updated, err := h.usecase.UpdateAttempt(c.Context(), principal.UserID, &attempt)
	if err != nil {
		if errors.Is(err, apperrors.ErrAttemptNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Attempt not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(updated)
}

// DeleteAttempt removes an attempt owned by the caller.
func (h *PracticeHTTPHandler) DeleteAttempt(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.usecase.DeleteAttempt(c.Context(), principal.UserID, c.Params("id")); err != nil {
		if errors.Is(err, apperrors.ErrAttemptNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Attempt not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete attempt",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Attempt deleted",
	})
}

// CompleteProblem marks a problem completed for the caller.
func (h *PracticeHTTPHandler) CompleteProblem(c *fiber.Ctx) error {
	return h.problemListOp(c, h.usecase.CompleteProblem, "Problem marked completed")
}

// SaveProblem adds a problem to the caller's saved list.
func (h *PracticeHTTPHandler) SaveProblem(c *fiber.Ctx) error {
	return h.problemListOp(c, h.usecase.SaveProblem, "Problem saved")
}

// UnsaveProblem removes a problem from the caller's saved list.
func (h *PracticeHTTPHandler) UnsaveProblem(c *fiber.Ctx) error {
	return h.problemListOp(c, h.usecase.UnsaveProblem, "Problem unsaved")
}

func (h *PracticeHTTPHandler) problemListOp(c *fiber.Ctx, op func(ctx context.Context, userID, problemID string) error, message string) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	problemID := c.Params("id")
	if problemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Problem ID required",
		})
	}

	if err := op(c.Context(), principal.UserID, problemID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update problem list",
		})
	}
	return c.JSON(fiber.Map{
		"message": message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
