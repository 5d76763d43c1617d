package http

import (
	"errors"
	"strconv"

	authhttp "xandar-lab/internal/auth/adapter/http"
	"xandar-lab/internal/interview/domain/model"
	"xandar-lab/internal/interview/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// InterviewHTTPHandler handles mock interview requests.
type InterviewHTTPHandler struct {
	usecase usecase.InterviewUsecaseInterface
}

// NewInterviewHTTPHandler creates a new interview HTTP handler
func NewInterviewHTTPHandler(uc usecase.InterviewUsecaseInterface) *InterviewHTTPHandler {
	return &InterviewHTTPHandler{usecase: uc}
}

// SetupRoutes registers the interview routes.
func (h *InterviewHTTPHandler) SetupRoutes(router fiber.Router) {
	interviews := router.Group("/interviews")
	interviews.Post("/", h.Schedule)
	interviews.Get("/", h.ListInterviews)
	interviews.Get("/:id", h.GetInterview)
	interviews.Post("/:id/start", h.Start)
	interviews.Post("/:id/finish", h.Finish)
	interviews.Post("/:id/abandon", h.Abandon)
}

// Schedule creates a new mock interview.
func (h *InterviewHTTPHandler) Schedule(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var config model.InterviewConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	interview, err := h.usecase.Schedule(c.Context(), principal.UserID, config)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(interview)
}

// ListInterviews returns the caller's interviews.
func (h *InterviewHTTPHandler) ListInterviews(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	interviews, err := h.usecase.ListInterviews(c.Context(), principal.UserID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interviews",
		})
	}
	return c.JSON(fiber.Map{
		"interviews": interviews,
		"total":      len(interviews),
	})
}

// GetInterview returns one interview owned by the caller.
func (h *InterviewHTTPHandler) GetInterview(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	interview, err := h.usecase.GetInterview(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return interviewError(c, err)
	}
	return c.JSON(interview)
}

// Start begins a scheduled interview.
func (h *InterviewHTTPHandler) Start(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	interview, err := h.usecase.Start(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return interviewError(c, err)
	}
	return c.JSON(interview)
}

// FinishRequest carries the closing score and feedback.
type FinishRequest struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Finish completes a running interview.
func (h *InterviewHTTPHandler) Finish(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req FinishRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	interview, err := h.usecase.Finish(c.Context(), principal.UserID, c.Params("id"), req.Score, req.Feedback)
	if err != nil {
		return interviewError(c, err)
	}
	return c.JSON(interview)
}

// Abandon marks an interview as abandoned.
func (h *InterviewHTTPHandler) Abandon(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	interview, err := h.usecase.Abandon(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return interviewError(c, err)
	}
	return c.JSON(interview)
}

func interviewError(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperrors.ErrInterviewNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}
	if apperrors.IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Interview operation failed",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
