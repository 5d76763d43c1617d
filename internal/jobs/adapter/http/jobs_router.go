package http

import (
	"strconv"

	authhttp "xandar-lab/internal/auth/adapter/http"
	"xandar-lab/internal/jobs/domain/model"
	"xandar-lab/internal/jobs/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// JobsHTTPHandler handles application-tracker and posting requests.
type JobsHTTPHandler struct {
	usecase usecase.JobsUsecaseInterface
}

// NewJobsHTTPHandler creates a new jobs HTTP handler
func NewJobsHTTPHandler(uc usecase.JobsUsecaseInterface) *JobsHTTPHandler {
	return &JobsHTTPHandler{usecase: uc}
}

// SetupRoutes registers application and posting routes.
func (h *JobsHTTPHandler) SetupRoutes(router fiber.Router) {
	applications := router.Group("/applications")
	applications.Post("/", h.CreateApplication)
	applications.Get("/", h.ListApplications)
	applications.Get("/:id", h.GetApplication)
	applications.Put("/:id", h.UpdateApplication)
	applications.Put("/:id/status", h.UpdateStatus)
	applications.Put("/:id/notes", h.UpdateNotes)
	applications.Delete("/:id", h.DeleteApplication)

	postings := router.Group("/postings")
	postings.Post("/capture", h.CapturePosting)
	postings.Get("/", h.ListPostings)
	postings.Delete("/:id", h.DeletePosting)
}

// CreateApplication creates a new tracked application.
func (h *JobsHTTPHandler) CreateApplication(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var app model.JobApplication
	if err := c.BodyParser(&app); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := h.usecase.CreateApplication(c.Context(), principal.UserID, &app)
	if err != nil {
		return jobsError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListApplications returns the caller's applications.
func (h *JobsHTTPHandler) ListApplications(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	apps, err := h.usecase.ListApplications(c.Context(), principal.UserID, c.Query("status"), limit, offset)
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(fiber.Map{
		"applications": apps,
		"total":        len(apps),
	})
}

// GetApplication returns one application owned by the caller.
func (h *JobsHTTPHandler) GetApplication(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	app, err := h.usecase.GetApplication(c.Context(), principal.UserID, c.Params("id"))
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(app)
}

// UpdateApplication replaces the metadata of an application.
func (h *JobsHTTPHandler) UpdateApplication(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var updates model.JobApplication
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	app, err := h.usecase.UpdateApplication(c.Context(), principal.UserID, c.Params("id"), &updates)
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(app)
}

// StatusRequest carries a status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus transitions an application to a new status.
func (h *JobsHTTPHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	app, err := h.usecase.UpdateStatus(c.Context(), principal.UserID, c.Params("id"), req.Status)
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(app)
}

// NotesRequest carries updated notes.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// UpdateNotes replaces the notes on an application.
func (h *JobsHTTPHandler) UpdateNotes(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var req NotesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	app, err := h.usecase.UpdateNotes(c.Context(), principal.UserID, c.Params("id"), req.Notes)
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(app)
}

// DeleteApplication removes an application owned by the caller.
func (h *JobsHTTPHandler) DeleteApplication(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.usecase.DeleteApplication(c.Context(), principal.UserID, c.Params("id")); err != nil {
		return jobsError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Application deleted",
	})
}

// CapturePosting stores a job posting for the caller.
func (h *JobsHTTPHandler) CapturePosting(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	var posting model.JobPosting
	if err := c.BodyParser(&posting); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	stored, err := h.usecase.CapturePosting(c.Context(), principal.UserID, &posting)
	if err != nil {
		return jobsError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// ListPostings returns the caller's captured postings.
func (h *JobsHTTPHandler) ListPostings(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	postings, err := h.usecase.ListPostings(c.Context(), principal.UserID, limit, offset)
	if err != nil {
		return jobsError(c, err)
	}
	return c.JSON(fiber.Map{
		"postings": postings,
		"total":    len(postings),
	})
}

// DeletePosting removes a captured posting owned by the caller.
func (h *JobsHTTPHandler) DeletePosting(c *fiber.Ctx) error {
	principal, err := authhttp.PrincipalFromContext(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.usecase.DeletePosting(c.Context(), principal.UserID, c.Params("id")); err != nil {
		return jobsError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Posting deleted",
	})
}

func jobsError(c *fiber.Ctx, err error) error {
	if apperrors.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}
	if apperrors.IsValidation(err) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Operation failed",
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
