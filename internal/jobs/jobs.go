package jobs

import (
	"fmt"

	jobshttp "xandar-lab/internal/jobs/adapter/http"
	"xandar-lab/internal/jobs/adapter/persistence/mongodb"
	"xandar-lab/internal/jobs/domain/repository"
	"xandar-lab/internal/jobs/usecase"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// JobsModule bundles the application tracker and posting capture feature.
type JobsModule struct {
	repository repository.JobsRepository
	usecase    usecase.JobsUsecaseInterface
	handler    *jobshttp.JobsHTTPHandler
}

// NewJobsModule creates a new jobs module instance
func NewJobsModule(db *mongo.Database) (*JobsModule, error) {
	repo, err := mongodb.NewMongoJobsRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create jobs repository: %w", err)
	}

	uc := usecase.NewJobsUsecase(repo)
	handler := jobshttp.NewJobsHTTPHandler(uc)

	return &JobsModule{
		repository: repo,
		usecase:    uc,
		handler:    handler,
	}, nil
}

// RegisterRoutes registers jobs routes under /api/v1.
func (jm *JobsModule) RegisterRoutes(router fiber.Router) {
	jm.handler.SetupRoutes(router.Group("/api/v1"))
}

// GetUsecase returns the jobs usecase for external access
func (jm *JobsModule) GetUsecase() usecase.JobsUsecaseInterface {
	return jm.usecase
}
