package practice

import (
	"fmt"

	practicehttp "xandar-lab/internal/practice/adapter/http"
	"xandar-lab/internal/practice/adapter/persistence/mongodb"
	"xandar-lab/internal/practice/domain/repository"
	"xandar-lab/internal/practice/usecase"
	"xandar-lab/internal/shared/eventbus"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// PracticeModule bundles the attempt-tracking feature.
type PracticeModule struct {
	repository repository.PracticeRepository
	usecase    usecase.PracticeUsecaseInterface
	handler    *practicehttp.PracticeHTTPHandler
}

// NewPracticeModule creates a new practice module instance
func NewPracticeModule(db *mongo.Database, events eventbus.EventBusInterface) (*PracticeModule, error) {
	repo, err := mongodb.NewMongoPracticeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create practice repository: %w", err)
	}

	uc := usecase.NewPracticeUsecase(repo, events)
	handler := practicehttp.NewPracticeHTTPHandler(uc)

	return &PracticeModule{
		repository: repo,
		usecase:    uc,
		handler:    handler,
	}, nil
}

// RegisterRoutes registers practice routes under /api/v1.
func (pm *PracticeModule) RegisterRoutes(router fiber.Router) {
	pm.handler.SetupRoutes(router.Group("/api/v1"))
}

// GetUsecase returns the practice usecase for external access
func (pm *PracticeModule) GetUsecase() usecase.PracticeUsecaseInterface {
	return pm.usecase
}
