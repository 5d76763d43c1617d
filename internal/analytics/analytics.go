package analytics

import (
	analyticshttp "xandar-lab/internal/analytics/adapter/http"
	"xandar-lab/internal/analytics/adapter/persistence/mongodb"
	"xandar-lab/internal/analytics/usecase"
	"xandar-lab/internal/shared/eventbus"
	"xandar-lab/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsModule bundles the progress-analytics feature.
type AnalyticsModule struct {
	repository *mongodb.MongoStatsRepository
	usecase    usecase.AnalyticsUsecaseInterface
	handler    *analyticshttp.AnalyticsHTTPHandler
}

// NewAnalyticsModule creates a new analytics module instance. The Redis
// client is optional.
func NewAnalyticsModule(db *mongo.Database, cache *redis.Client, log logger.Logger, events eventbus.EventBusInterface) *AnalyticsModule {
	repo := mongodb.NewMongoStatsRepository(db)
	uc := usecase.NewAnalyticsUsecase(repo, cache, log, events)
	handler := analyticshttp.NewAnalyticsHTTPHandler(uc)

	return &AnalyticsModule{
		repository: repo,
		usecase:    uc,
		handler:    handler,
	}
}

// RegisterRoutes registers analytics routes under /api/v1.
func (am *AnalyticsModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupRoutes(router.Group("/api/v1"))
}

// GetUsecase returns the analytics usecase for external access
func (am *AnalyticsModule) GetUsecase() usecase.AnalyticsUsecaseInterface {
	return am.usecase
}
