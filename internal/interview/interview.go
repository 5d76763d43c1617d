package interview

import (
	"fmt"

	interviewhttp "xandar-lab/internal/interview/adapter/http"
	"xandar-lab/internal/interview/adapter/persistence/mongodb"
	"xandar-lab/internal/interview/domain/repository"
	"xandar-lab/internal/interview/usecase"
	"xandar-lab/internal/shared/eventbus"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// InterviewModule bundles the mock interview feature, including the
// WebSocket live feed.
type InterviewModule struct {
	repository repository.InterviewRepository
	usecase    usecase.InterviewUsecaseInterface
	handler    *interviewhttp.InterviewHTTPHandler
	wsHandler  *interviewhttp.WebSocketHandler
	hub        *interviewhttp.LiveHub
	zapLog     *zap.Logger
}

// NewInterviewModule creates a new interview module instance
func NewInterviewModule(db *mongo.Database, events eventbus.EventBusInterface) (*InterviewModule, error) {
	repo, err := mongodb.NewMongoInterviewRepository(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create interview repository: %w", err)
	}

	zapLog, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create realtime logger: %w", err)
	}

	hub := interviewhttp.NewLiveHub(zapLog)
	uc := usecase.NewInterviewUsecase(repo, events, hub)
	handler := interviewhttp.NewInterviewHTTPHandler(uc)
	wsHandler := interviewhttp.NewWebSocketHandler(uc, hub, zapLog)

	return &InterviewModule{
		repository: repo,
		usecase:    uc,
		handler:    handler,
		wsHandler:  wsHandler,
		hub:        hub,
		zapLog:     zapLog,
	}, nil
}

// RegisterRoutes registers REST routes under /api/v1 and the WebSocket
// endpoint at the app root.
func (im *InterviewModule) RegisterRoutes(router fiber.Router) {
	im.handler.SetupRoutes(router.Group("/api/v1"))
	im.wsHandler.RegisterRoutes(router)
}

// GetUsecase returns the interview usecase for external access
func (im *InterviewModule) GetUsecase() usecase.InterviewUsecaseInterface {
	return im.usecase
}

// Stop flushes the realtime logger.
func (im *InterviewModule) Stop() {
	_ = im.zapLog.Sync()
}
