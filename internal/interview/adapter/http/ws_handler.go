package http

import (
	"time"

	authhttp "xandar-lab/internal/auth/adapter/http"
	"xandar-lab/internal/interview/usecase"
	apperrors "xandar-lab/internal/shared/errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The server pings well inside the pong window so idle watchers stay
// connected.
const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 5 * time.Second
)

// WebSocketHandler streams interview status changes to watchers.
type WebSocketHandler struct {
	usecase usecase.InterviewUsecaseInterface
	hub     *LiveHub
	log     *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(uc usecase.InterviewUsecaseInterface, hub *LiveHub, log *zap.Logger) *WebSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebSocketHandler{usecase: uc, hub: hub, log: log}
}

// RegisterRoutes registers the WebSocket endpoint. The route guard has
// already injected the principal by the time the upgrade middleware runs.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router) {
	wsGroup := router.Group("/ws")

	wsGroup.Use("/interviews/:id", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		principal, err := authhttp.PrincipalFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		// Only the owner may watch the live feed.
		if _, err := h.usecase.GetInterview(c.Context(), principal.UserID, c.Params("id")); err != nil {
			if apperrors.IsNotFound(err) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Interview not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load interview",
			})
		}
		c.Locals("interviewID", c.Params("id"))
		return c.Next()
	})

	wsGroup.Get("/interviews/:id", websocket.New(h.handleConnection))
}

// handleConnection forwards hub events to the socket until the client
// disconnects.
func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	interviewID, _ := conn.Locals("interviewID").(string)
	watcherID := uuid.NewString()

	h.log.Info("interview watcher connected",
		zap.String("interviewID", interviewID),
		zap.String("watcherID", watcherID))

	events := h.hub.Watch(interviewID, watcherID)
	defer h.hub.Unwatch(interviewID, watcherID)

	done := make(chan struct{})

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine detects disconnection; pongs refresh the deadline.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Warn("interview watcher read error",
						zap.String("watcherID", watcherID),
						zap.Error(err))
				}
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			h.log.Info("interview watcher disconnected",
				zap.String("interviewID", interviewID),
				zap.String("watcherID", watcherID))
			return
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.log.Warn("failed to ping interview watcher",
					zap.String("watcherID", watcherID),
					zap.Error(err))
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.log.Warn("failed to write interview event",
					zap.String("watcherID", watcherID),
					zap.Error(err))
				return
			}
		}
	}
}
