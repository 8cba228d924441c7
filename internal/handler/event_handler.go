package handler

import (
	"td-generator-be/internal/pkg/logger"
	"td-generator-be/internal/service"
	internalWS "td-generator-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventHandler streams workspace events to the browser over a websocket.
type EventHandler struct {
	workbench service.IWorkbenchService
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewEventHandler(workbench service.IWorkbenchService, hub *internalWS.Hub, log logger.ILogger) *EventHandler {
	return &EventHandler{
		workbench: workbench,
		hub:       hub,
		logger:    log,
	}
}

func (h *EventHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/:workspace", h.ServeWs)
}

// ServeWs upgrades the request once the workspace is known to exist.
func (h *EventHandler) ServeWs(c *fiber.Ctx) error {
	workspaceID := c.Params("workspace")
	if _, err := h.workbench.GetWorkspace(c.UserContext(), workspaceID); err != nil {
		return err
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("EventHandler", "Starting WebSocket session", map[string]interface{}{"workspace_id": workspaceID})
			internalWS.ServeWs(h.hub, conn, workspaceID)
			h.logger.Info("EventHandler", "WebSocket session ended", map[string]interface{}{"workspace_id": workspaceID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
