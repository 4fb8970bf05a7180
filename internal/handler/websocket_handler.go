package handler

import (
	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/internal/pkg/serverutils"
	internalWS "datahub-portal-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// WebSocketHandler upgrades authenticated clients onto the push hub.
type WebSocketHandler struct {
	hub    *internalWS.Hub
	secret string
	logger logger.ILogger
}

func NewWebSocketHandler(hub *internalWS.Hub, secret string, log logger.ILogger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, secret: secret, logger: log}
}

// ServeWs reads the token from the "token" query parameter (browsers cannot
// set headers on a websocket handshake) or the Authorization header.
func (h *WebSocketHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	claims, err := serverutils.ParseToken(tokenStr, h.secret)
	if err != nil {
		h.logger.Warn("WebSocketHandler", "Invalid token in handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user id in token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("WebSocketHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("WebSocketHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *WebSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
