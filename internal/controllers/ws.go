package controllers

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/pkg/utils"
	"porter-system/pkg/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSController struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWSController(hub *websocket.Hub, logger *zap.Logger) *WSController {
	return &WSController{hub: hub, logger: logger}
}

// Connect upgrades the request and attaches the caller to the hub. The auth
// middleware has already identified the user.
func (c *WSController) Connect(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := websocket.NewClient(c.hub, conn, userID, c.logger)
	c.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
	return nil
}
