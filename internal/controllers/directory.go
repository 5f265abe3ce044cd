package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/internal/services"
	"porter-system/pkg/utils"
)

type DirectoryController struct {
	directoryService services.DirectoryServiceInterface
	logger           *zap.Logger
}

func NewDirectoryController(directoryService services.DirectoryServiceInterface, logger *zap.Logger) *DirectoryController {
	return &DirectoryController{directoryService: directoryService, logger: logger}
}

func (c *DirectoryController) ListFloors(ctx echo.Context) error {
	res, err := c.directoryService.ListFloors(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "floors listed", http.StatusOK, uint64(len(res)))
}

func (c *DirectoryController) ListRoomsByFloor(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.directoryService.ListRoomsByFloor(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "rooms listed", http.StatusOK, uint64(len(res)))
}

func (c *DirectoryController) FindRoom(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.directoryService.FindRoom(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "room found", http.StatusOK)
}
