package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/entities"
	"porter-system/internal/services"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/utils"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(equipmentService services.EquipmentServiceInterface, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{equipmentService: equipmentService, logger: logger}
}

func equipmentFilterFromQuery(ctx echo.Context) (dto.EquipmentFilter, error) {
	filter := dto.EquipmentFilter{
		Type:   ctx.QueryParam("type"),
		Status: ctx.QueryParam("status"),
		Query:  ctx.QueryParam("q"),
	}
	if v := ctx.QueryParam("floor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, apperrors.NewValidationError("floor_id must be a UUID")
		}
		filter.FloorID = &id
	}
	return filter, nil
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter, err := equipmentFilterFromQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment listed", http.StatusOK, uint64(len(res)))
}

// Nearby must be registered before the :id route so the path does not bind as
// an id.
func (c *EquipmentController) Nearby(ctx echo.Context) error {
	equipment, floorID, err := c.equipmentService.Nearby(ctx.Request().Context(), ctx.QueryParam("type"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	body := dto.NearbyEquipmentDTO{
		FloorID:   floorID,
		Count:     len(equipment),
		Equipment: shortEquipmentList(equipment),
	}

	return utils.SuccessResponse(ctx, body, "nearby equipment listed", http.StatusOK)
}

func (c *EquipmentController) Search(ctx echo.Context) error {
	filter, err := equipmentFilterFromQuery(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.Search(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "search results", http.StatusOK, uint64(len(res)))
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment found", http.StatusOK)
}

func (c *EquipmentController) UpdateStatus(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEquipmentStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "equipment status updated", http.StatusOK)
}

func shortEquipmentList(equipment []entities.Equipment) []dto.ShortEquipmentDTO {
	out := make([]dto.ShortEquipmentDTO, 0, len(equipment))
	for _, eq := range equipment {
		out = append(out, dto.ShortEquipmentDTO{
			ID:           eq.ID,
			Code:         eq.Code,
			Type:         string(eq.Type),
			BatteryLevel: eq.BatteryLevel,
		})
	}
	return out
}
