package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/services"
	apperrors "porter-system/pkg/errors"
	"porter-system/pkg/utils"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestController(requestService services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: requestService, logger: logger}
}

func parseUUIDParam(ctx echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid %s, expected a UUID", name)
	}
	return id, nil
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.CreateRequest(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "transport request created", http.StatusCreated)
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	filter := dto.RequestListFilter{
		Status:        ctx.QueryParam("status"),
		EquipmentType: ctx.QueryParam("equipment_type"),
	}
	if p := ctx.QueryParam("priority"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("priority must be a number"), c.logger)
		}
		filter.Priority = n
	}
	if v := ctx.QueryParam("assigned_to"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("assigned_to must be a UUID"), c.logger)
		}
		filter.AssignedTo = &id
	}
	if v := ctx.QueryParam("requested_by"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("requested_by must be a UUID"), c.logger)
		}
		filter.RequestedBy = &id
	}

	res, err := c.requestService.GetRequests(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "requests listed", http.StatusOK, uint64(len(res)))
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "request found", http.StatusOK)
}

// ListActive is the caller's work queue: everything they requested or carry
// that is not yet closed, most urgent first.
func (c *RequestController) ListActive(ctx echo.Context) error {
	res, err := c.requestService.ListActiveForUser(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "active requests listed", http.StatusOK, uint64(len(res)))
}

func (c *RequestController) ListMine(ctx echo.Context) error {
	res, err := c.requestService.ListMyRequests(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "my requests listed", http.StatusOK, uint64(len(res)))
}

func (c *RequestController) ListAssignedToMe(ctx echo.Context) error {
	res, err := c.requestService.ListAssignedToMe(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "assigned requests listed", http.StatusOK, uint64(len(res)))
}

func (c *RequestController) AdvanceStatus(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AdvanceStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.AdvanceStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "status updated", http.StatusOK)
}

func (c *RequestController) AssignRequest(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("malformed request body"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.AssignRequest(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "request assigned", http.StatusOK)
}

func (c *RequestController) CancelRequest(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.CancelRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "request cancelled", http.StatusOK)
}
