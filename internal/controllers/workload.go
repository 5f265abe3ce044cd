package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"porter-system/internal/dto"
	"porter-system/internal/services"
	"porter-system/pkg/utils"
)

type WorkloadController struct {
	workloadService services.WorkloadServiceInterface
	logger          *zap.Logger
}

func NewWorkloadController(workloadService services.WorkloadServiceInterface, logger *zap.Logger) *WorkloadController {
	return &WorkloadController{workloadService: workloadService, logger: logger}
}

func (c *WorkloadController) SystemSummary(ctx echo.Context) error {
	res, err := c.workloadService.SystemSummary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "system summary computed", http.StatusOK)
}

func (c *WorkloadController) StaffSummary(ctx echo.Context) error {
	filter := dto.WorkloadFilter{
		Role:   ctx.QueryParam("role"),
		Status: ctx.QueryParam("status"),
	}

	res, err := c.workloadService.StaffSummary(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "staff summary computed", http.StatusOK, uint64(len(res)))
}

func (c *WorkloadController) StaffDetail(ctx echo.Context) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.workloadService.StaffDetail(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "staff detail computed", http.StatusOK)
}

var workloadReportHeaders = []string{
	"Employee Code", "Full Name", "Role", "Status", "Total Tasks",
	"Completed", "Active", "Pending", "Cancelled",
	"Completion Rate %", "Efficiency Score", "Avg Time (min)",
}

// Report exports the staff workload summary as a spreadsheet.
func (c *WorkloadController) Report(ctx echo.Context) error {
	filter := dto.WorkloadFilter{
		Role:   ctx.QueryParam("role"),
		Status: ctx.QueryParam("status"),
	}

	data, err := c.workloadService.StaffSummary(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f := excelize.NewFile()
	sheet := "Staff Workload"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &workloadReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "L1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.EmployeeCode, item.FullName, item.Role, item.CurrentStatus,
			item.Tasks.Total, item.Tasks.Completed, item.Tasks.Active,
			item.Tasks.Pending, item.Tasks.Cancelled,
			item.CompletionRate, item.EfficiencyScore, item.AvgTimeMinutes,
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "D", 14)
	f.SetColWidth(sheet, "J", "L", 16)

	fileName := fmt.Sprintf("workload_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
