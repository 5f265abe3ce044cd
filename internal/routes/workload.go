package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/internal/controllers"
	"porter-system/internal/entities"
	"porter-system/pkg/middleware"
)

func registerWorkloadRoutes(g *echo.Group, ctrl *controllers.WorkloadController, logger *zap.Logger) {
	g.GET("/workload/summary", ctrl.SystemSummary)
	g.GET("/workload/staff", ctrl.StaffSummary)
	g.GET("/workload/staff/:id", ctrl.StaffDetail)

	// Spreadsheet export is for coordinators only.
	adminOnly := middleware.RequireRole(logger, string(entities.RoleAdmin))
	g.GET("/workload/report", ctrl.Report, adminOnly)
}
