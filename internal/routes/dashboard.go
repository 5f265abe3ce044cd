package routes

import (
	"github.com/labstack/echo/v4"

	"porter-system/internal/controllers"
)

func registerDashboardRoutes(g *echo.Group, ctrl *controllers.DashboardController) {
	g.GET("/dashboard", ctrl.GetDashboard)
	g.GET("/dashboard/stats", ctrl.GetStats)
}
