package routes

import (
	"github.com/labstack/echo/v4"

	"porter-system/internal/controllers"
)

func registerEquipmentRoutes(g *echo.Group, ctrl *controllers.EquipmentController) {
	g.GET("/equipment", ctrl.GetEquipments)
	g.GET("/equipment/nearby", ctrl.Nearby)
	g.GET("/equipment/search", ctrl.Search)
	g.GET("/equipment/:id", ctrl.FindEquipment)
	g.PATCH("/equipment/:id/status", ctrl.UpdateStatus)
}
