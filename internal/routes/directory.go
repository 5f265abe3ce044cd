package routes

import (
	"github.com/labstack/echo/v4"

	"porter-system/internal/controllers"
)

func registerDirectoryRoutes(g *echo.Group, ctrl *controllers.DirectoryController) {
	g.GET("/floors", ctrl.ListFloors)
	g.GET("/floors/:id/rooms", ctrl.ListRoomsByFloor)
	g.GET("/rooms/:id", ctrl.FindRoom)
}
