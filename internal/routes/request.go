package routes

import (
	"github.com/labstack/echo/v4"

	"porter-system/internal/controllers"
)

func registerRequestRoutes(g *echo.Group, ctrl *controllers.RequestController) {
	g.POST("/requests", ctrl.CreateRequest)
	g.GET("/requests", ctrl.GetRequests)

	// Static paths before the :id wildcard.
	g.GET("/requests/active", ctrl.ListActive)
	g.GET("/requests/my", ctrl.ListMine)
	g.GET("/requests/assigned", ctrl.ListAssignedToMe)

	g.GET("/requests/:id", ctrl.FindRequest)
	g.PATCH("/requests/:id/status", ctrl.AdvanceStatus)
	g.POST("/requests/:id/assign", ctrl.AssignRequest)
	g.POST("/requests/:id/cancel", ctrl.CancelRequest)
}
