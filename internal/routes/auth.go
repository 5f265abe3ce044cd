package routes

import (
	"github.com/labstack/echo/v4"

	"porter-system/internal/controllers"
)

func registerAuthRoutes(public *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	public.POST("/auth/login", ctrl.Login)
	public.POST("/auth/refresh", ctrl.Refresh)

	secure.POST("/auth/logout", ctrl.Logout)
	secure.GET("/auth/me", ctrl.Me)
}
