package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"porter-system/internal/controllers"
	"porter-system/internal/repositories"
	"porter-system/internal/services"
	"porter-system/pkg/config"
	"porter-system/pkg/eventbus"
	"porter-system/pkg/middleware"
	"porter-system/pkg/service"
	"porter-system/pkg/websocket"
)

// InitRouter wires repositories, services, and controllers, and mounts the
// API route tree. Everything except login and refresh sits behind the auth
// middleware.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, bus *eventbus.Bus, hub *websocket.Hub, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")

	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	directoryRepo := repositories.NewDirectoryRepository(dbConn)

	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, cfg.Auth, logger)
	requestService := services.NewRequestService(txManager, requestRepo, equipmentRepo, bus, logger)
	equipmentService := services.NewEquipmentService(txManager, equipmentRepo, requestRepo, userRepo, logger)
	workloadService := services.NewWorkloadService(requestRepo, userRepo, logger)
	dashboardService := services.NewDashboardService(userRepo, requestRepo, equipmentRepo, logger)
	directoryService := services.NewDirectoryService(directoryRepo)

	authCtrl := controllers.NewAuthController(authService, logger)
	requestCtrl := controllers.NewRequestController(requestService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)
	workloadCtrl := controllers.NewWorkloadController(workloadService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	directoryCtrl := controllers.NewDirectoryController(directoryService, logger)
	wsCtrl := controllers.NewWSController(hub, logger)

	authMW := middleware.Auth(jwtSvc, logger)
	secure := api.Group("", authMW)

	secure.GET("/ws", wsCtrl.Connect)

	registerAuthRoutes(api, secure, authCtrl)
	registerRequestRoutes(secure, requestCtrl)
	registerEquipmentRoutes(secure, equipmentCtrl)
	registerWorkloadRoutes(secure, workloadCtrl, logger)
	registerDashboardRoutes(secure, dashboardCtrl)
	registerDirectoryRoutes(secure, directoryCtrl)
}
