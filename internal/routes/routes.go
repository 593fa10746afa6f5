package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-control/internal/controllers"
	"asset-control/internal/repositories"
	"asset-control/internal/services"
	"asset-control/pkg/config"
	"asset-control/pkg/filestorage"
	"asset-control/pkg/middleware"
	"asset-control/pkg/service"
)

// InitRouter собирает весь граф зависимостей: репозитории, сервисы,
// контроллеры — и развешивает маршруты. Логин и обновление токена
// открыты, все остальное за JWT.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage("uploads")
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	assetRepo := repositories.NewAssetRepository(dbConn, logger)
	movementRepo := repositories.NewAssetMovementRepository(dbConn, logger)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, logger)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	referenceRepo := repositories.NewReferenceRepository(dbConn, logger)
	dashboardRepo := repositories.NewDashboardRepository(dbConn, logger)

	assetService := services.NewAssetService(assetRepo, movementRepo, referenceRepo, cacheRepo, txManager, logger, cfg.Assets)
	movementService := services.NewMovementService(movementRepo, assetRepo, referenceRepo, txManager, logger)
	employeeService := services.NewEmployeeService(employeeRepo, userRepo, assetRepo, txManager, fileStorage, logger)
	authService := services.NewAuthService(userRepo, employeeRepo, cacheRepo, jwtSvc, logger, cfg.Auth)
	referenceService := services.NewReferenceService(referenceRepo, assetRepo, logger)
	dashboardService := services.NewDashboardService(dashboardRepo, referenceRepo, logger)

	assetCtrl := controllers.NewAssetController(assetService, movementService, logger)
	employeeCtrl := controllers.NewEmployeeController(employeeService, logger)
	authCtrl := controllers.NewAuthController(authService, logger)
	referenceCtrl := controllers.NewReferenceController(referenceService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, logger)
	reportCtrl := controllers.NewReportController(assetService, employeeService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authCtrl)
	runAssetRouter(secureGroup, assetCtrl)
	runEmployeeRouter(secureGroup, employeeCtrl)
	runReferenceRouter(secureGroup, referenceCtrl)
	runDashboardRouter(secureGroup, dashboardCtrl)
	runReportRouter(secureGroup, reportCtrl)

	logger.Info("маршруты инициализированы")
}
