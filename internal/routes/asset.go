package routes

import (
	"github.com/labstack/echo/v4"

	"asset-control/internal/controllers"
)

func runAssetRouter(secure *echo.Group, ctrl *controllers.AssetController) {
	secure.GET("/assets", ctrl.GetAssets)
	secure.GET("/assets/:id", ctrl.FindAsset)
	secure.POST("/assets", ctrl.CreateAsset)
	secure.PUT("/assets/:id", ctrl.UpdateAsset)

	// Пакетные операции над выборкой таблицы.
	secure.POST("/assets/dispose", ctrl.DisposeAssets)
	secure.POST("/assets/delete", ctrl.DeleteAssets)

	secure.GET("/assets/:id/movements", ctrl.GetMovements)
	secure.POST("/assets/:id/movements", ctrl.MoveAsset)
}
