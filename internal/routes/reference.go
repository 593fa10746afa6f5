package routes

import (
	"github.com/labstack/echo/v4"

	"asset-control/internal/controllers"
)

func runReferenceRouter(secure *echo.Group, ctrl *controllers.ReferenceController) {
	secure.GET("/references/:type", ctrl.List)
	secure.POST("/references/:type", ctrl.Create)
	secure.PUT("/references/:type/:id", ctrl.Update)
	secure.DELETE("/references/:type/:id", ctrl.Delete)
}
