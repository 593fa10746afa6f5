package routes

import (
	"github.com/labstack/echo/v4"

	"asset-control/internal/controllers"
)

func runReportRouter(secure *echo.Group, ctrl *controllers.ReportController) {
	secure.GET("/reports/assets", ctrl.GetAssetRegister)
	secure.GET("/reports/employees", ctrl.GetEmployeeRegister)
}
