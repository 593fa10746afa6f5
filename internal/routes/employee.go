package routes

import (
	"github.com/labstack/echo/v4"

	"asset-control/internal/controllers"
)

func runEmployeeRouter(secure *echo.Group, ctrl *controllers.EmployeeController) {
	secure.GET("/employees", ctrl.GetEmployees)
	secure.GET("/employees/:id", ctrl.FindEmployee)
	secure.POST("/employees", ctrl.CreateEmployee)
	secure.PUT("/employees/:id", ctrl.UpdateEmployee)
	secure.DELETE("/employees/:id", ctrl.DeleteEmployee)

	secure.POST("/employees/:id/toggle-account", ctrl.ToggleAccountStatus)
	secure.POST("/employees/:id/photo", ctrl.UploadPhoto)
}
