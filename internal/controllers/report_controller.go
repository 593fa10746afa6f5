package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"asset-control/internal/entities"
	"asset-control/internal/services"
	"asset-control/pkg/utils"
)

type ReportController struct {
	assetService    services.AssetServiceInterface
	employeeService services.EmployeeServiceInterface
	logger          *zap.Logger
}

func NewReportController(
	assetService services.AssetServiceInterface,
	employeeService services.EmployeeServiceInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{
		assetService:    assetService,
		employeeService: employeeService,
		logger:          logger,
	}
}

// GetAssetRegister отдает реестр активов: JSON по умолчанию,
// файл Excel при format=xlsx.
func (c *ReportController) GetAssetRegister(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		// Выгружаем все строки, постранично файл не собрать.
		filter.Page = 1
		filter.Limit = 0
		filter.Offset = 0
	}

	assets, total, err := c.assetService.GetAssets(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		rows := make([][]interface{}, 0, len(assets))
		for _, item := range assets {
			rows = append(rows, assetRegisterRow(item))
		}
		return c.respondWithXLSX(ctx, "Реестр активов", assetRegisterHeaders, rows, "assets")
	}
	return utils.SuccessResponse(ctx, assets, "Реестр активов сформирован", http.StatusOK, total)
}

// GetEmployeeRegister — реестр сотрудников, тот же контракт, что и у
// реестра активов.
func (c *ReportController) GetEmployeeRegister(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "xlsx" {
		filter.Page = 1
		filter.Limit = 0
		filter.Offset = 0
	}

	employees, total, err := c.employeeService.GetEmployees(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		rows := make([][]interface{}, 0, len(employees))
		for _, item := range employees {
			rows = append(rows, employeeRegisterRow(item))
		}
		return c.respondWithXLSX(ctx, "Реестр сотрудников", employeeRegisterHeaders, rows, "employees")
	}
	return utils.SuccessResponse(ctx, employees, "Реестр сотрудников сформирован", http.StatusOK, total)
}

const registerDateFmt = "02.01.2006"

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

var assetRegisterHeaders = []string{
	"Код", "Название", "Категория", "Статус", "Локация", "Производитель",
	"Модель", "Серийный номер", "Ответственный", "Дата покупки", "Стоимость", "Действующий",
}

func assetRegisterRow(item entities.AssetFullInfo) []interface{} {
	var purchaseDate, price string
	if item.PurchaseDate.Valid {
		purchaseDate = item.PurchaseDate.Time.Format(registerDateFmt)
	}
	if item.PurchasePrice.Valid {
		price = fmt.Sprintf("%.2f", item.PurchasePrice.Float64)
	}

	return []interface{}{
		item.AssetCode, item.AssetName, item.CategoryName, item.StatusName,
		item.LocationName, item.ManufacturerName.String, item.Model.String,
		item.SerialNumber.String, item.ResponsibleName.String, purchaseDate, price, yesNo(item.IsActive),
	}
}

var employeeRegisterHeaders = []string{
	"Фамилия", "Имя", "Отчество", "Должность", "Отдел",
	"Email", "Телефон", "Дата приема", "Логин", "Активен",
}

func employeeRegisterRow(item entities.EmployeeListItem) []interface{} {
	return []interface{}{
		item.LastName, item.FirstName, item.MiddleName.String,
		item.PositionName, item.DepartmentName,
		item.Email.String, item.Phone.String,
		item.HireDate.Format(registerDateFmt),
		item.Username.String, yesNo(item.IsActive),
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, sheet string, headers []string, rows [][]interface{}, filePrefix string) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &headers)

	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", lastHeaderCell, style)

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &row)
	}
	lastCol := strings.TrimSuffix(lastHeaderCell, "1")
	f.SetColWidth(sheet, "A", lastCol, 22)
	f.SetColWidth(sheet, "B", "B", 35)

	fileName := fmt.Sprintf("%s_%s.xlsx", filePrefix, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
