package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/repositories"
	"asset-control/internal/services"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/utils"
)

// Сегмент пути -> таблица справочника. Все, чего нет в карте,
// отклоняется до обращения к сервису.
var referenceTypes = map[string]string{
	"categories":     repositories.TableCategories,
	"locations":      repositories.TableLocations,
	"asset-statuses": repositories.TableAssetStatuses,
	"departments":    repositories.TableDepartments,
	"positions":      repositories.TablePositions,
	"user-roles":     repositories.TableUserRoles,
	"manufacturers":  repositories.TableManufacturers,
}

type ReferenceController struct {
	referenceService services.ReferenceServiceInterface
	logger           *zap.Logger
}

func NewReferenceController(referenceService services.ReferenceServiceInterface, logger *zap.Logger) *ReferenceController {
	return &ReferenceController{referenceService: referenceService, logger: logger}
}

func (c *ReferenceController) resolveTable(ctx echo.Context) (string, error) {
	refType := ctx.Param("type")
	table, ok := referenceTypes[refType]
	if !ok {
		return "", apperrors.NewHttpError(
			http.StatusNotFound,
			"Неизвестный справочник",
			apperrors.ErrNotFound,
			map[string]interface{}{"type": refType},
		)
	}
	return table, nil
}

func (c *ReferenceController) List(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	table, err := c.resolveTable(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	items, err := c.referenceService.List(reqCtx, table)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Справочник успешно получен", http.StatusOK)
}

func (c *ReferenceController) Create(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	table, err := c.resolveTable(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateReferenceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.referenceService.Create(reqCtx, table, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Запись справочника создана", http.StatusCreated)
}

func (c *ReferenceController) Update(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	table, err := c.resolveTable(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateReferenceDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	item, err := c.referenceService.Update(reqCtx, table, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Запись справочника обновлена", http.StatusOK)
}

func (c *ReferenceController) Delete(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	table, err := c.resolveTable(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.referenceService.Delete(reqCtx, table, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись справочника удалена", http.StatusOK)
}
