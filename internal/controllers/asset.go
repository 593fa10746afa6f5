package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/services"
	"asset-control/pkg/utils"
)

type AssetController struct {
	assetService    services.AssetServiceInterface
	movementService services.MovementServiceInterface
	logger          *zap.Logger
}

func NewAssetController(
	assetService services.AssetServiceInterface,
	movementService services.MovementServiceInterface,
	logger *zap.Logger,
) *AssetController {
	return &AssetController{
		assetService:    assetService,
		movementService: movementService,
		logger:          logger,
	}
}

func (c *AssetController) GetAssets(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	assets, total, err := c.assetService.GetAssets(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assets, "Список активов успешно получен", http.StatusOK, total)
}

func (c *AssetController) FindAsset(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	asset, err := c.assetService.FindAsset(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив успешно найден", http.StatusOK)
}

func (c *AssetController) CreateAsset(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.SaveAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	asset, err := c.assetService.CreateAsset(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив успешно создан", http.StatusCreated)
}

func (c *AssetController) UpdateAsset(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	asset, err := c.assetService.UpdateAsset(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, asset, "Актив успешно обновлен", http.StatusOK)
}

// DisposeAssets списывает пакет активов, выбранных в таблице.
func (c *AssetController) DisposeAssets(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.AssetIDsDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	affected, err := c.assetService.DisposeAssets(reqCtx, payload.AssetIDs)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{"disposed": affected}, "Активы успешно списаны", http.StatusOK)
}

// DeleteAssets физически удаляет пакет активов; пропущенные возвращаются
// в теле ответа с причиной.
func (c *AssetController) DeleteAssets(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.AssetIDsDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.assetService.DeleteAssets(reqCtx, payload.AssetIDs)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Удаление активов завершено", http.StatusOK)
}

func (c *AssetController) GetMovements(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	movements, err := c.movementService.GetByAsset(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, movements, "История перемещений получена", http.StatusOK)
}

func (c *AssetController) MoveAsset(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateMovementDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload.AssetID = id
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	movement, err := c.movementService.MoveAsset(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, movement, "Актив успешно перемещен", http.StatusCreated)
}
