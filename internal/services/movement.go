package services

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-control/internal/authz"
	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/utils"
)

type MovementServiceInterface interface {
	GetByAsset(ctx context.Context, assetID uint64) ([]entities.AssetMovement, error)
	MoveAsset(ctx context.Context, payload dto.CreateMovementDTO) (*entities.AssetMovement, error)
}

type MovementService struct {
	movementRepo  repositories.AssetMovementRepositoryInterface
	assetRepo     repositories.AssetRepositoryInterface
	referenceRepo repositories.ReferenceRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewMovementService(
	movementRepo repositories.AssetMovementRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	referenceRepo repositories.ReferenceRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) MovementServiceInterface {
	return &MovementService{
		movementRepo:  movementRepo,
		assetRepo:     assetRepo,
		referenceRepo: referenceRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *MovementService) GetByAsset(ctx context.Context, assetID uint64) ([]entities.AssetMovement, error) {
	if _, err := s.assetRepo.FindAsset(ctx, assetID); err != nil {
		return nil, err
	}
	return s.movementRepo.GetByAsset(ctx, assetID)
}

// MoveAsset переносит актив в другую локацию и фиксирует перемещение
// в истории. Смена локации и строка истории коммитятся одной
// транзакцией: перенос без записи в истории обошел бы запрет на
// физическое удаление перемещавшихся активов. Перенос в текущую
// локацию отклоняется.
func (s *MovementService) MoveAsset(ctx context.Context, payload dto.CreateMovementDTO) (*entities.AssetMovement, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageRole(roleID) {
		return nil, apperrors.ErrForbidden
	}

	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.FindAsset(ctx, payload.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.LocationID == payload.ToLocationID {
		return nil, apperrors.NewValidationError("Актив уже находится в выбранной локации")
	}

	if _, err := s.referenceRepo.Find(ctx, repositories.TableLocations, payload.ToLocationID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("Локация не найдена")
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	now := time.Now()
	fromLocationID := asset.LocationID

	asset.LocationID = payload.ToLocationID
	asset.ModifiedDate = null.TimeFrom(now)
	asset.ModifiedByUserID = null.Uint64From(actorID)

	var created *entities.AssetMovement
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.assetRepo.UpdateAssetInTx(ctx, tx, *asset); err != nil {
			return err
		}
		movement := entities.AssetMovement{
			AssetID:        asset.ID,
			FromLocationID: null.Uint64From(fromLocationID),
			ToLocationID:   payload.ToLocationID,
			MovedByUserID:  actorID,
			MovementDate:   now,
			Note:           nullStringFromForm(payload.Note),
		}
		saved, err := s.movementRepo.CreateInTx(ctx, tx, movement)
		if err != nil {
			return err
		}
		created = saved
		return nil
	})
	if err != nil {
		s.logger.Error("ошибка переноса актива", zap.Uint64("assetID", asset.ID), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("актив перемещен",
		zap.Uint64("assetID", asset.ID),
		zap.Uint64("from", fromLocationID),
		zap.Uint64("to", payload.ToLocationID))
	return created, nil
}
