package services

import (
	"context"

	"go.uber.org/zap"

	"asset-control/internal/authz"
	"asset-control/internal/dto"
	"asset-control/internal/repositories"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/utils"
)

type ReferenceServiceInterface interface {
	List(ctx context.Context, table string) ([]repositories.ReferenceItem, error)
	Create(ctx context.Context, table string, payload dto.CreateReferenceDTO) (*repositories.ReferenceItem, error)
	Update(ctx context.Context, table string, id uint64, payload dto.UpdateReferenceDTO) (*repositories.ReferenceItem, error)
	Delete(ctx context.Context, table string, id uint64) error
}

type ReferenceService struct {
	referenceRepo repositories.ReferenceRepositoryInterface
	assetRepo     repositories.AssetRepositoryInterface
	logger        *zap.Logger
}

func NewReferenceService(
	referenceRepo repositories.ReferenceRepositoryInterface,
	assetRepo repositories.AssetRepositoryInterface,
	logger *zap.Logger,
) ReferenceServiceInterface {
	return &ReferenceService{
		referenceRepo: referenceRepo,
		assetRepo:     assetRepo,
		logger:        logger,
	}
}

func (s *ReferenceService) requireManage(ctx context.Context) error {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if !authz.CanManageRole(roleID) {
		return apperrors.ErrForbidden
	}
	return nil
}

// List открыт любой роли: справочники нужны и для фильтров на чтение.
func (s *ReferenceService) List(ctx context.Context, table string) ([]repositories.ReferenceItem, error) {
	return s.referenceRepo.List(ctx, table)
}

func (s *ReferenceService) Create(ctx context.Context, table string, payload dto.CreateReferenceDTO) (*repositories.ReferenceItem, error) {
	if err := s.requireManage(ctx); err != nil {
		return nil, err
	}
	if existing, err := s.referenceRepo.FindByName(ctx, table, payload.Name); err == nil && existing != nil {
		return nil, apperrors.NewDuplicateError("Запись с таким названием уже существует")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.NewPersistenceError(err)
	}

	item, err := s.referenceRepo.Create(ctx, table, payload.Name)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	s.logger.Info("добавлена запись справочника",
		zap.String("table", table), zap.Uint64("id", item.ID), zap.String("name", item.Name))
	return item, nil
}

func (s *ReferenceService) Update(ctx context.Context, table string, id uint64, payload dto.UpdateReferenceDTO) (*repositories.ReferenceItem, error) {
	if err := s.requireManage(ctx); err != nil {
		return nil, err
	}
	if existing, err := s.referenceRepo.FindByName(ctx, table, payload.Name); err == nil && existing.ID != id {
		return nil, apperrors.NewDuplicateError("Запись с таким названием уже существует")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.NewPersistenceError(err)
	}

	item, err := s.referenceRepo.Update(ctx, table, id, payload.Name)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return item, nil
}

// Delete блокирует удаление категории, на которую еще ссылаются активы.
// Остальные справочники защищены внешними ключами на уровне базы.
func (s *ReferenceService) Delete(ctx context.Context, table string, id uint64) error {
	if err := s.requireManage(ctx); err != nil {
		return err
	}

	if table == repositories.TableCategories {
		count, err := s.assetRepo.CountByCategory(ctx, id)
		if err != nil {
			return apperrors.NewPersistenceError(err)
		}
		if count > 0 {
			return apperrors.NewConflictError("Нельзя удалить категорию: к ней привязаны активы")
		}
	}

	if err := s.referenceRepo.Delete(ctx, table, id); err != nil {
		if apperrors.IsNotFound(err) {
			return err
		}
		return apperrors.NewPersistenceError(err)
	}
	s.logger.Info("удалена запись справочника", zap.String("table", table), zap.Uint64("id", id))
	return nil
}
