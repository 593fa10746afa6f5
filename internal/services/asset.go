package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"asset-control/internal/authz"
	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	"asset-control/pkg/config"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/types"
	"asset-control/pkg/utils"
)

const disposedStatusCacheKey = "asset_status:disposed:id"

type AssetServiceInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]entities.AssetFullInfo, uint64, error)
	FindAsset(ctx context.Context, id uint64) (*entities.Asset, error)
	CreateAsset(ctx context.Context, payload dto.SaveAssetDTO) (*entities.Asset, error)
	UpdateAsset(ctx context.Context, id uint64, payload dto.UpdateAssetDTO) (*entities.Asset, error)
	DisposeAssets(ctx context.Context, assetIDs []uint64) (int64, error)
	DeleteAssets(ctx context.Context, assetIDs []uint64) (*dto.DeleteAssetsResultDTO, error)
}

type AssetService struct {
	assetRepo     repositories.AssetRepositoryInterface
	movementRepo  repositories.AssetMovementRepositoryInterface
	referenceRepo repositories.ReferenceRepositoryInterface
	cacheRepo     repositories.CacheRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
	cfg           config.AssetsConfig
}

func NewAssetService(
	assetRepo repositories.AssetRepositoryInterface,
	movementRepo repositories.AssetMovementRepositoryInterface,
	referenceRepo repositories.ReferenceRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
	cfg config.AssetsConfig,
) AssetServiceInterface {
	return &AssetService{
		assetRepo:     assetRepo,
		movementRepo:  movementRepo,
		referenceRepo: referenceRepo,
		cacheRepo:     cacheRepo,
		txManager:     txManager,
		logger:        logger,
		cfg:           cfg,
	}
}

func (s *AssetService) GetAssets(ctx context.Context, filter types.Filter) ([]entities.AssetFullInfo, uint64, error) {
	assets, total, err := s.assetRepo.GetAssets(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка при получении списка активов", zap.Error(err))
		return nil, 0, err
	}
	return assets, total, nil
}

func (s *AssetService) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	return s.assetRepo.FindAsset(ctx, id)
}

// validateSaveAsset — те же обязательные поля, что и в карточке актива.
func validateSaveAsset(code, name string, categoryID, statusID, locationID uint64) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.NewValidationError("Введите код актива")
	}
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("Введите название")
	}
	if categoryID == 0 || statusID == 0 || locationID == 0 {
		return apperrors.NewValidationError("Выберите категорию, статус и локацию")
	}
	return nil
}

// resolveDisposedStatusID ищет идентификатор статуса «Списан» по имени,
// с кэшированием в Redis. Второй результат — найден ли статус вообще;
// сбой хранилища возвращается ошибкой, а не маскируется под отсутствие.
func (s *AssetService) resolveDisposedStatusID(ctx context.Context) (uint64, bool, error) {
	if cached, err := s.cacheRepo.Get(ctx, disposedStatusCacheKey); err == nil {
		if id, err := strconv.ParseUint(cached, 10, 64); err == nil && id > 0 {
			return id, true, nil
		}
	}

	status, err := s.referenceRepo.FindByName(ctx, repositories.TableAssetStatuses, s.cfg.DisposedStatusName)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, err
	}

	if err := s.cacheRepo.Set(ctx, disposedStatusCacheKey, strconv.FormatUint(status.ID, 10), s.cfg.DisposedStatusCacheTTL); err != nil {
		s.logger.Warn("не удалось закэшировать статус списания", zap.Error(err))
	}
	return status.ID, true, nil
}

// deriveActive — единственная политика активности: актив действует,
// пока его статус не «Списан». Если статуса списания нет в справочнике,
// все активы считаются действующими.
func (s *AssetService) deriveActive(ctx context.Context, statusID uint64) (bool, error) {
	disposedID, found, err := s.resolveDisposedStatusID(ctx)
	if err != nil {
		return false, apperrors.NewPersistenceError(err)
	}
	if !found {
		return true, nil
	}
	return statusID != disposedID, nil
}

func nullStringFromForm(v string) null.String {
	v = strings.TrimSpace(v)
	if v == "" {
		return null.String{}
	}
	return null.StringFrom(v)
}

func (s *AssetService) CreateAsset(ctx context.Context, payload dto.SaveAssetDTO) (*entities.Asset, error) {
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

	if err := validateSaveAsset(payload.AssetCode, payload.AssetName, payload.CategoryID, payload.StatusID, payload.LocationID); err != nil {
		return nil, err
	}

	price, err := utils.ParsePrice(payload.PurchasePrice)
	if err != nil {
		return nil, err
	}

	exists, err := s.assetRepo.ExistsByCode(ctx, strings.TrimSpace(payload.AssetCode), 0)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	if exists {
		return nil, apperrors.NewDuplicateError("Актив с таким кодом уже существует")
	}

	isActive, err := s.deriveActive(ctx, payload.StatusID)
	if err != nil {
		return nil, err
	}

	asset := entities.Asset{
		AssetCode:             strings.TrimSpace(payload.AssetCode),
		AssetName:             strings.TrimSpace(payload.AssetName),
		Description:           nullStringFromForm(payload.Description),
		Model:                 nullStringFromForm(payload.Model),
		SerialNumber:          nullStringFromForm(payload.SerialNumber),
		CategoryID:            payload.CategoryID,
		StatusID:              payload.StatusID,
		LocationID:            payload.LocationID,
		ManufacturerID:        payload.ManufacturerID,
		ResponsibleEmployeeID: payload.ResponsibleEmployeeID,
		PurchaseDate:          payload.PurchaseDate,
		PurchasePrice:         price,
		IsActive:              isActive,
		CreatedDate:           time.Now(),
		CreatedByUserID:       actorID,
	}

	created, err := s.assetRepo.CreateAsset(ctx, asset)
	if err != nil {
		s.logger.Error("ошибка при создании актива", zap.String("code", asset.AssetCode), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("актив создан", zap.Uint64("id", created.ID), zap.String("code", created.AssetCode))
	return created, nil
}

func (s *AssetService) UpdateAsset(ctx context.Context, id uint64, payload dto.UpdateAssetDTO) (*entities.Asset, error) {
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

	existing, err := s.assetRepo.FindAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateSaveAsset(existing.AssetCode, payload.AssetName, payload.CategoryID, payload.StatusID, payload.LocationID); err != nil {
		return nil, err
	}

	price, err := utils.ParsePrice(payload.PurchasePrice)
	if err != nil {
		return nil, err
	}

	// Код не меняется, но проверка уникальности с исключением себя
	// оставлена: обновление на собственный код должно проходить.
	exists, err := s.assetRepo.ExistsByCode(ctx, existing.AssetCode, existing.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	if exists {
		return nil, apperrors.NewDuplicateError("Актив с таким кодом уже существует")
	}

	isActive, err := s.deriveActive(ctx, payload.StatusID)
	if err != nil {
		return nil, err
	}

	asset := entities.Asset{
		ID:                    existing.ID,
		AssetCode:             existing.AssetCode,
		AssetName:             strings.TrimSpace(payload.AssetName),
		Description:           nullStringFromForm(payload.Description),
		Model:                 nullStringFromForm(payload.Model),
		SerialNumber:          nullStringFromForm(payload.SerialNumber),
		CategoryID:            payload.CategoryID,
		StatusID:              payload.StatusID,
		LocationID:            payload.LocationID,
		ManufacturerID:        payload.ManufacturerID,
		ResponsibleEmployeeID: payload.ResponsibleEmployeeID,
		PurchaseDate:          payload.PurchaseDate,
		PurchasePrice:         price,
		IsActive:              isActive,
		CreatedDate:           existing.CreatedDate,
		CreatedByUserID:       existing.CreatedByUserID,
		ModifiedDate:          null.TimeFrom(time.Now()),
		ModifiedByUserID:      null.Uint64From(actorID),
	}

	updated, err := s.assetRepo.UpdateAsset(ctx, asset)
	if err != nil {
		s.logger.Error("ошибка при обновлении актива", zap.Uint64("id", id), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("актив обновлен", zap.Uint64("id", updated.ID))
	return updated, nil
}

// DisposeAssets списывает выбранные активы одним пакетом: статус
// «Списан», is_active=false, штамп автора и времени. Пакет атомарен —
// без статуса списания в справочнике не меняется ни одна строка.
func (s *AssetService) DisposeAssets(ctx context.Context, assetIDs []uint64) (int64, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	if !authz.CanManageRole(roleID) {
		return 0, apperrors.ErrForbidden
	}

	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	disposedID, found, err := s.resolveDisposedStatusID(ctx)
	if err != nil {
		return 0, apperrors.NewPersistenceError(err)
	}
	if !found {
		return 0, apperrors.NewNotFoundError("Статус '%s' не найден в базе данных", s.cfg.DisposedStatusName)
	}

	var affected int64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		n, err := s.assetRepo.DisposeAssetsInTx(ctx, tx, assetIDs, disposedID, actorID, time.Now())
		if err != nil {
			return err
		}
		affected = n
		return nil
	})
	if err != nil {
		s.logger.Error("ошибка списания активов", zap.Uint64s("ids", assetIDs), zap.Error(err))
		return 0, apperrors.NewPersistenceError(err)
	}

	s.logger.Info("активы списаны", zap.Int64("count", affected))
	return affected, nil
}

// DeleteAssets физически удаляет активы. Актив с историей перемещений
// пропускается и попадает в отчет, остальные удаляются.
func (s *AssetService) DeleteAssets(ctx context.Context, assetIDs []uint64) (*dto.DeleteAssetsResultDTO, error) {
	roleID, err := utils.GetUserRoleIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDeleteHardRole(roleID) {
		return nil, apperrors.ErrForbidden
	}

	result := &dto.DeleteAssetsResultDTO{
		DeletedIDs: make([]uint64, 0, len(assetIDs)),
		Skipped:    make([]dto.SkippedAssetDTO, 0),
	}

	toDelete := make([]uint64, 0, len(assetIDs))
	for _, id := range assetIDs {
		asset, err := s.assetRepo.FindAsset(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				result.Skipped = append(result.Skipped, dto.SkippedAssetDTO{
					AssetID: id, Reason: "актив не найден",
				})
				continue
			}
			return nil, apperrors.NewPersistenceError(err)
		}

		hasHistory, err := s.movementRepo.HasMovements(ctx, id)
		if err != nil {
			return nil, apperrors.NewPersistenceError(err)
		}
		if hasHistory {
			result.Skipped = append(result.Skipped, dto.SkippedAssetDTO{
				AssetID:   id,
				AssetName: asset.AssetName,
				Reason:    "с активом связана история перемещений; удалите связанные записи или спишите актив",
			})
			continue
		}
		toDelete = append(toDelete, id)
	}

	if len(toDelete) > 0 {
		err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
			for _, id := range toDelete {
				if err := s.assetRepo.DeleteAssetInTx(ctx, tx, id); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			s.logger.Error("ошибка удаления активов", zap.Uint64s("ids", toDelete), zap.Error(err))
			return nil, apperrors.NewPersistenceError(err)
		}
		result.DeletedIDs = toDelete
	}

	s.logger.Info("активы удалены",
		zap.Int("deleted", len(result.DeletedIDs)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}
