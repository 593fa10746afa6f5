package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/entities"
	"asset-control/internal/repositories"
	"asset-control/pkg/config"
	"asset-control/pkg/constants"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/utils"
)

const disposedStatusID = uint64(5)

func newAssetServiceForTest(assetRepo *mockAssetRepo, movementRepo *mockMovementRepo, referenceRepo *mockReferenceRepo) AssetServiceInterface {
	return NewAssetService(
		assetRepo,
		movementRepo,
		referenceRepo,
		&fakeCacheRepo{},
		&fakeTxManager{},
		zap.NewNop(),
		config.AssetsConfig{DisposedStatusName: "Списан"},
	)
}

func ctxAs(userID, roleID uint64) context.Context {
	return utils.WithUserRoleID(utils.WithUserID(context.Background(), userID), roleID)
}

func expectDisposedStatus(referenceRepo *mockReferenceRepo) {
	referenceRepo.On("FindByName", mock.Anything, repositories.TableAssetStatuses, "Списан").
		Return(&repositories.ReferenceItem{ID: disposedStatusID, Name: "Списан"}, nil)
}

func TestCreateAsset(t *testing.T) {
	payload := dto.SaveAssetDTO{
		AssetCode:     "IT-001",
		AssetName:     "Ноутбук",
		CategoryID:    1,
		StatusID:      2,
		LocationID:    3,
		PurchasePrice: "12 345,67 ₽",
	}

	t.Run("успешное создание с разбором стоимости", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		expectDisposedStatus(referenceRepo)
		assetRepo.On("ExistsByCode", mock.Anything, "IT-001", uint64(0)).Return(false, nil)
		assetRepo.On("CreateAsset", mock.Anything, mock.MatchedBy(func(a entities.Asset) bool {
			return a.AssetCode == "IT-001" &&
				a.IsActive &&
				a.PurchasePrice.Valid &&
				a.PurchasePrice.Float64 == 12345.67 &&
				a.CreatedByUserID == 7
		})).Return(&entities.Asset{ID: 1, AssetCode: "IT-001"}, nil)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		created, err := svc.CreateAsset(ctxAs(7, constants.RoleManager), payload)

		require.NoError(t, err)
		assert.Equal(t, uint64(1), created.ID)
		assetRepo.AssertExpectations(t)
	})

	t.Run("статус списания делает актив недействующим", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		expectDisposedStatus(referenceRepo)
		assetRepo.On("ExistsByCode", mock.Anything, "IT-001", uint64(0)).Return(false, nil)
		assetRepo.On("CreateAsset", mock.Anything, mock.MatchedBy(func(a entities.Asset) bool {
			return !a.IsActive
		})).Return(&entities.Asset{ID: 2}, nil)

		disposed := payload
		disposed.StatusID = disposedStatusID

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleAdministrator), disposed)

		require.NoError(t, err)
		assetRepo.AssertExpectations(t)
	})

	t.Run("сбой базы при поиске статуса списания прерывает создание", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		referenceRepo.On("FindByName", mock.Anything, repositories.TableAssetStatuses, "Списан").
			Return(nil, errors.New("соединение потеряно"))
		assetRepo.On("ExistsByCode", mock.Anything, "IT-001", uint64(0)).Return(false, nil)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleManager), payload)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
		assetRepo.AssertNotCalled(t, "CreateAsset", mock.Anything, mock.Anything)
	})

	t.Run("дубликат кода отклоняется", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		assetRepo.On("ExistsByCode", mock.Anything, "IT-001", uint64(0)).Return(true, nil)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleManager), payload)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		assert.Equal(t, "Актив с таким кодом уже существует", httpErr.Message)
	})

	t.Run("нечитаемая стоимость отклоняется", func(t *testing.T) {
		bad := payload
		bad.PurchasePrice = "дорого"

		svc := newAssetServiceForTest(new(mockAssetRepo), new(mockMovementRepo), new(mockReferenceRepo))
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleManager), bad)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("обычному пользователю запрещено", func(t *testing.T) {
		svc := newAssetServiceForTest(new(mockAssetRepo), new(mockMovementRepo), new(mockReferenceRepo))
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleUser), payload)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("пустые обязательные поля отклоняются", func(t *testing.T) {
		empty := payload
		empty.AssetName = "   "

		svc := newAssetServiceForTest(new(mockAssetRepo), new(mockMovementRepo), new(mockReferenceRepo))
		_, err := svc.CreateAsset(ctxAs(7, constants.RoleManager), empty)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, "Введите название", httpErr.Message)
	})
}

func TestDisposeAssets(t *testing.T) {
	t.Run("без статуса списания не меняется ни одна строка", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		referenceRepo.On("FindByName", mock.Anything, repositories.TableAssetStatuses, "Списан").
			Return(nil, apperrors.ErrNotFound)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		_, err := svc.DisposeAssets(ctxAs(1, constants.RoleAdministrator), []uint64{1, 2})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
		assert.Contains(t, httpErr.Message, "Списан")
		assetRepo.AssertNotCalled(t, "DisposeAssetsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("сбой базы при поиске статуса не выдается за его отсутствие", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		referenceRepo.On("FindByName", mock.Anything, repositories.TableAssetStatuses, "Списан").
			Return(nil, errors.New("соединение потеряно"))

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		_, err := svc.DisposeAssets(ctxAs(1, constants.RoleAdministrator), []uint64{1, 2})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
		assetRepo.AssertNotCalled(t, "DisposeAssetsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("пакет списывается целиком", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		referenceRepo := new(mockReferenceRepo)
		expectDisposedStatus(referenceRepo)
		assetRepo.On("DisposeAssetsInTx", mock.Anything, mock.Anything, []uint64{1, 2}, disposedStatusID, uint64(9), mock.Anything).
			Return(int64(2), nil)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
		affected, err := svc.DisposeAssets(ctxAs(9, constants.RoleManager), []uint64{1, 2})

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assetRepo.AssertExpectations(t)
	})

	t.Run("обычному пользователю запрещено", func(t *testing.T) {
		svc := newAssetServiceForTest(new(mockAssetRepo), new(mockMovementRepo), new(mockReferenceRepo))
		_, err := svc.DisposeAssets(ctxAs(9, constants.RoleUser), []uint64{1})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestDeleteAssets(t *testing.T) {
	t.Run("актив с историей перемещений пропускается", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		movementRepo := new(mockMovementRepo)

		assetRepo.On("FindAsset", mock.Anything, uint64(1)).Return(&entities.Asset{ID: 1, AssetName: "Сервер"}, nil)
		assetRepo.On("FindAsset", mock.Anything, uint64(2)).Return(&entities.Asset{ID: 2, AssetName: "Стул"}, nil)
		movementRepo.On("HasMovements", mock.Anything, uint64(1)).Return(true, nil)
		movementRepo.On("HasMovements", mock.Anything, uint64(2)).Return(false, nil)
		assetRepo.On("DeleteAssetInTx", mock.Anything, mock.Anything, uint64(2)).Return(nil)

		svc := newAssetServiceForTest(assetRepo, movementRepo, new(mockReferenceRepo))
		result, err := svc.DeleteAssets(ctxAs(1, constants.RoleAdministrator), []uint64{1, 2})

		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, result.DeletedIDs)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, uint64(1), result.Skipped[0].AssetID)
		assert.Equal(t, "Сервер", result.Skipped[0].AssetName)
		assetRepo.AssertNotCalled(t, "DeleteAssetInTx", mock.Anything, mock.Anything, uint64(1))
	})

	t.Run("несуществующий актив попадает в пропущенные", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		assetRepo.On("FindAsset", mock.Anything, uint64(42)).Return(nil, apperrors.ErrNotFound)

		svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), new(mockReferenceRepo))
		result, err := svc.DeleteAssets(ctxAs(1, constants.RoleAdministrator), []uint64{42})

		require.NoError(t, err)
		assert.Empty(t, result.DeletedIDs)
		require.Len(t, result.Skipped, 1)
	})

	t.Run("менеджеру физическое удаление запрещено", func(t *testing.T) {
		svc := newAssetServiceForTest(new(mockAssetRepo), new(mockMovementRepo), new(mockReferenceRepo))
		_, err := svc.DeleteAssets(ctxAs(1, constants.RoleManager), []uint64{1})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("ошибка хранилища прерывает операцию", func(t *testing.T) {
		assetRepo := new(mockAssetRepo)
		movementRepo := new(mockMovementRepo)
		assetRepo.On("FindAsset", mock.Anything, uint64(1)).Return(&entities.Asset{ID: 1}, nil)
		movementRepo.On("HasMovements", mock.Anything, uint64(1)).Return(false, errors.New("соединение потеряно"))

		svc := newAssetServiceForTest(assetRepo, movementRepo, new(mockReferenceRepo))
		_, err := svc.DeleteAssets(ctxAs(1, constants.RoleAdministrator), []uint64{1})
		require.Error(t, err)
	})
}

func TestUpdateAssetDerivesActivity(t *testing.T) {
	assetRepo := new(mockAssetRepo)
	referenceRepo := new(mockReferenceRepo)
	expectDisposedStatus(referenceRepo)

	existing := &entities.Asset{ID: 3, AssetCode: "IT-003", AssetName: "Монитор", CategoryID: 1, StatusID: 2, LocationID: 1}
	assetRepo.On("FindAsset", mock.Anything, uint64(3)).Return(existing, nil)
	assetRepo.On("ExistsByCode", mock.Anything, "IT-003", uint64(3)).Return(false, nil)
	assetRepo.On("UpdateAsset", mock.Anything, mock.MatchedBy(func(a entities.Asset) bool {
		// Код неизменяем, активность выведена из нового статуса.
		return a.AssetCode == "IT-003" && !a.IsActive && a.ModifiedByUserID.Valid
	})).Return(&entities.Asset{ID: 3}, nil)

	svc := newAssetServiceForTest(assetRepo, new(mockMovementRepo), referenceRepo)
	_, err := svc.UpdateAsset(ctxAs(4, constants.RoleManager), 3, dto.UpdateAssetDTO{
		AssetName:  "Монитор",
		CategoryID: 1,
		StatusID:   disposedStatusID,
		LocationID: 1,
	})

	require.NoError(t, err)
	assetRepo.AssertExpectations(t)
}
