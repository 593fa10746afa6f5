package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/repositories"
	"asset-control/pkg/constants"
	apperrors "asset-control/pkg/errors"
)

func TestReferenceDelete(t *testing.T) {
	t.Run("категория с активами не удаляется", func(t *testing.T) {
		referenceRepo := new(mockReferenceRepo)
		assetRepo := new(mockAssetRepo)
		assetRepo.On("CountByCategory", mock.Anything, uint64(1)).Return(uint64(3), nil)

		svc := NewReferenceService(referenceRepo, assetRepo, zap.NewNop())
		err := svc.Delete(ctxAs(1, constants.RoleAdministrator), repositories.TableCategories, 1)

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
		referenceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("пустая категория удаляется", func(t *testing.T) {
		referenceRepo := new(mockReferenceRepo)
		assetRepo := new(mockAssetRepo)
		assetRepo.On("CountByCategory", mock.Anything, uint64(2)).Return(uint64(0), nil)
		referenceRepo.On("Delete", mock.Anything, repositories.TableCategories, uint64(2)).Return(nil)

		svc := NewReferenceService(referenceRepo, assetRepo, zap.NewNop())
		err := svc.Delete(ctxAs(1, constants.RoleAdministrator), repositories.TableCategories, 2)

		require.NoError(t, err)
		referenceRepo.AssertExpectations(t)
	})

	t.Run("для локаций счетчик активов не проверяется", func(t *testing.T) {
		referenceRepo := new(mockReferenceRepo)
		assetRepo := new(mockAssetRepo)
		referenceRepo.On("Delete", mock.Anything, repositories.TableLocations, uint64(9)).Return(nil)

		svc := NewReferenceService(referenceRepo, assetRepo, zap.NewNop())
		err := svc.Delete(ctxAs(1, constants.RoleManager), repositories.TableLocations, 9)

		require.NoError(t, err)
		assetRepo.AssertNotCalled(t, "CountByCategory", mock.Anything, mock.Anything)
	})

	t.Run("обычному пользователю запрещено", func(t *testing.T) {
		svc := NewReferenceService(new(mockReferenceRepo), new(mockAssetRepo), zap.NewNop())
		err := svc.Delete(ctxAs(1, constants.RoleUser), repositories.TableCategories, 1)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestReferenceCreate(t *testing.T) {
	t.Run("дубликат названия отклоняется", func(t *testing.T) {
		referenceRepo := new(mockReferenceRepo)
		referenceRepo.On("FindByName", mock.Anything, repositories.TableCategories, "Мебель").
			Return(&repositories.ReferenceItem{ID: 4, Name: "Мебель"}, nil)

		svc := NewReferenceService(referenceRepo, new(mockAssetRepo), zap.NewNop())
		_, err := svc.Create(ctxAs(1, constants.RoleManager), repositories.TableCategories, dto.CreateReferenceDTO{Name: "Мебель"})

		var httpErr *apperrors.HttpError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("новое название сохраняется", func(t *testing.T) {
		referenceRepo := new(mockReferenceRepo)
		referenceRepo.On("FindByName", mock.Anything, repositories.TableCategories, "Серверы").
			Return(nil, apperrors.ErrNotFound)
		referenceRepo.On("Create", mock.Anything, repositories.TableCategories, "Серверы").
			Return(&repositories.ReferenceItem{ID: 8, Name: "Серверы"}, nil)

		svc := NewReferenceService(referenceRepo, new(mockAssetRepo), zap.NewNop())
		item, err := svc.Create(ctxAs(1, constants.RoleManager), repositories.TableCategories, dto.CreateReferenceDTO{Name: "Серверы"})

		require.NoError(t, err)
		assert.Equal(t, uint64(8), item.ID)
	})
}
