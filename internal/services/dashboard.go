package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"asset-control/internal/dto"
	"asset-control/internal/repositories"
	apperrors "asset-control/pkg/errors"
)

// Имена статусов, по которым строятся карточки главной страницы.
const (
	statusNameInRepair = "На ремонте"
	statusNameDisposed = "Списан"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	referenceRepo repositories.ReferenceRepositoryInterface
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	referenceRepo repositories.ReferenceRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		referenceRepo: referenceRepo,
		logger:        logger,
	}
}

// resolveStatusID ищет статус по имени; отсутствие статуса не валит
// всю сводку, соответствующий счетчик просто останется нулевым.
func (s *DashboardService) resolveStatusID(ctx context.Context, name string) uint64 {
	status, err := s.referenceRepo.FindByName(ctx, repositories.TableAssetStatuses, name)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.Warn("не удалось определить статус для сводки", zap.String("name", name), zap.Error(err))
		}
		return 0
	}
	return status.ID
}

func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	inRepairID := s.resolveStatusID(ctx, statusNameInRepair)
	disposedID := s.resolveStatusID(ctx, statusNameDisposed)

	total, active, inRepair, disposed, err := s.dashboardRepo.GetStatusCounts(ctx, inRepairID, disposedID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	monthAgo := time.Now().AddDate(0, -1, 0)
	addedLastMonth, err := s.dashboardRepo.GetAddedSince(ctx, monthAgo)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	categories, err := s.dashboardRepo.GetCategoryCounts(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	stats := &dto.DashboardStatsDTO{
		TotalAssets:    total,
		ActiveAssets:   active,
		InRepairAssets: inRepair,
		DisposedAssets: disposed,
		AddedLastMonth: addedLastMonth,
		Categories:     categories,
	}
	if total > 0 {
		stats.ActivePercent = float64(active) / float64(total) * 100
		stats.InRepairPercent = float64(inRepair) / float64(total) * 100
		stats.DisposedPercent = float64(disposed) / float64(total) * 100
	}
	return stats, nil
}
