package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-control/internal/dto"
)

type DashboardRepositoryInterface interface {
	GetStatusCounts(ctx context.Context, inRepairStatusID, disposedStatusID uint64) (total, active, inRepair, disposed uint64, err error)
	GetAddedSince(ctx context.Context, since time.Time) (uint64, error)
	GetCategoryCounts(ctx context.Context) ([]dto.CategoryCountDTO, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

// GetStatusCounts считает карточки главной страницы одним проходом:
// всего, действующих, на ремонте, списанных.
func (r *DashboardRepository) GetStatusCounts(ctx context.Context, inRepairStatusID, disposedStatusID uint64) (uint64, uint64, uint64, uint64, error) {
	builder := sq.Select("COUNT(*)", "COUNT(*) FILTER (WHERE is_active)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE status_id = ?)", inRepairStatusID)).
		Column(sq.Expr("COUNT(*) FILTER (WHERE status_id = ?)", disposedStatusID)).
		From("assets").PlaceholderFormat(sq.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	var total, active, inRepair, disposed uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&total, &active, &inRepair, &disposed); err != nil {
		return 0, 0, 0, 0, err
	}
	return total, active, inRepair, disposed, nil
}

func (r *DashboardRepository) GetAddedSince(ctx context.Context, since time.Time) (uint64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("assets").
		Where(sq.GtOrEq{"created_date": since}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DashboardRepository) GetCategoryCounts(ctx context.Context) ([]dto.CategoryCountDTO, error) {
	query, args, err := sq.Select("c.id", "c.name", "COUNT(a.id)").
		From("categories c").
		LeftJoin("assets a ON a.category_id = c.id AND a.is_active").
		GroupBy("c.id", "c.name").
		OrderBy("COUNT(a.id) DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]dto.CategoryCountDTO, 0)
	for rows.Next() {
		var s dto.CategoryCountDTO
		if err := rows.Scan(&s.CategoryID, &s.CategoryName, &s.AssetCount); err != nil {
			r.logger.Error("ошибка сканирования статистики по категориям", zap.Error(err))
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
