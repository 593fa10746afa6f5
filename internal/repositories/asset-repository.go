package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-control/internal/entities"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/types"
	"asset-control/pkg/utils"
)

const (
	assetTable        = "assets"
	assetFullInfoView = "asset_full_info"

	assetColumns = `id, asset_code, asset_name, description, model, serial_number,
		category_id, status_id, location_id, manufacturer_id, responsible_employee_id,
		purchase_date, purchase_price, is_active, created_date, created_by_user_id,
		modified_date, modified_by_user_id`
)

var assetAllowedFilterFields = map[string]string{
	"status_id":   "a.status_id",
	"category_id": "a.category_id",
	"location_id": "a.location_id",
	"is_active":   "a.is_active",
}

type AssetRepositoryInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]entities.AssetFullInfo, uint64, error)
	FindAsset(ctx context.Context, id uint64) (*entities.Asset, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint64) (bool, error)
	CreateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error)
	UpdateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error)
	UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset entities.Asset) (*entities.Asset, error)
	DisposeAssetsInTx(ctx context.Context, tx pgx.Tx, ids []uint64, disposedStatusID, actorID uint64, now time.Time) (int64, error)
	DeleteAssetInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	CountByCategory(ctx context.Context, categoryID uint64) (uint64, error)
	CountByResponsible(ctx context.Context, employeeID uint64) (uint64, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &AssetRepository{storage: storage, logger: logger}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	err := row.Scan(
		&a.ID, &a.AssetCode, &a.AssetName, &a.Description, &a.Model, &a.SerialNumber,
		&a.CategoryID, &a.StatusID, &a.LocationID, &a.ManufacturerID, &a.ResponsibleEmployeeID,
		&a.PurchaseDate, &a.PurchasePrice, &a.IsActive, &a.CreatedDate, &a.CreatedByUserID,
		&a.ModifiedDate, &a.ModifiedByUserID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования asset: %w", err)
	}
	return &a, nil
}

// buildFilterQuery собирает WHERE для представления asset_full_info:
// текстовый поиск по коду, названию, модели и серийному номеру плюс
// AND-фильтры по справочникам.
func (r *AssetRepository) buildFilterQuery(filter types.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argCounter := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(a.asset_code ILIKE $%d OR a.asset_name ILIKE $%d OR a.model ILIKE $%d OR a.serial_number ILIKE $%d)",
			argCounter, argCounter, argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	for key, value := range filter.Filter {
		if dbColumn, ok := assetAllowedFilterFields[key]; ok {
			items := strings.Split(fmt.Sprintf("%v", value), ",")
			if len(items) > 1 {
				placeholders := []string{}
				for _, item := range items {
					placeholders = append(placeholders, fmt.Sprintf("$%d", argCounter))
					args = append(args, item)
					argCounter++
				}
				conditions = append(conditions, fmt.Sprintf("%s IN (%s)", dbColumn, strings.Join(placeholders, ",")))
			} else {
				conditions = append(conditions, fmt.Sprintf("%s = $%d", dbColumn, argCounter))
				args = append(args, value)
				argCounter++
			}
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *AssetRepository) countAssets(ctx context.Context, filter types.Filter) (uint64, error) {
	whereClause, args := r.buildFilterQuery(filter)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s AS a %s", assetFullInfoView, whereClause)
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *AssetRepository) GetAssets(ctx context.Context, filter types.Filter) ([]entities.AssetFullInfo, uint64, error) {
	total, err := r.countAssets(ctx, filter)
	if err != nil || total == 0 {
		return []entities.AssetFullInfo{}, total, err
	}

	whereClause, args := r.buildFilterQuery(filter)

	// Страница прижимается к последней уже после подсчета: фильтр мог
	// сжать выборку, а отдать надо строки той страницы, что в метаданных.
	filter.Page, filter.Offset = utils.ClampPage(total, filter.Page, filter.Limit)

	// Свежие записи сверху.
	limitClause := ""
	if filter.Limit > 0 {
		argCounter := len(args) + 1
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`SELECT a.id, a.asset_code, a.asset_name, a.description, a.model, a.serial_number,
		a.category_id, a.status_id, a.location_id, a.manufacturer_id, a.responsible_employee_id,
		a.purchase_date, a.purchase_price, a.is_active, a.created_date, a.created_by_user_id,
		a.modified_date, a.modified_by_user_id,
		a.category_name, a.status_name, a.location_name, a.manufacturer_name, a.responsible_name
		FROM %s AS a %s ORDER BY a.id DESC %s`, assetFullInfoView, whereClause, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := make([]entities.AssetFullInfo, 0)
	for rows.Next() {
		var a entities.AssetFullInfo
		err := rows.Scan(
			&a.ID, &a.AssetCode, &a.AssetName, &a.Description, &a.Model, &a.SerialNumber,
			&a.CategoryID, &a.StatusID, &a.LocationID, &a.ManufacturerID, &a.ResponsibleEmployeeID,
			&a.PurchaseDate, &a.PurchasePrice, &a.IsActive, &a.CreatedDate, &a.CreatedByUserID,
			&a.ModifiedDate, &a.ModifiedByUserID,
			&a.CategoryName, &a.StatusName, &a.LocationName, &a.ManufacturerName, &a.ResponsibleName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования asset_full_info: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, total, rows.Err()
}

func (r *AssetRepository) FindAsset(ctx context.Context, id uint64) (*entities.Asset, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", assetColumns, assetTable)
	return scanAsset(r.storage.QueryRow(ctx, query, id))
}

// ExistsByCode проверяет уникальность кода. excludeID = 0 — создание,
// иначе собственная запись не считается дубликатом.
func (r *AssetRepository) ExistsByCode(ctx context.Context, code string, excludeID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM assets WHERE asset_code = $1 AND id <> $2)`
	if err := r.storage.QueryRow(ctx, query, code, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error) {
	query := fmt.Sprintf(`INSERT INTO %s (asset_code, asset_name, description, model, serial_number,
		category_id, status_id, location_id, manufacturer_id, responsible_employee_id,
		purchase_date, purchase_price, is_active, created_date, created_by_user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING %s`, assetTable, assetColumns)
	return scanAsset(r.storage.QueryRow(ctx, query,
		asset.AssetCode, asset.AssetName, asset.Description, asset.Model, asset.SerialNumber,
		asset.CategoryID, asset.StatusID, asset.LocationID, asset.ManufacturerID, asset.ResponsibleEmployeeID,
		asset.PurchaseDate, asset.PurchasePrice, asset.IsActive, asset.CreatedDate, asset.CreatedByUserID,
	))
}

// assetUpdateQuery перезаписывает все поля карточки, кроме кода актива:
// код неизменяем после создания.
func assetUpdateQuery(asset entities.Asset) (string, []interface{}, error) {
	updateBuilder := sq.Update(assetTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": asset.ID}).
		Set("asset_name", asset.AssetName).
		Set("description", asset.Description).
		Set("model", asset.Model).
		Set("serial_number", asset.SerialNumber).
		Set("category_id", asset.CategoryID).
		Set("status_id", asset.StatusID).
		Set("location_id", asset.LocationID).
		Set("manufacturer_id", asset.ManufacturerID).
		Set("responsible_employee_id", asset.ResponsibleEmployeeID).
		Set("purchase_date", asset.PurchaseDate).
		Set("purchase_price", asset.PurchasePrice).
		Set("is_active", asset.IsActive).
		Set("modified_date", asset.ModifiedDate).
		Set("modified_by_user_id", asset.ModifiedByUserID)

	return updateBuilder.Suffix("RETURNING " + assetColumns).ToSql()
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, asset entities.Asset) (*entities.Asset, error) {
	query, args, err := assetUpdateQuery(asset)
	if err != nil {
		return nil, err
	}
	return scanAsset(r.storage.QueryRow(ctx, query, args...))
}

// UpdateAssetInTx — тот же запрос внутри внешней транзакции; нужен
// переносу, где смена локации коммитится вместе со строкой истории.
func (r *AssetRepository) UpdateAssetInTx(ctx context.Context, tx pgx.Tx, asset entities.Asset) (*entities.Asset, error) {
	query, args, err := assetUpdateQuery(asset)
	if err != nil {
		return nil, err
	}
	return scanAsset(tx.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) DisposeAssetsInTx(ctx context.Context, tx pgx.Tx, ids []uint64, disposedStatusID, actorID uint64, now time.Time) (int64, error) {
	query := `UPDATE assets SET status_id = $1, is_active = false, modified_date = $2, modified_by_user_id = $3 WHERE id = ANY($4)`
	tag, err := tx.Exec(ctx, query, disposedStatusID, now, actorID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *AssetRepository) DeleteAssetInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) CountByCategory(ctx context.Context, categoryID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM assets WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func (r *AssetRepository) CountByResponsible(ctx context.Context, employeeID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM assets WHERE responsible_employee_id = $1`, employeeID).Scan(&count)
	return count, err
}
