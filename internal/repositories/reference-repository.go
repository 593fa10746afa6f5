package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-control/internal/entities"
	apperrors "asset-control/pkg/errors"
)

// Таблицы-справочники устроены одинаково: id + name. Репозиторий
// обслуживает их одним набором запросов по белому списку таблиц.
const (
	TableCategories    = "categories"
	TableLocations     = "locations"
	TableAssetStatuses = "asset_statuses"
	TableDepartments   = "departments"
	TablePositions     = "positions"
	TableUserRoles     = "user_roles"
	TableManufacturers = "manufacturers"
)

var referenceTables = map[string]bool{
	TableCategories:    true,
	TableLocations:     true,
	TableAssetStatuses: true,
	TableDepartments:   true,
	TablePositions:     true,
	TableUserRoles:     true,
	TableManufacturers: true,
}

type ReferenceItem struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type ReferenceRepositoryInterface interface {
	List(ctx context.Context, table string) ([]ReferenceItem, error)
	Find(ctx context.Context, table string, id uint64) (*ReferenceItem, error)
	FindByName(ctx context.Context, table string, name string) (*ReferenceItem, error)
	Create(ctx context.Context, table string, name string) (*ReferenceItem, error)
	Update(ctx context.Context, table string, id uint64, name string) (*ReferenceItem, error)
	Delete(ctx context.Context, table string, id uint64) error
	ListStatuses(ctx context.Context) ([]entities.AssetStatus, error)
}

type ReferenceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReferenceRepository(storage *pgxpool.Pool, logger *zap.Logger) ReferenceRepositoryInterface {
	return &ReferenceRepository{storage: storage, logger: logger}
}

func checkTable(table string) error {
	if !referenceTables[table] {
		return fmt.Errorf("неизвестный справочник: %s", table)
	}
	return nil
}

func scanReference(row pgx.Row) (*ReferenceItem, error) {
	var item ReferenceItem
	err := row.Scan(&item.ID, &item.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования справочника: %w", err)
	}
	return &item, nil
}

// List загружает справочник целиком, отсортированным по имени —
// ровно так его потребляют выпадающие списки.
func (r *ReferenceRepository) List(ctx context.Context, table string) ([]ReferenceItem, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ReferenceItem, 0)
	for rows.Next() {
		var item ReferenceItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ReferenceRepository) Find(ctx context.Context, table string, id uint64) (*ReferenceItem, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return scanReference(r.storage.QueryRow(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, table), id))
}

func (r *ReferenceRepository) FindByName(ctx context.Context, table string, name string) (*ReferenceItem, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return scanReference(r.storage.QueryRow(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE name = $1`, table), name))
}

func (r *ReferenceRepository) Create(ctx context.Context, table string, name string) (*ReferenceItem, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return scanReference(r.storage.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING id, name`, table), name))
}

func (r *ReferenceRepository) Update(ctx context.Context, table string, id uint64, name string) (*ReferenceItem, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	return scanReference(r.storage.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2 RETURNING id, name`, table), name, id))
}

func (r *ReferenceRepository) Delete(ctx context.Context, table string, id uint64) error {
	if err := checkTable(table); err != nil {
		return err
	}
	tag, err := r.storage.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ReferenceRepository) ListStatuses(ctx context.Context) ([]entities.AssetStatus, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name FROM asset_statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]entities.AssetStatus, 0)
	for rows.Next() {
		var s entities.AssetStatus
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
