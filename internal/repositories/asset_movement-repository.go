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

const movementTable = "asset_movements"

type AssetMovementRepositoryInterface interface {
	GetByAsset(ctx context.Context, assetID uint64) ([]entities.AssetMovement, error)
	HasMovements(ctx context.Context, assetID uint64) (bool, error)
	Create(ctx context.Context, movement entities.AssetMovement) (*entities.AssetMovement, error)
	CreateInTx(ctx context.Context, tx pgx.Tx, movement entities.AssetMovement) (*entities.AssetMovement, error)
}

type AssetMovementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetMovementRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetMovementRepositoryInterface {
	return &AssetMovementRepository{storage: storage, logger: logger}
}

func scanMovement(row pgx.Row) (*entities.AssetMovement, error) {
	var m entities.AssetMovement
	err := row.Scan(&m.ID, &m.AssetID, &m.FromLocationID, &m.ToLocationID, &m.MovedByUserID, &m.MovementDate, &m.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования asset_movement: %w", err)
	}
	return &m, nil
}

func (r *AssetMovementRepository) GetByAsset(ctx context.Context, assetID uint64) ([]entities.AssetMovement, error) {
	query := fmt.Sprintf(`SELECT id, asset_id, from_location_id, to_location_id, moved_by_user_id, movement_date, note
		FROM %s WHERE asset_id = $1 ORDER BY movement_date DESC`, movementTable)
	rows, err := r.storage.Query(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]entities.AssetMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *m)
	}
	return movements, rows.Err()
}

func (r *AssetMovementRepository) HasMovements(ctx context.Context, assetID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM asset_movements WHERE asset_id = $1)`
	if err := r.storage.QueryRow(ctx, query, assetID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

const movementInsertQuery = `INSERT INTO asset_movements (asset_id, from_location_id, to_location_id, moved_by_user_id, movement_date, note)
	VALUES ($1,$2,$3,$4,$5,$6)
	RETURNING id, asset_id, from_location_id, to_location_id, moved_by_user_id, movement_date, note`

func (r *AssetMovementRepository) Create(ctx context.Context, movement entities.AssetMovement) (*entities.AssetMovement, error) {
	return scanMovement(r.storage.QueryRow(ctx, movementInsertQuery,
		movement.AssetID, movement.FromLocationID, movement.ToLocationID,
		movement.MovedByUserID, movement.MovementDate, movement.Note,
	))
}

// CreateInTx пишет строку истории в рамках внешней транзакции.
func (r *AssetMovementRepository) CreateInTx(ctx context.Context, tx pgx.Tx, movement entities.AssetMovement) (*entities.AssetMovement, error) {
	return scanMovement(tx.QueryRow(ctx, movementInsertQuery,
		movement.AssetID, movement.FromLocationID, movement.ToLocationID,
		movement.MovedByUserID, movement.MovementDate, movement.Note,
	))
}
