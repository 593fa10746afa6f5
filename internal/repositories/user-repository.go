package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-control/internal/entities"
	apperrors "asset-control/pkg/errors"
)

const (
	userTable    = "users"
	userColumns  = `id, username, password_hash, role_id, employee_id, is_active, created_date, last_login_date`
	userInfoView = "user_info"
)

type UserRepositoryInterface interface {
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entities.User, error)
	FindUserByEmployeeID(ctx context.Context, employeeID uint64) (*entities.User, error)
	GetUserInfo(ctx context.Context, id uint64) (*entities.UserInfo, error)
	UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error)
	CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error)
	UpdateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error)
	SetActive(ctx context.Context, id uint64, isActive bool) error
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetActiveByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64, isActive bool) error
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
	DeleteByEmployeeIDInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.RoleID, &u.EmployeeID,
		&u.IsActive, &u.CreatedDate, &u.LastLoginDate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1", userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, username))
}

func (r *UserRepository) FindUserByEmployeeID(ctx context.Context, employeeID uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE employee_id = $1", userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, employeeID))
}

func (r *UserRepository) GetUserInfo(ctx context.Context, id uint64) (*entities.UserInfo, error) {
	query := fmt.Sprintf(`SELECT id, username, password_hash, role_id, employee_id, is_active,
		created_date, last_login_date, role_name, last_name, first_name, middle_name,
		position_name, department_name FROM %s WHERE id = $1`, userInfoView)
	var u entities.UserInfo
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.RoleID, &u.EmployeeID, &u.IsActive,
		&u.CreatedDate, &u.LastLoginDate, &u.RoleName, &u.LastName, &u.FirstName, &u.MiddleName,
		&u.PositionName, &u.DepartmentName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user_info: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string, excludeID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`
	if err := r.storage.QueryRow(ctx, query, username, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`INSERT INTO %s (username, password_hash, role_id, employee_id, is_active, created_date)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING %s`, userTable, userColumns)
	return scanUser(tx.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.RoleID, user.EmployeeID, user.IsActive, user.CreatedDate,
	))
}

// UpdateUserInTx обновляет логин, роль и активность; хеш пароля
// трогается только если он передан непустым.
func (r *UserRepository) UpdateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (*entities.User, error) {
	updateBuilder := sq.Update(userTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": user.ID}).
		Set("username", user.Username).
		Set("role_id", user.RoleID).
		Set("is_active", user.IsActive)

	if user.PasswordHash != "" {
		updateBuilder = updateBuilder.Set("password_hash", user.PasswordHash)
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(tx.QueryRow(ctx, query, args...))
}

func (r *UserRepository) SetActive(ctx context.Context, id uint64, isActive bool) error {
	tag, err := r.storage.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, isActive, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	tag, err := r.storage.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetActiveByEmployeeInTx(ctx context.Context, tx pgx.Tx, employeeID uint64, isActive bool) error {
	// Отсутствие учетной записи не считается ошибкой.
	_, err := tx.Exec(ctx, `UPDATE users SET is_active = $1 WHERE employee_id = $2`, isActive, employeeID)
	return err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.storage.Exec(ctx, `UPDATE users SET last_login_date = $1 WHERE id = $2`, at, id)
	return err
}

func (r *UserRepository) DeleteByEmployeeIDInTx(ctx context.Context, tx pgx.Tx, employeeID uint64) error {
	// Учетной записи может и не быть, это не ошибка.
	_, err := tx.Exec(ctx, `DELETE FROM users WHERE employee_id = $1`, employeeID)
	return err
}
