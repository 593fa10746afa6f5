package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"asset-control/internal/entities"
	apperrors "asset-control/pkg/errors"
	"asset-control/pkg/types"
	"asset-control/pkg/utils"
)

const (
	employeeTable   = "employees"
	employeeColumns = `id, last_name, first_name, middle_name, email, phone,
		position_id, department_id, hire_date, is_active, photo_path`
)

var employeeAllowedFilterFields = map[string]string{
	"department_id": "e.department_id",
	"position_id":   "e.position_id",
	"is_active":     "e.is_active",
}

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeListItem, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error)
	CreateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error)
	UpdateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error)
	DeleteEmployeeInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	SetPhotoPath(ctx context.Context, id uint64, photoPath string) error
	UpdateContactInfo(ctx context.Context, id uint64, email, phone null.String) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(
		&e.ID, &e.LastName, &e.FirstName, &e.MiddleName, &e.Email, &e.Phone,
		&e.PositionID, &e.DepartmentID, &e.HireDate, &e.IsActive, &e.PhotoPath,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) buildFilterQuery(filter types.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argCounter := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.last_name ILIKE $%d OR e.first_name ILIKE $%d OR e.middle_name ILIKE $%d OR e.email ILIKE $%d OR e.phone ILIKE $%d)",
			argCounter, argCounter, argCounter, argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	for key, value := range filter.Filter {
		if dbColumn, ok := employeeAllowedFilterFields[key]; ok {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", dbColumn, argCounter))
			args = append(args, value)
			argCounter++
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *EmployeeRepository) countEmployees(ctx context.Context, filter types.Filter) (uint64, error) {
	whereClause, args := r.buildFilterQuery(filter)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s AS e %s", employeeTable, whereClause)
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.EmployeeListItem, uint64, error) {
	total, err := r.countEmployees(ctx, filter)
	if err != nil || total == 0 {
		return []entities.EmployeeListItem{}, total, err
	}

	whereClause, args := r.buildFilterQuery(filter)

	// Прижимаем страницу к последней после подсчета, как и в списке активов.
	filter.Page, filter.Offset = utils.ClampPage(total, filter.Page, filter.Limit)

	limitClause := ""
	if filter.Limit > 0 {
		argCounter := len(args) + 1
		limitClause = fmt.Sprintf("LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`SELECT e.id, e.last_name, e.first_name, e.middle_name, e.email, e.phone,
		e.position_id, e.department_id, e.hire_date, e.is_active, e.photo_path,
		p.name AS position_name, d.name AS department_name,
		u.username, u.is_active AS account_active
		FROM %s AS e
		JOIN positions p ON e.position_id = p.id
		JOIN departments d ON e.department_id = d.id
		LEFT JOIN users u ON u.employee_id = e.id
		%s ORDER BY e.id DESC %s`, employeeTable, whereClause, limitClause)

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.EmployeeListItem, 0)
	for rows.Next() {
		var e entities.EmployeeListItem
		err := rows.Scan(
			&e.ID, &e.LastName, &e.FirstName, &e.MiddleName, &e.Email, &e.Phone,
			&e.PositionID, &e.DepartmentID, &e.HireDate, &e.IsActive, &e.PhotoPath,
			&e.PositionName, &e.DepartmentName, &e.Username, &e.AccountActive,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования списка сотрудников: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", employeeColumns, employeeTable)
	return scanEmployee(r.storage.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1 AND id <> $2)`
	if err := r.storage.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateEmployeeInTx вставляет сотрудника внутри внешней транзакции.
// RETURNING id нужен до вставки учетной записи: users.employee_id
// ссылается на сгенерированный идентификатор.
func (r *EmployeeRepository) CreateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error) {
	query := fmt.Sprintf(`INSERT INTO %s (last_name, first_name, middle_name, email, phone,
		position_id, department_id, hire_date, is_active, photo_path)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING %s`, employeeTable, employeeColumns)
	return scanEmployee(tx.QueryRow(ctx, query,
		employee.LastName, employee.FirstName, employee.MiddleName, employee.Email, employee.Phone,
		employee.PositionID, employee.DepartmentID, employee.HireDate, employee.IsActive, employee.PhotoPath,
	))
}

func (r *EmployeeRepository) UpdateEmployeeInTx(ctx context.Context, tx pgx.Tx, employee entities.Employee) (*entities.Employee, error) {
	updateBuilder := sq.Update(employeeTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": employee.ID}).
		Set("last_name", employee.LastName).
		Set("first_name", employee.FirstName).
		Set("middle_name", employee.MiddleName).
		Set("email", employee.Email).
		Set("phone", employee.Phone).
		Set("position_id", employee.PositionID).
		Set("department_id", employee.DepartmentID).
		Set("hire_date", employee.HireDate).
		Set("is_active", employee.IsActive)

	query, args, err := updateBuilder.Suffix("RETURNING " + employeeColumns).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(tx.QueryRow(ctx, query, args...))
}

func (r *EmployeeRepository) DeleteEmployeeInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateContactInfo правит только контакты — им пользуется страница
// профиля, где остальные поля карточки недоступны.
func (r *EmployeeRepository) UpdateContactInfo(ctx context.Context, id uint64, email, phone null.String) error {
	tag, err := r.storage.Exec(ctx, `UPDATE employees SET email = $1, phone = $2 WHERE id = $3`, email, phone, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) SetPhotoPath(ctx context.Context, id uint64, photoPath string) error {
	tag, err := r.storage.Exec(ctx, `UPDATE employees SET photo_path = $1 WHERE id = $2`, photoPath, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
