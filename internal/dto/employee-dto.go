package dto

import (
	"github.com/aarondl/null/v8"
)

// AccountDTO — вложенная часть формы сотрудника "создать учетную запись".
// Пустой пароль при обновлении означает "оставить прежний хеш".
type AccountDTO struct {
	Username string    `json:"username" validate:"required"`
	Password string    `json:"password,omitempty"`
	RoleID   uint64    `json:"role_id" validate:"required"`
	IsActive null.Bool `json:"is_active,omitempty"`
}

// SaveEmployeeDTO — форма карточки сотрудника. Присутствие Account
// соответствует включенному флажку "создать учетную запись".
type SaveEmployeeDTO struct {
	LastName   string `json:"last_name" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	MiddleName string `json:"middle_name,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,phone"`

	PositionID   uint64 `json:"position_id" validate:"required"`
	DepartmentID uint64 `json:"department_id" validate:"required"`

	HireDate null.Time `json:"hire_date,omitempty"`
	IsActive null.Bool `json:"is_active,omitempty"`

	Account *AccountDTO `json:"account,omitempty"`
}

type ToggleAccountResultDTO struct {
	EmployeeID uint64 `json:"employee_id"`
	HasAccount bool   `json:"has_account"`
	IsActive   bool   `json:"is_active"`
	Message    string `json:"message"`
}
