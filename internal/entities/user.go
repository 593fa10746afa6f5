package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID           uint64      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	RoleID       uint64      `json:"role_id"`
	EmployeeID   null.Uint64 `json:"employee_id"`

	IsActive      bool      `json:"is_active"`
	CreatedDate   time.Time `json:"created_date"`
	LastLoginDate null.Time `json:"last_login_date"`
}

// UserInfo — строка читающего представления user_info: учетная запись
// плюс роль и данные сотрудника.
type UserInfo struct {
	User

	RoleName       string      `json:"role_name"`
	LastName       null.String `json:"last_name"`
	FirstName      null.String `json:"first_name"`
	MiddleName     null.String `json:"middle_name"`
	PositionName   null.String `json:"position_name"`
	DepartmentName null.String `json:"department_name"`
}
