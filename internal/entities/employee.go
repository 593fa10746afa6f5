package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID         uint64      `json:"id"`
	LastName   string      `json:"last_name"`
	FirstName  string      `json:"first_name"`
	MiddleName null.String `json:"middle_name"`
	Email      null.String `json:"email"`
	Phone      null.String `json:"phone"`

	PositionID   uint64 `json:"position_id"`
	DepartmentID uint64 `json:"department_id"`

	HireDate  time.Time   `json:"hire_date"`
	IsActive  bool        `json:"is_active"`
	PhotoPath null.String `json:"photo_path"`
}

// FullName собирает "Фамилия Имя Отчество" так же, как списки в UI.
func (e Employee) FullName() string {
	name := e.LastName + " " + e.FirstName
	if e.MiddleName.Valid && e.MiddleName.String != "" {
		name += " " + e.MiddleName.String
	}
	return name
}

// EmployeeListItem — строка списка сотрудников с именами справочников
// и сведениями о привязанной учетной записи.
type EmployeeListItem struct {
	Employee

	PositionName   string      `json:"position_name"`
	DepartmentName string      `json:"department_name"`
	Username       null.String `json:"username"`
	AccountActive  null.Bool   `json:"account_active"`
}
