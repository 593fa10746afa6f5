package authz

import (
	"asset-control/pkg/constants"
)

// Предикаты доступа, общие для всех сервисов. Скрытие кнопок на
// клиенте — удобство, а не граница безопасности: те же проверки
// выполняются и здесь, на входе в сервисный слой.

// CanManageRole — добавление, редактирование и списание записей.
// Доступно администратору и менеджеру.
func CanManageRole(roleID uint64) bool {
	return roleID == constants.RoleAdministrator || roleID == constants.RoleManager
}

// CanDeleteHardRole — необратимое физическое удаление. Только администратор.
func CanDeleteHardRole(roleID uint64) bool {
	return roleID == constants.RoleAdministrator
}
