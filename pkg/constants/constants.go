package constants

// Роли пользователей. Идентификаторы зафиксированы справочником user_roles.
const (
	RoleAdministrator uint64 = 1
	RoleManager       uint64 = 2
	RoleUser          uint64 = 3
)
