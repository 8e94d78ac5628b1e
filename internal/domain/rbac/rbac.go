// Пакет rbac — роли пользователей HR-портала и правила доступа.
// Доступ к маршрутам определяется двумя уровнями: admin и любой
// активный пользователь. Роли hr и manager зарезервированы: хранятся в БД,
// но отдельных прав не дают.
package rbac

// Role — роль пользователя.
type Role string

// Роли, допустимые в таблице users.
const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// validRoles — множество допустимых ролей.
var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleHR:       true,
	RoleManager:  true,
	RoleEmployee: true,
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	return validRoles[Role(role)]
}

// IsAdmin — доступ к /api/admin/* имеет только роль admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// String реализует fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
