// Пакет model — доменные модели HR-портала.
package model

import (
	"time"

	"github.com/arturkryukov/hrportal/internal/domain/rbac"
)

// User — учётная запись сотрудника или администратора.
// Хранится в таблице users, физически не удаляется (только деактивация).
type User struct {
	// ID — числовой идентификатор
	ID int64 `json:"id"`
	// Email — адрес электронной почты (уникальный)
	Email string `json:"email"`
	// Login — логин для входа по паролю (уникальный)
	Login string `json:"login"`
	// PasswordHash — дайджест пароля, наружу не отдаётся
	PasswordHash string `json:"-"`
	// Role — роль (admin, hr, manager, employee)
	Role rbac.Role `json:"role"`
	// FirstName — имя
	FirstName string `json:"first_name"`
	// LastName — фамилия
	LastName string `json:"last_name"`
	// EmployeeID — табельный номер (EMP<unix-ms>, если не задан)
	EmployeeID string `json:"employee_id"`
	// Department — подразделение
	Department string `json:"department"`
	// Position — должность
	Position string `json:"position"`
	// HireDate — дата приёма на работу
	HireDate *time.Time `json:"hire_date"`
	// Phone — телефон
	Phone string `json:"phone"`
	// IsActive — false блокирует вход и действующие сессии
	IsActive bool `json:"is_active"`
	// CreatedAt — время создания записи
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate — частичное обновление профиля администратором.
// nil-поля не изменяются.
type UserUpdate struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Department   *string
	Position     *string
	Phone        *string
	HireDate     *time.Time
	Role         *rbac.Role
	IsActive     *bool
	PasswordHash *string
}
