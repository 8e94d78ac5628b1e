package model

import "github.com/arturkryukov/hrportal/internal/domain/rbac"

// Session — снимок личности пользователя на момент входа.
// Хранится только в cookie клиента, на сервере не сохраняется.
// Роль и имя могут устареть до следующего входа; активность
// пользователя проверяется по БД при каждом запросе.
type Session struct {
	UserID    int64     `json:"id"`
	Email     string    `json:"email"`
	Role      rbac.Role `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// NewSession формирует сессию из записи пользователя.
func NewSession(u *User) Session {
	return Session{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
