package model

import "time"

// ConnectionLog — запись о попытке входа. Не изменяется и не удаляется.
// UserEmail — email пользователя при успехе, введённый логин при неудаче.
type ConnectionLog struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"user_email"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	LoginAt   time.Time `json:"login_at"`
}

// Статусы заявки на сброс пароля.
const (
	ResetStatusPending   = "pending"
	ResetStatusCompleted = "completed"
	ResetStatusRejected  = "rejected"
)

// PasswordResetRequest — заявка на сброс пароля, обрабатывается администратором вручную.
type PasswordResetRequest struct {
	ID          int64      `json:"id"`
	UserEmail   string     `json:"user_email"`
	RequestedAt time.Time  `json:"requested_at"`
	HandledBy   *string    `json:"handled_by"`
	HandledAt   *time.Time `json:"handled_at"`
	Status      string     `json:"status"`
}
