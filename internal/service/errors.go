// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ressource non trouvée")
	// ErrConflict — конфликт (дубликат или недопустимый переход статуса).
	ErrConflict = errors.New("conflit")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("données invalides")
)

// domainError — ошибка с сообщением для клиента и категорией (ErrNotFound,
// ErrConflict, ErrValidation). Error() возвращает только сообщение,
// errors.Is сопоставляет с категорией.
type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Is(target error) bool { return target == e.kind }

func invalidf(format string, args ...any) error {
	return &domainError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func notFound(msg string) error {
	return &domainError{kind: ErrNotFound, msg: msg}
}

func conflict(msg string) error {
	return &domainError{kind: ErrConflict, msg: msg}
}
