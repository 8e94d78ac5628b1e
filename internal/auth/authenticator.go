// authenticator.go — проверка логина и пароля, выдача сессии.
// Каждый вызов Login пишет ровно одну запись в журнал входов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// ErrInvalidCredentials — неверный логин, неверный пароль или отключённый
// аккаунт. Случаи намеренно не различаются.
var ErrInvalidCredentials = errors.New("identifiants incorrects ou compte désactivé")

// CredentialStore — поиск учётной записи по логину.
// Реализуется repository.UserRepository.
type CredentialStore interface {
	// GetActiveByLogin возвращает активного пользователя или repository.ErrNotFound.
	GetActiveByLogin(ctx context.Context, login string) (*model.User, error)
}

// Authenticator — шлюз аутентификации по логину и паролю.
type Authenticator struct {
	users   CredentialStore
	hasher  PasswordHasher
	connLog *ConnectionLogger
	logger  *slog.Logger
}

// NewAuthenticator создаёт шлюз аутентификации.
func NewAuthenticator(users CredentialStore, hasher PasswordHasher, connLog *ConnectionLogger, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		users:   users,
		hasher:  hasher,
		connLog: connLog,
		logger:  logger.With(slog.String("component", "authenticator")),
	}
}

// Login проверяет учётные данные.
// При неудаче в журнал пишется введённый логин и возвращается ErrInvalidCredentials.
// При успехе в журнал пишется email пользователя и возвращается сессия.
// Ошибка хранилища возвращается как есть (после записи неудачной попытки).
func (a *Authenticator) Login(ctx context.Context, login, password string, meta RequestMeta) (*model.User, model.Session, error) {
	if login == "" || password == "" {
		a.fail(ctx, login, meta, resultFailure)
		return nil, model.Session{}, ErrInvalidCredentials
	}

	user, err := a.users.GetActiveByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.fail(ctx, login, meta, resultFailure)
			return nil, model.Session{}, ErrInvalidCredentials
		}
		a.fail(ctx, login, meta, resultError)
		return nil, model.Session{}, fmt.Errorf("поиск пользователя по логину: %w", err)
	}

	if !user.IsActive || !a.hasher.Verify(password, user.PasswordHash) {
		a.fail(ctx, login, meta, resultFailure)
		return nil, model.Session{}, ErrInvalidCredentials
	}

	a.connLog.Record(ctx, user.Email, meta, true)
	loginAttempts.WithLabelValues(resultSuccess).Inc()
	a.logger.Info("Успешный вход",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
		slog.String("ip", meta.IP),
	)

	return user, model.NewSession(user), nil
}

func (a *Authenticator) fail(ctx context.Context, login string, meta RequestMeta, result string) {
	a.connLog.Record(ctx, login, meta, false)
	loginAttempts.WithLabelValues(result).Inc()
	a.logger.Warn("Неудачная попытка входа",
		slog.String("login", login),
		slog.String("ip", meta.IP),
	)
}
