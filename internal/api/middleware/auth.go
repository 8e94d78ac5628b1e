// auth.go — middleware авторизации по cookie-сессии.
// Декодирует сессию, перечитывает пользователя из БД (is_active = true)
// и кладёт AuthenticatedContext в контекст запроса.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/hrportal/internal/api/errors"
	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const contextKeyAuth contextKey = "auth_context"

// AuthenticatedContext — результат успешной авторизации:
// актуальная запись пользователя и декодированная сессия.
type AuthenticatedContext struct {
	User    *model.User
	Session *model.Session
}

// ActiveUserProvider — источник актуальных данных пользователя.
// Реализуется repository.UserRepository.
type ActiveUserProvider interface {
	// GetActiveByID возвращает активного пользователя или repository.ErrNotFound.
	GetActiveByID(ctx context.Context, id int64) (*model.User, error)
}

// Authorizer — проверка сессии и роли перед вызовом handler.
type Authorizer struct {
	codec  *auth.SessionCodec
	users  ActiveUserProvider
	logger *slog.Logger
}

// NewAuthorizer создаёт Authorizer.
func NewAuthorizer(codec *auth.SessionCodec, users ActiveUserProvider, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		codec:  codec,
		users:  users,
		logger: logger.With(slog.String("component", "authorizer")),
	}
}

// RequireEmployee пропускает любого активного пользователя (все роли).
func (a *Authorizer) RequireEmployee() func(http.Handler) http.Handler {
	return a.require(false)
}

// RequireAdmin пропускает только активного пользователя с ролью admin.
func (a *Authorizer) RequireAdmin() func(http.Handler) http.Handler {
	return a.require(true)
}

func (a *Authorizer) require(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := a.resolve(w, r)
			if !ok {
				return
			}
			if adminOnly && !ac.User.Role.IsAdmin() {
				a.logger.Debug("Доступ запрещён",
					slog.Int64("user_id", ac.User.ID),
					slog.String("role", ac.User.Role.String()),
					slog.String("path", r.URL.Path),
				)
				apierrors.Forbidden(w, apierrors.MsgForbiddenAdmin)
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyAuth, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve декодирует cookie и перечитывает пользователя.
// При отказе ответ уже записан.
func (a *Authorizer) resolve(w http.ResponseWriter, r *http.Request) (*AuthenticatedContext, bool) {
	sess, ok := a.codec.FromRequest(r)
	if !ok {
		apierrors.Unauthorized(w, apierrors.MsgUnauthenticated)
		return nil, false
	}

	user, err := a.users.GetActiveByID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.Unauthorized(w, apierrors.MsgUnauthenticated)
			return nil, false
		}
		a.logger.Error("Ошибка загрузки пользователя сессии",
			slog.Int64("user_id", sess.UserID),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w)
		return nil, false
	}

	return &AuthenticatedContext{User: user, Session: sess}, true
}

// FromContext возвращает AuthenticatedContext из контекста запроса.
// Возвращает nil, если запрос не прошёл через RequireEmployee/RequireAdmin.
func FromContext(ctx context.Context) *AuthenticatedContext {
	ac, _ := ctx.Value(contextKeyAuth).(*AuthenticatedContext)
	return ac
}

// WithAuth адаптирует handler, которому нужна личность пользователя.
// Без AuthenticatedContext в контексте handler не вызывается (401).
func WithAuth(h func(w http.ResponseWriter, r *http.Request, ac *AuthenticatedContext)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := FromContext(r.Context())
		if ac == nil {
			apierrors.Unauthorized(w, apierrors.MsgUnauthenticated)
			return
		}
		h(w, r, ac)
	}
}
