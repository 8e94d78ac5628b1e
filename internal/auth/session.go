// session.go — кодек сессионного cookie.
// Сессия — подписанный HS256 токен с полями id, email, role, first_name,
// last_name. Серверного хранилища сессий нет: cookie и есть состояние.
package auth

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
)

// Имя cookie сессии.
const SessionCookieName = "user_session"

// Максимальный возраст cookie сессии (24 часа).
const SessionCookieMaxAge = 24 * 60 * 60

// sessionClaims — содержимое токена сессии.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// SessionCodec — кодирование сессии в значение cookie и обратно.
type SessionCodec struct {
	// key — ключ HMAC для подписи токена.
	key []byte
	// secure — флаг Secure для cookie.
	secure bool
	// now — источник времени (подменяется в тестах).
	now func() time.Time
}

// NewSessionCodec создаёт кодек сессий.
// Если secret пустой — генерируется случайный ключ (сессии не переживают рестарт).
func NewSessionCodec(secret string, secure bool) (*SessionCodec, error) {
	var key []byte
	if secret == "" {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		key = []byte(secret)
	}

	return &SessionCodec{
		key:    key,
		secure: secure,
		now:    time.Now,
	}, nil
}

// Encode сериализует сессию в компактный подписанный токен.
func (c *SessionCodec) Encode(s model.Session) (string, error) {
	now := c.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionCookieMaxAge * time.Second)),
		},
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      string(s.Role),
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи сессии: %w", err)
	}
	return token, nil
}

// Decode восстанавливает сессию из значения cookie.
// Пустое, повреждённое, чужое или просроченное значение — ok=false.
func (c *SessionCodec) Decode(value string) (*model.Session, bool) {
	if value == "" {
		return nil, false
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(value, claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, false
	}
	if claims.UserID <= 0 || !rbac.IsValidRole(claims.Role) {
		return nil, false
	}

	return &model.Session{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      rbac.Role(claims.Role),
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, true
}

// SetCookie устанавливает cookie сессии в ответ.
func (c *SessionCodec) SetCookie(w http.ResponseWriter, s model.Session) error {
	value, err := c.Encode(s)
	if err != nil {
		return err
	}

	http.SetCookie(w, c.cookie(value, SessionCookieMaxAge))
	return nil
}

// FromRequest извлекает сессию из cookie запроса.
// Отсутствие cookie и нечитаемое значение неразличимы: ok=false.
func (c *SessionCodec) FromRequest(r *http.Request) (*model.Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}
	return c.Decode(cookie.Value)
}

// Clear удаляет cookie сессии (logout): пустое значение, немедленное истечение.
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *SessionCodec) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
