package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// mockUsers — мок для ActiveUserProvider.
type mockUsers struct {
	users map[int64]*model.User
	err   error
}

func (m *mockUsers) GetActiveByID(_ context.Context, id int64) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthorizer(t *testing.T, users *mockUsers) (*Authorizer, *auth.SessionCodec) {
	t.Helper()
	codec, err := auth.NewSessionCodec("test-secret", false)
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthorizer(codec, users, testLogger()), codec
}

// requestWithSession возвращает запрос с cookie сессии пользователя u.
func requestWithSession(t *testing.T, codec *auth.SessionCodec, u *model.User) *http.Request {
	t.Helper()
	value, err := codec.Encode(model.NewSession(u))
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: value})
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ответ не JSON: %v", err)
	}
	return body["error"]
}

var (
	admin    = &model.User{ID: 1, Email: "admin@anpt.dz", Role: rbac.RoleAdmin, IsActive: true}
	employee = &model.User{ID: 2, Email: "karim@anpt.dz", Role: rbac.RoleEmployee, IsActive: true}
	manager  = &model.User{ID: 3, Email: "manager@anpt.dz", Role: rbac.RoleManager, IsActive: true}
	disabled = &model.User{ID: 4, Email: "old@anpt.dz", Role: rbac.RoleAdmin, IsActive: false}
)

func allUsers() *mockUsers {
	return &mockUsers{users: map[int64]*model.User{1: admin, 2: employee, 3: manager, 4: disabled}}
}

func TestRequireEmployee_NoCookie(t *testing.T) {
	a, _ := newTestAuthorizer(t, allUsers())
	handler := a.RequireEmployee()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("ожидался статус 401, получен %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Non authentifié" {
		t.Errorf("сообщение = %q", msg)
	}
}

func TestRequireEmployee_TamperedCookie(t *testing.T) {
	a, _ := newTestAuthorizer(t, allUsers())
	other, _ := auth.NewSessionCodec("other-secret", false)

	handler := a.RequireEmployee()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, other, employee))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

func TestRequireEmployee_AllRoles(t *testing.T) {
	for _, u := range []*model.User{admin, employee, manager} {
		t.Run(u.Role.String(), func(t *testing.T) {
			a, codec := newTestAuthorizer(t, allUsers())
			var got *AuthenticatedContext
			handler := a.RequireEmployee()(WithAuth(func(w http.ResponseWriter, r *http.Request, ac *AuthenticatedContext) {
				got = ac
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithSession(t, codec, u))

			if rec.Code != http.StatusOK {
				t.Fatalf("ожидался статус 200, получен %d", rec.Code)
			}
			if got == nil || got.User.ID != u.ID || got.Session.Email != u.Email {
				t.Errorf("AuthenticatedContext = %+v", got)
			}
		})
	}
}

// Деактивация действует сразу, даже при валидной cookie.
func TestRequireEmployee_DeactivatedUser(t *testing.T) {
	a, codec := newTestAuthorizer(t, allUsers())
	handler := a.RequireEmployee()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, codec, disabled))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

// Роль берётся из БД, а не из cookie.
func TestRequireAdmin_RoleFromStore(t *testing.T) {
	users := allUsers()
	a, codec := newTestAuthorizer(t, users)
	req := requestWithSession(t, codec, admin)

	demoted := *admin
	demoted.Role = rbac.RoleEmployee
	users.users[admin.ID] = &demoted

	handler := a.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("ожидался статус 403, получен %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want int
	}{
		{"admin", admin, http.StatusOK},
		{"employee", employee, http.StatusForbidden},
		{"manager", manager, http.StatusForbidden},
		{"disabled admin", disabled, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, codec := newTestAuthorizer(t, allUsers())
			handler := a.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithSession(t, codec, tt.user))

			if rec.Code != tt.want {
				t.Fatalf("ожидался статус %d, получен %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusForbidden {
				if msg := errorMessage(t, rec); msg != "Accès refusé - Droits administrateur requis" {
					t.Errorf("сообщение = %q", msg)
				}
			}
		})
	}
}

func TestRequireEmployee_StoreError(t *testing.T) {
	users := allUsers()
	users.err = errors.New("connection refused")
	a, codec := newTestAuthorizer(t, users)

	handler := a.RequireEmployee()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler не должен быть вызван")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithSession(t, codec, employee))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("ожидался статус 500, получен %d", rec.Code)
	}
}

func TestWithAuth_NoContext(t *testing.T) {
	handler := WithAuth(func(w http.ResponseWriter, r *http.Request, ac *AuthenticatedContext) {
		t.Error("handler не должен быть вызван")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("ожидался статус 401, получен %d", rec.Code)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if ac := FromContext(context.Background()); ac != nil {
		t.Errorf("ожидался nil, получен %+v", ac)
	}
}
