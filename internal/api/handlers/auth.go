// auth.go — вход, выход, текущий пользователь и публичная заявка на сброс пароля.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/arturkryukov/hrportal/internal/api/errors"
	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
)

const (
	msgCredentialsRequired = "Login et mot de passe requis"
	msgInvalidCredentials  = "Identifiants incorrects ou compte désactivé"
	msgResetRequested      = "Demande de réinitialisation envoyée. Un administrateur la traitera prochainement."
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool          `json:"success"`
	User    model.Session `json:"user"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login — POST /api/login.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil || req.Login == "" || req.Password == "" {
		apierrors.ValidationError(w, msgCredentialsRequired)
		return
	}

	_, sess, err := h.authn.Login(r.Context(), req.Login, req.Password, auth.RequestMetaFrom(r))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			apierrors.Unauthorized(w, msgInvalidCredentials)
			return
		}
		h.logger.Error("Ошибка входа", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	if err := h.codec.SetCookie(w, sess); err != nil {
		h.logger.Error("Ошибка выдачи cookie сессии", slog.String("error", err.Error()))
		apierrors.InternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Success: true, User: sess})
}

// CurrentUser — GET /api/users/me.
// Отсутствующая запись — 404, неактивная — 401.
func (h *APIHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.codec.FromRequest(r)
	if !ok {
		apierrors.Unauthorized(w, apierrors.MsgUnauthenticated)
		return
	}

	user, err := h.employees.Get(r.Context(), sess.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !user.IsActive {
		apierrors.Unauthorized(w, apierrors.MsgUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout — GET /api/logout. Публичный: cookie очищается всегда.
func (h *APIHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.codec.Clear(w)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset — POST /api/employee/password-reset-request (публичный).
func (h *APIHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeBody(r, &req); err != nil {
		apierrors.ValidationError(w, "Email requis")
		return
	}

	if _, err := h.resets.Submit(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msgResetRequested})
}
