// handler.go — основной обработчик API HR-портала.
// Объединяет доменные обработчики и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/arturkryukov/hrportal/internal/api/errors"
	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/service"
)

// logsLimit — число записей журнала входов в /api/admin/logs.
const logsLimit = 100

// maxBodyBytes — ограничение размера JSON-тела запроса.
const maxBodyBytes = 1 << 20

// APIHandler — основной обработчик API.
type APIHandler struct {
	health    *HealthHandler
	authn     *auth.Authenticator
	connLog   *auth.ConnectionLogger
	codec     *auth.SessionCodec
	employees *service.EmployeeService
	payroll   *service.PayrollService
	content   *service.ContentService
	requests  *service.RequestService
	resets    *service.PasswordResetService
	logger    *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	authn *auth.Authenticator,
	connLog *auth.ConnectionLogger,
	codec *auth.SessionCodec,
	employees *service.EmployeeService,
	payroll *service.PayrollService,
	content *service.ContentService,
	requests *service.RequestService,
	resets *service.PasswordResetService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		authn:     authn,
		connLog:   connLog,
		codec:     codec,
		employees: employees,
		payroll:   payroll,
		content:   content,
		requests:  requests,
		resets:    resets,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// HealthLive — liveness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe (делегируется в HealthHandler).
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики (делегируется в HealthHandler).
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// successResponse — ответ {"success": true}.
type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает JSON-тело запроса в dst.
// При ошибке записывает 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeBody(r, dst); err != nil {
		apierrors.ValidationError(w, apierrors.MsgInvalidJSON)
		return false
	}
	return true
}

// decodeBody читает JSON-тело запроса не больше maxBodyBytes.
func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

// pathID извлекает числовой {id} из пути.
// При нечисловом или неположительном значении записывает 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil || id <= 0 {
		apierrors.ValidationError(w, apierrors.MsgInvalidID)
		return 0, false
	}
	return id, true
}

// writeServiceError преобразует ошибку сервисного слоя в HTTP-ответ.
// Сообщение ошибок категорий ErrValidation/ErrNotFound/ErrConflict
// передаётся клиенту, остальные ошибки логируются и скрываются.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	default:
		h.logger.Error("Ошибка обработки запроса",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w)
	}
}
