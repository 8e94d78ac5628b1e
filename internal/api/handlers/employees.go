// employees.go — управление сотрудниками (admin) и профиль сотрудника.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/arturkryukov/hrportal/internal/api/middleware"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/service"
)

// createEmployeeResponse — ответ на создание сотрудника.
// credentials показываются администратору один раз.
type createEmployeeResponse struct {
	User        *model.User          `json:"user"`
	Message     string               `json:"message"`
	Credentials *service.Credentials `json:"credentials"`
}

// ListEmployees — GET /api/admin/employees.
func (h *APIHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.employees.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateEmployee — POST /api/admin/employees.
func (h *APIHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in service.CreateEmployeeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, creds, err := h.employees.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createEmployeeResponse{
		User: user,
		Message: fmt.Sprintf("Employé créé avec succès. Email: %s, ID: %s, Login: %s",
			creds.Email, creds.EmployeeID, creds.Login),
		Credentials: creds,
	})
}

// GetEmployee — GET /api/admin/employees/{id}.
func (h *APIHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.employees.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateEmployee — PUT /api/admin/employees/{id}.
func (h *APIHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.UpdateEmployeeInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.employees.Update(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeactivateEmployee — DELETE /api/admin/employees/{id}. Запись не удаляется.
func (h *APIHandler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.employees.Deactivate(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Profile — GET /api/employee/profile. Актуальная запись из AuthenticatedContext.
func (h *APIHandler) Profile(w http.ResponseWriter, _ *http.Request, ac *middleware.AuthenticatedContext) {
	writeJSON(w, http.StatusOK, ac.User)
}

// ListConnectionLogs — GET /api/admin/logs.
func (h *APIHandler) ListConnectionLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.connLog.Recent(r.Context(), logsLimit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
