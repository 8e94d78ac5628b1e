// requests.go — заявки сотрудников и заявки на сброс пароля.
package handlers

import (
	"net/http"

	"github.com/arturkryukov/hrportal/internal/api/middleware"
	"github.com/arturkryukov/hrportal/internal/service"
)

// SubmitRequest — POST /api/employee/requests.
func (h *APIHandler) SubmitRequest(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var in service.SubmitRequestInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := h.requests.Submit(r.Context(), ac.User.ID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// MyRequests — GET /api/employee/requests.
func (h *APIHandler) MyRequests(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	list, err := h.requests.ListOwn(r.Context(), ac.User.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListRequests — GET /api/admin/requests.
func (h *APIHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	list, err := h.requests.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleRequest — PUT /api/admin/requests/{id}.
func (h *APIHandler) HandleRequest(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.HandleRequestInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := h.requests.Handle(r.Context(), id, in, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// ListPasswordRequests — GET /api/admin/password-requests.
func (h *APIHandler) ListPasswordRequests(w http.ResponseWriter, r *http.Request) {
	list, err := h.resets.ListPending(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ResolvePasswordRequest — PUT /api/admin/password-requests/{id}.
func (h *APIHandler) ResolvePasswordRequest(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.ResolveResetInput
	if !decodeJSON(w, r, &in) {
		return
	}
	req, err := h.resets.Resolve(r.Context(), id, in, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
