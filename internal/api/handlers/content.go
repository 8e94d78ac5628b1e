// content.go — мероприятия, объявления и административные документы.
// Администратор видит все записи, сотрудник только активные.
package handlers

import (
	"context"
	"net/http"

	"github.com/arturkryukov/hrportal/internal/api/middleware"
	"github.com/arturkryukov/hrportal/internal/service"
)

// --- Мероприятия ---

// ListEventsAdmin — GET /api/admin/events.
func (h *APIHandler) ListEventsAdmin(w http.ResponseWriter, r *http.Request) {
	h.listEvents(w, r, false)
}

// ListEvents — GET /api/employee/events.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.listEvents(w, r, true)
}

func (h *APIHandler) listEvents(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	list, err := h.content.ListEvents(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateEvent — POST /api/admin/events.
func (h *APIHandler) CreateEvent(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var in service.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	e, err := h.content.CreateEvent(r.Context(), in, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateEvent — PUT /api/admin/events/{id}.
func (h *APIHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	e, err := h.content.UpdateEvent(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEvent — DELETE /api/admin/events/{id}.
func (h *APIHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.content.DeleteEvent)
}

// --- Объявления ---

// ListAnnouncementsAdmin — GET /api/admin/announcements.
func (h *APIHandler) ListAnnouncementsAdmin(w http.ResponseWriter, r *http.Request) {
	h.listAnnouncements(w, r, false)
}

// ListAnnouncements — GET /api/employee/announcements.
func (h *APIHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	h.listAnnouncements(w, r, true)
}

func (h *APIHandler) listAnnouncements(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	list, err := h.content.ListAnnouncements(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateAnnouncement — POST /api/admin/announcements.
func (h *APIHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var in service.AnnouncementInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.content.CreateAnnouncement(r.Context(), in, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAnnouncement — PUT /api/admin/announcements/{id}.
func (h *APIHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.AnnouncementInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := h.content.UpdateAnnouncement(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAnnouncement — DELETE /api/admin/announcements/{id}.
func (h *APIHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.content.DeleteAnnouncement)
}

// --- Документы ---

// ListDocumentsAdmin — GET /api/admin/documents.
func (h *APIHandler) ListDocumentsAdmin(w http.ResponseWriter, r *http.Request) {
	h.listDocuments(w, r, false)
}

// ListDocuments — GET /api/employee/documents.
func (h *APIHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	h.listDocuments(w, r, true)
}

func (h *APIHandler) listDocuments(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	list, err := h.content.ListDocuments(r.Context(), activeOnly)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateDocument — POST /api/admin/documents.
func (h *APIHandler) CreateDocument(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var in service.DocumentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.content.CreateDocument(r.Context(), in, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// UpdateDocument — PUT /api/admin/documents/{id}.
func (h *APIHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.DocumentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.content.UpdateDocument(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDocument — DELETE /api/admin/documents/{id}.
func (h *APIHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.content.DeleteDocument)
}

func (h *APIHandler) deleteByID(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
