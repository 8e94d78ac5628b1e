// payroll.go — бюллетени зарплаты и зарплатная сетка.
package handlers

import (
	"net/http"

	"github.com/arturkryukov/hrportal/internal/api/middleware"
)

type createPayslipRequest struct {
	UserID int64 `json:"user_id"`
	Month  int   `json:"month"`
	Year   int   `json:"year"`
}

type publishChartRequest struct {
	Title string `json:"title"`
}

// CreatePayslip — POST /api/admin/payslips.
func (h *APIHandler) CreatePayslip(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var req createPayslipRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.payroll.CreatePayslip(r.Context(), req.UserID, req.Month, req.Year, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PublishSalaryChart — POST /api/admin/salary-charts.
func (h *APIHandler) PublishSalaryChart(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	var req publishChartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.payroll.PublishSalaryChart(r.Context(), req.Title, ac.User.Email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// MyPayslips — GET /api/employee/payslips.
func (h *APIHandler) MyPayslips(w http.ResponseWriter, r *http.Request, ac *middleware.AuthenticatedContext) {
	list, err := h.payroll.ListPayslips(r.Context(), ac.User.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CurrentSalaryChart — GET /api/employee/salary-chart. Без активной сетки — null.
func (h *APIHandler) CurrentSalaryChart(w http.ResponseWriter, r *http.Request) {
	c, err := h.payroll.CurrentSalaryChart(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
