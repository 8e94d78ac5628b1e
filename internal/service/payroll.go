// payroll.go — бюллетени зарплаты и сетки окладов.
// Файлы не загружаются: сохраняются имена и URL-заглушки под HR_FILE_BASE_URL.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// Допустимый диапазон года бюллетеня.
const (
	MinPayslipYear = 2020
	MaxPayslipYear = 2030
)

// PayrollService — бюллетени и сетки окладов.
type PayrollService struct {
	payslips repository.PayslipRepository
	charts   repository.SalaryChartRepository
	baseURL  string
	now      func() time.Time
	logger   *slog.Logger
}

// NewPayrollService создаёт сервис бюллетеней и сеток окладов.
func NewPayrollService(
	payslips repository.PayslipRepository,
	charts repository.SalaryChartRepository,
	fileBaseURL string,
	logger *slog.Logger,
) *PayrollService {
	return &PayrollService{
		payslips: payslips,
		charts:   charts,
		baseURL:  strings.TrimRight(fileBaseURL, "/"),
		now:      time.Now,
		logger:   logger.With(slog.String("component", "payroll_service")),
	}
}

// CreatePayslip регистрирует бюллетень пользователя за месяц.
func (s *PayrollService) CreatePayslip(ctx context.Context, userID int64, month, year int, uploadedBy string) (*model.Payslip, error) {
	if userID <= 0 {
		return nil, invalidf("user_id requis")
	}
	if month < 1 || month > 12 {
		return nil, invalidf("Mois invalide: %d (1-12)", month)
	}
	if year < MinPayslipYear || year > MaxPayslipYear {
		return nil, invalidf("Année invalide: %d (%d-%d)", year, MinPayslipYear, MaxPayslipYear)
	}

	name := fmt.Sprintf("payslip_%d_%d_%d.pdf", userID, month, year)
	p := &model.Payslip{
		UserID:     userID,
		FileName:   name,
		FileURL:    s.baseURL + "/payslips/" + name,
		Month:      month,
		Year:       year,
		UploadedBy: uploadedBy,
	}
	if err := s.payslips.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, conflict("Un bulletin existe déjà pour cette période")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Utilisateur non trouvé")
		}
		return nil, err
	}

	s.logger.Info("Бюллетень загружен",
		slog.Int64("user_id", userID),
		slog.Int("month", month),
		slog.Int("year", year),
		slog.String("uploaded_by", uploadedBy),
	)
	return p, nil
}

// ListPayslips возвращает бюллетени пользователя.
func (s *PayrollService) ListPayslips(ctx context.Context, userID int64) ([]*model.Payslip, error) {
	return s.payslips.ListByUser(ctx, userID)
}

// PublishSalaryChart публикует новую сетку, предыдущие деактивируются.
func (s *PayrollService) PublishSalaryChart(ctx context.Context, title, uploadedBy string) (*model.SalaryChart, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalidf("Titre requis")
	}

	name := fmt.Sprintf("salary_chart_%d.pdf", s.now().UnixMilli())
	c := &model.SalaryChart{
		Title:      title,
		FileName:   name,
		FileURL:    s.baseURL + "/charts/" + name,
		UploadedBy: uploadedBy,
	}
	if err := s.charts.Publish(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Опубликована сетка окладов", slog.Int64("chart_id", c.ID), slog.String("title", title))
	return c, nil
}

// CurrentSalaryChart возвращает активную сетку или nil, если её нет.
func (s *PayrollService) CurrentSalaryChart(ctx context.Context) (*model.SalaryChart, error) {
	c, err := s.charts.CurrentActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
