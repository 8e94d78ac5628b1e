package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arturkryukov/hrportal/internal/repository"
)

func newTestPayroll() (*PayrollService, *fakePayslips, *fakeCharts) {
	p, c := &fakePayslips{}, &fakeCharts{}
	s := NewPayrollService(p, c, "https://anpt.dz/", testLogger())
	s.now = func() time.Time { return fixedNow }
	return s, p, c
}

func TestCreatePayslip(t *testing.T) {
	s, _, _ := newTestPayroll()

	p, err := s.CreatePayslip(context.Background(), 7, 3, 2024, "admin@anpt.dz")
	if err != nil {
		t.Fatalf("CreatePayslip: %v", err)
	}
	if p.FileName != "payslip_7_3_2024.pdf" {
		t.Errorf("FileName = %q", p.FileName)
	}
	if p.FileURL != "https://anpt.dz/payslips/payslip_7_3_2024.pdf" {
		t.Errorf("FileURL = %q", p.FileURL)
	}
	if p.UploadedBy != "admin@anpt.dz" {
		t.Errorf("UploadedBy = %q", p.UploadedBy)
	}
}

func TestCreatePayslip_Validation(t *testing.T) {
	tests := []struct {
		name        string
		user        int64
		month, year int
	}{
		{"нет пользователя", 0, 1, 2024},
		{"месяц 0", 1, 0, 2024},
		{"месяц 13", 1, 13, 2024},
		{"год 2019", 1, 1, 2019},
		{"год 2031", 1, 1, 2031},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newTestPayroll()
			_, err := s.CreatePayslip(context.Background(), tt.user, tt.month, tt.year, "a")
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидалась ErrValidation, получено %v", err)
			}
			if len(repo.created) != 0 {
				t.Error("бюллетень не должен создаваться")
			}
		})
	}
}

func TestCreatePayslip_RepositoryErrors(t *testing.T) {
	s, repo, _ := newTestPayroll()

	repo.err = repository.ErrConflict
	if _, err := s.CreatePayslip(context.Background(), 1, 1, 2024, "a"); !errors.Is(err, ErrConflict) {
		t.Errorf("ожидалась ErrConflict, получено %v", err)
	}
	repo.err = repository.ErrNotFound
	if _, err := s.CreatePayslip(context.Background(), 1, 1, 2024, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestSalaryChartPublish(t *testing.T) {
	s, _, charts := newTestPayroll()

	current, err := s.CurrentSalaryChart(context.Background())
	if err != nil || current != nil {
		t.Fatalf("пустая сетка: %v, %v", current, err)
	}

	if _, err := s.PublishSalaryChart(context.Background(), "  ", "a"); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой заголовок: ожидалась ErrValidation, получено %v", err)
	}

	first, _ := s.PublishSalaryChart(context.Background(), "Grille 2024", "admin@anpt.dz")
	second, err := s.PublishSalaryChart(context.Background(), "Grille 2025", "admin@anpt.dz")
	if err != nil {
		t.Fatalf("PublishSalaryChart: %v", err)
	}
	if second.FileURL != "https://anpt.dz/charts/salary_chart_1741944600000.pdf" {
		t.Errorf("FileURL = %q", second.FileURL)
	}
	if first.IsActive {
		t.Error("предыдущая сетка должна быть деактивирована")
	}

	current, _ = s.CurrentSalaryChart(context.Background())
	if current == nil || current.Title != "Grille 2025" {
		t.Errorf("активная сетка = %+v", current)
	}
	if len(charts.charts) != 2 {
		t.Errorf("сеток %d, хотели 2", len(charts.charts))
	}
}
