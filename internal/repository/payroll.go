package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
)

// PayslipRepository — бюллетени зарплаты.
type PayslipRepository interface {
	// Create сохраняет бюллетень. Дубликат (user_id, month, year) — ErrConflict,
	// несуществующий user_id — ErrNotFound.
	Create(ctx context.Context, p *model.Payslip) error
	// ListByUser возвращает бюллетени пользователя, новые периоды первыми.
	ListByUser(ctx context.Context, userID int64) ([]*model.Payslip, error)
}

type payslipRepo struct {
	db DBTX
}

// NewPayslipRepository создаёт репозиторий бюллетеней.
func NewPayslipRepository(db DBTX) PayslipRepository {
	return &payslipRepo{db: db}
}

func (r *payslipRepo) Create(ctx context.Context, p *model.Payslip) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payslips (user_id, file_name, file_url, month, year, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.UserID, p.FileName, p.FileURL, p.Month, p.Year, p.UploadedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrConflict
		case isForeignKeyViolation(err):
			return ErrNotFound
		}
		return fmt.Errorf("ошибка создания бюллетеня: %w", err)
	}
	return nil
}

func (r *payslipRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Payslip, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, file_name, file_url, month, year, uploaded_by, created_at, updated_at
		FROM payslips
		WHERE user_id = $1
		ORDER BY year DESC, month DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения бюллетеней: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Payslip, 0)
	for rows.Next() {
		p := &model.Payslip{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.FileName, &p.FileURL, &p.Month, &p.Year,
			&p.UploadedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования бюллетеня: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// SalaryChartRepository — сетки окладов.
type SalaryChartRepository interface {
	// Publish деактивирует все предыдущие сетки и сохраняет новую активной.
	Publish(ctx context.Context, c *model.SalaryChart) error
	// CurrentActive возвращает последнюю активную сетку или ErrNotFound.
	CurrentActive(ctx context.Context) (*model.SalaryChart, error)
}

type salaryChartRepo struct {
	db DBTX
}

// NewSalaryChartRepository создаёт репозиторий сеток окладов.
func NewSalaryChartRepository(db DBTX) SalaryChartRepository {
	return &salaryChartRepo{db: db}
}

func (r *salaryChartRepo) Publish(ctx context.Context, c *model.SalaryChart) error {
	return runInTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE salary_charts SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`,
		); err != nil {
			return fmt.Errorf("ошибка деактивации сеток окладов: %w", err)
		}

		c.IsActive = true
		err := tx.QueryRow(ctx, `
			INSERT INTO salary_charts (title, file_name, file_url, uploaded_by, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING id, created_at, updated_at`,
			c.Title, c.FileName, c.FileURL, c.UploadedBy,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("ошибка создания сетки окладов: %w", err)
		}
		return nil
	})
}

func (r *salaryChartRepo) CurrentActive(ctx context.Context) (*model.SalaryChart, error) {
	c := &model.SalaryChart{}
	err := r.db.QueryRow(ctx, `
		SELECT id, title, file_name, file_url, uploaded_by, is_active, created_at, updated_at
		FROM salary_charts
		WHERE is_active = TRUE
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
	).Scan(&c.ID, &c.Title, &c.FileName, &c.FileURL, &c.UploadedBy, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения сетки окладов: %w", err)
	}
	return c, nil
}
