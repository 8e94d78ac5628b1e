package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
)

// UserRepository — хранилище учётных записей (таблица users).
type UserRepository interface {
	// Create создаёт пользователя; дубликат login/email/employee_id — ErrConflict.
	Create(ctx context.Context, u *model.User) error
	// GetByID возвращает пользователя независимо от активности.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetActiveByID возвращает только активного пользователя.
	GetActiveByID(ctx context.Context, id int64) (*model.User, error)
	// GetActiveByLogin возвращает только активного пользователя по логину.
	GetActiveByLogin(ctx context.Context, login string) (*model.User, error)
	// GetByLogin возвращает пользователя по логину независимо от активности.
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	// GetByEmail возвращает пользователя по email независимо от активности.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List возвращает всех пользователей, новые первыми.
	List(ctx context.Context) ([]*model.User, error)
	// Update применяет частичное обновление и возвращает новую версию записи.
	Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error)
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
}

// NewUserRepository создаёт репозиторий пользователей.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, login, password_hash, role, first_name, last_name, employee_id,
	department, position, hire_date, phone, is_active, created_at, updated_at`

// scanUser сканирует строку в model.User (порядок — userColumns).
func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	err := row.Scan(
		&u.ID, &u.Email, &u.Login, &u.PasswordHash, &role, &u.FirstName, &u.LastName, &u.EmployeeID,
		&u.Department, &u.Position, &u.HireDate, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = rbac.Role(role)
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, login, password_hash, role, first_name, last_name, employee_id,
			department, position, hire_date, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		u.Email, u.Login, u.PasswordHash, string(u.Role), u.FirstName, u.LastName, u.EmployeeID,
		u.Department, u.Position, u.HireDate, u.Phone, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == "users_employee_id_key" {
				return ErrDuplicateEmployeeID
			}
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}

func (r *userRepo) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *userRepo) GetActiveByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, `id = $1 AND is_active = TRUE`, id)
}

func (r *userRepo) GetActiveByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.getOne(ctx, `login = $1 AND is_active = TRUE`, login)
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.getOne(ctx, `login = $1`, login)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC, id DESC`, userColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	result := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	var role *string
	if upd.Role != nil {
		s := string(*upd.Role)
		role = &s
	}

	query := fmt.Sprintf(`
		UPDATE users SET
			email         = COALESCE($2, email),
			first_name    = COALESCE($3, first_name),
			last_name     = COALESCE($4, last_name),
			department    = COALESCE($5, department),
			position      = COALESCE($6, position),
			phone         = COALESCE($7, phone),
			hire_date     = COALESCE($8, hire_date),
			role          = COALESCE($9, role),
			is_active     = COALESCE($10, is_active),
			password_hash = COALESCE($11, password_hash),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING %s`, userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query,
		id, upd.Email, upd.FirstName, upd.LastName, upd.Department, upd.Position,
		upd.Phone, upd.HireDate, role, upd.IsActive, upd.PasswordHash,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	return u, nil
}
