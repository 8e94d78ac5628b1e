package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
)

// ConnectionLogRepository — журнал попыток входа (только добавление).
type ConnectionLogRepository interface {
	// Insert добавляет запись; заполняет ID и LoginAt.
	Insert(ctx context.Context, entry *model.ConnectionLog) error
	// ListRecent возвращает последние записи, новые первыми.
	ListRecent(ctx context.Context, limit int) ([]*model.ConnectionLog, error)
}

type connectionLogRepo struct {
	db DBTX
}

// NewConnectionLogRepository создаёт репозиторий журнала входов.
func NewConnectionLogRepository(db DBTX) ConnectionLogRepository {
	return &connectionLogRepo{db: db}
}

func (r *connectionLogRepo) Insert(ctx context.Context, e *model.ConnectionLog) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO connection_logs (user_email, ip_address, user_agent, success)
		VALUES ($1, $2, $3, $4)
		RETURNING id, login_at`,
		e.UserEmail, e.IPAddress, e.UserAgent, e.Success,
	).Scan(&e.ID, &e.LoginAt)
	if err != nil {
		return fmt.Errorf("ошибка записи журнала входов: %w", err)
	}
	return nil
}

func (r *connectionLogRepo) ListRecent(ctx context.Context, limit int) ([]*model.ConnectionLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_email, ip_address, user_agent, success, login_at
		FROM connection_logs
		ORDER BY login_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала входов: %w", err)
	}
	defer rows.Close()

	result := make([]*model.ConnectionLog, 0)
	for rows.Next() {
		e := &model.ConnectionLog{}
		if err := rows.Scan(&e.ID, &e.UserEmail, &e.IPAddress, &e.UserAgent, &e.Success, &e.LoginAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования журнала входов: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// PasswordResetRepository — заявки на сброс пароля.
type PasswordResetRepository interface {
	// Create сохраняет заявку в статусе pending.
	Create(ctx context.Context, email string) (*model.PasswordResetRequest, error)
	// ListPending возвращает необработанные заявки, новые первыми.
	ListPending(ctx context.Context) ([]*model.PasswordResetRequest, error)
	// Reject переводит заявку pending → rejected.
	Reject(ctx context.Context, id int64, handledBy string) (*model.PasswordResetRequest, error)
	// Complete переводит заявку pending → completed и в той же транзакции
	// меняет password_hash пользователя с email заявки.
	Complete(ctx context.Context, id int64, handledBy, passwordHash string) (*model.PasswordResetRequest, error)
}

type passwordResetRepo struct {
	db DBTX
}

// NewPasswordResetRepository создаёт репозиторий заявок на сброс пароля.
func NewPasswordResetRepository(db DBTX) PasswordResetRepository {
	return &passwordResetRepo{db: db}
}

const resetColumns = `id, user_email, requested_at, handled_by, handled_at, status`

func scanReset(row pgx.Row) (*model.PasswordResetRequest, error) {
	p := &model.PasswordResetRequest{}
	if err := row.Scan(&p.ID, &p.UserEmail, &p.RequestedAt, &p.HandledBy, &p.HandledAt, &p.Status); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *passwordResetRepo) Create(ctx context.Context, email string) (*model.PasswordResetRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO password_reset_requests (user_email, status)
		VALUES ($1, 'pending')
		RETURNING %s`, resetColumns)

	p, err := scanReset(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания заявки на сброс пароля: %w", err)
	}
	return p, nil
}

func (r *passwordResetRepo) ListPending(ctx context.Context) ([]*model.PasswordResetRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM password_reset_requests
		WHERE status = 'pending'
		ORDER BY requested_at DESC, id DESC`, resetColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок на сброс пароля: %w", err)
	}
	defer rows.Close()

	result := make([]*model.PasswordResetRequest, 0)
	for rows.Next() {
		p, err := scanReset(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// resolve переводит pending-заявку в status. Если заявка не pending —
// ErrConflict, если не существует — ErrNotFound.
func resolveReset(ctx context.Context, db DBTX, id int64, status, handledBy string) (*model.PasswordResetRequest, error) {
	query := fmt.Sprintf(`
		UPDATE password_reset_requests
		SET status = $2, handled_by = $3, handled_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s`, resetColumns)

	p, err := scanReset(db.QueryRow(ctx, query, id, status, handledBy))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка обработки заявки: %w", err)
	}

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM password_reset_requests WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("ошибка проверки заявки: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

func (r *passwordResetRepo) Reject(ctx context.Context, id int64, handledBy string) (*model.PasswordResetRequest, error) {
	return resolveReset(ctx, r.db, id, model.ResetStatusRejected, handledBy)
}

func (r *passwordResetRepo) Complete(ctx context.Context, id int64, handledBy, passwordHash string) (*model.PasswordResetRequest, error) {
	var result *model.PasswordResetRequest
	err := runInTx(ctx, r.db, func(tx pgx.Tx) error {
		p, err := resolveReset(ctx, tx, id, model.ResetStatusCompleted, handledBy)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE email = $1`,
			p.UserEmail, passwordHash,
		)
		if err != nil {
			return fmt.Errorf("ошибка смены пароля: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
