package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
)

// EmployeeRequestRepository — заявки сотрудников.
type EmployeeRequestRepository interface {
	// Create сохраняет заявку; request_type и request_data берутся из Payload.
	Create(ctx context.Context, req *model.EmployeeRequest) error
	// ListByUser возвращает заявки пользователя, новые первыми.
	ListByUser(ctx context.Context, userID int64) ([]*model.EmployeeRequest, error)
	// ListAll возвращает все заявки с данными автора, новые первыми.
	ListAll(ctx context.Context) ([]*model.EmployeeRequest, error)
	// UpdateStatus меняет статус и фиксирует, кто и когда обработал заявку.
	UpdateStatus(ctx context.Context, id int64, status string, adminResponse *string, handledBy string) (*model.EmployeeRequest, error)
}

type employeeRequestRepo struct {
	db DBTX
}

// NewEmployeeRequestRepository создаёт репозиторий заявок сотрудников.
func NewEmployeeRequestRepository(db DBTX) EmployeeRequestRepository {
	return &employeeRequestRepo{db: db}
}

const requestColumns = `r.id, r.user_id, r.request_type, r.title, r.description, r.request_data,
	r.status, r.admin_response, r.handled_by, r.handled_at, r.created_at, r.updated_at`

// scanRequest сканирует заявку; при withRequester ожидает ещё три колонки автора.
func scanRequest(row pgx.Row, withRequester bool) (*model.EmployeeRequest, error) {
	req := &model.EmployeeRequest{}
	var (
		reqType string
		raw     []byte
		who     model.Requester
	)
	dest := []any{
		&req.ID, &req.UserID, &reqType, &req.Title, &req.Description, &raw,
		&req.Status, &req.AdminResponse, &req.HandledBy, &req.HandledAt, &req.CreatedAt, &req.UpdatedAt,
	}
	if withRequester {
		dest = append(dest, &who.FirstName, &who.LastName, &who.EmployeeID)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	req.Payload = model.ParseStoredPayload(model.RequestType(reqType), raw)
	if withRequester {
		req.Requester = &who
	}
	return req, nil
}

func (r *employeeRequestRepo) Create(ctx context.Context, req *model.EmployeeRequest) error {
	if req.Payload == nil {
		req.Payload = model.OtherPayload{}
	}
	data, err := json.Marshal(req.Payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации request_data: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO employee_requests (user_id, request_type, title, description, request_data, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, created_at, updated_at`,
		req.UserID, string(req.Type()), req.Title, req.Description, data,
	).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *employeeRequestRepo) list(ctx context.Context, query string, withRequester bool, args ...any) ([]*model.EmployeeRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок: %w", err)
	}
	defer rows.Close()

	result := make([]*model.EmployeeRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows, withRequester)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *employeeRequestRepo) ListByUser(ctx context.Context, userID int64) ([]*model.EmployeeRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM employee_requests r
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, requestColumns)
	return r.list(ctx, query, false, userID)
}

func (r *employeeRequestRepo) ListAll(ctx context.Context) ([]*model.EmployeeRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.first_name, u.last_name, u.employee_id
		FROM employee_requests r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC, r.id DESC`, requestColumns)
	return r.list(ctx, query, true)
}

func (r *employeeRequestRepo) UpdateStatus(ctx context.Context, id int64, status string, adminResponse *string, handledBy string) (*model.EmployeeRequest, error) {
	query := fmt.Sprintf(`
		UPDATE employee_requests r SET
			status         = $2,
			admin_response = COALESCE($3, r.admin_response),
			handled_by     = $4,
			handled_at     = NOW(),
			updated_at     = NOW()
		WHERE r.id = $1
		RETURNING %s`, requestColumns)

	req, err := scanRequest(r.db.QueryRow(ctx, query, id, status, adminResponse, handledBy), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления заявки: %w", err)
	}
	return req, nil
}
