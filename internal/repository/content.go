package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arturkryukov/hrportal/internal/domain/model"
)

// ContentRepository — мероприятия, объявления и административные документы.
// Все три сущности устроены одинаково: список, активные, создание,
// частичное обновление и удаление.
type ContentRepository interface {
	ListEvents(ctx context.Context, activeOnly bool) ([]*model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	UpdateEvent(ctx context.Context, id int64, upd model.EventUpdate) (*model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	ListAnnouncements(ctx context.Context, activeOnly bool) ([]*model.Announcement, error)
	CreateAnnouncement(ctx context.Context, a *model.Announcement) error
	UpdateAnnouncement(ctx context.Context, id int64, upd model.AnnouncementUpdate) (*model.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error

	ListDocuments(ctx context.Context, activeOnly bool) ([]*model.AdminDocument, error)
	CreateDocument(ctx context.Context, d *model.AdminDocument) error
	UpdateDocument(ctx context.Context, id int64, upd model.DocumentUpdate) (*model.AdminDocument, error)
	DeleteDocument(ctx context.Context, id int64) error
}

type contentRepo struct {
	db DBTX
}

// NewContentRepository создаёт репозиторий контента.
func NewContentRepository(db DBTX) ContentRepository {
	return &contentRepo{db: db}
}

// activeFilter возвращает условие WHERE для выборки только активных записей.
func activeFilter(activeOnly bool) string {
	if activeOnly {
		return "WHERE is_active = TRUE"
	}
	return ""
}

// deleteByID удаляет строку таблицы; отсутствие строки — ErrNotFound.
func deleteByID(ctx context.Context, db DBTX, table string, id int64) error {
	tag, err := db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("ошибка удаления из %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Мероприятия ---

const eventColumns = `id, title, description, event_date, location, is_active, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	e := &model.Event{}
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location,
		&e.IsActive, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *contentRepo) ListEvents(ctx context.Context, activeOnly bool) ([]*model.Event, error) {
	order := "ORDER BY event_date DESC NULLS LAST, id DESC"
	if activeOnly {
		order = "ORDER BY event_date ASC NULLS LAST, id ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM events %s %s`, eventColumns, activeFilter(activeOnly), order)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения мероприятий: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования мероприятия: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *contentRepo) CreateEvent(ctx context.Context, e *model.Event) error {
	query := fmt.Sprintf(`
		INSERT INTO events (title, description, event_date, location, is_active, created_by)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING %s`, eventColumns)

	created, err := scanEvent(r.db.QueryRow(ctx, query,
		e.Title, e.Description, e.EventDate, e.Location, e.CreatedBy))
	if err != nil {
		return fmt.Errorf("ошибка создания мероприятия: %w", err)
	}
	*e = *created
	return nil
}

func (r *contentRepo) UpdateEvent(ctx context.Context, id int64, upd model.EventUpdate) (*model.Event, error) {
	query := fmt.Sprintf(`
		UPDATE events SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			event_date  = COALESCE($4, event_date),
			location    = COALESCE($5, location),
			is_active   = COALESCE($6, is_active),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING %s`, eventColumns)

	e, err := scanEvent(r.db.QueryRow(ctx, query,
		id, upd.Title, upd.Description, upd.EventDate, upd.Location, upd.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления мероприятия: %w", err)
	}
	return e, nil
}

func (r *contentRepo) DeleteEvent(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "events", id)
}

// --- Объявления ---

const announcementColumns = `id, title, content, priority, is_active, created_by, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*model.Announcement, error) {
	a := &model.Announcement{}
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.IsActive,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *contentRepo) ListAnnouncements(ctx context.Context, activeOnly bool) ([]*model.Announcement, error) {
	order := "ORDER BY created_at DESC, id DESC"
	if activeOnly {
		order = `ORDER BY CASE priority
			WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'normal' THEN 2 ELSE 1
		END DESC, created_at DESC, id DESC`
	}
	query := fmt.Sprintf(`SELECT %s FROM announcements %s %s`, announcementColumns, activeFilter(activeOnly), order)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения объявлений: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Announcement, 0)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования объявления: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *contentRepo) CreateAnnouncement(ctx context.Context, a *model.Announcement) error {
	query := fmt.Sprintf(`
		INSERT INTO announcements (title, content, priority, is_active, created_by)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING %s`, announcementColumns)

	created, err := scanAnnouncement(r.db.QueryRow(ctx, query, a.Title, a.Content, a.Priority, a.CreatedBy))
	if err != nil {
		return fmt.Errorf("ошибка создания объявления: %w", err)
	}
	*a = *created
	return nil
}

func (r *contentRepo) UpdateAnnouncement(ctx context.Context, id int64, upd model.AnnouncementUpdate) (*model.Announcement, error) {
	query := fmt.Sprintf(`
		UPDATE announcements SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			priority   = COALESCE($4, priority),
			is_active  = COALESCE($5, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, announcementColumns)

	a, err := scanAnnouncement(r.db.QueryRow(ctx, query, id, upd.Title, upd.Content, upd.Priority, upd.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления объявления: %w", err)
	}
	return a, nil
}

func (r *contentRepo) DeleteAnnouncement(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "announcements", id)
}

// --- Административные документы ---

const documentColumns = `id, title, description, file_name, file_url, document_type, is_active, created_by, created_at, updated_at`

func scanDocument(row pgx.Row) (*model.AdminDocument, error) {
	d := &model.AdminDocument{}
	if err := row.Scan(&d.ID, &d.Title, &d.Description, &d.FileName, &d.FileURL,
		&d.DocumentType, &d.IsActive, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *contentRepo) ListDocuments(ctx context.Context, activeOnly bool) ([]*model.AdminDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM administrative_documents %s ORDER BY created_at DESC, id DESC`,
		documentColumns, activeFilter(activeOnly))

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения документов: %w", err)
	}
	defer rows.Close()

	result := make([]*model.AdminDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования документа: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *contentRepo) CreateDocument(ctx context.Context, d *model.AdminDocument) error {
	query := fmt.Sprintf(`
		INSERT INTO administrative_documents (title, description, file_name, file_url, document_type, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING %s`, documentColumns)

	created, err := scanDocument(r.db.QueryRow(ctx, query,
		d.Title, d.Description, d.FileName, d.FileURL, d.DocumentType, d.CreatedBy))
	if err != nil {
		return fmt.Errorf("ошибка создания документа: %w", err)
	}
	*d = *created
	return nil
}

func (r *contentRepo) UpdateDocument(ctx context.Context, id int64, upd model.DocumentUpdate) (*model.AdminDocument, error) {
	query := fmt.Sprintf(`
		UPDATE administrative_documents SET
			title         = COALESCE($2, title),
			description   = COALESCE($3, description),
			document_type = COALESCE($4, document_type),
			is_active     = COALESCE($5, is_active),
			updated_at    = NOW()
		WHERE id = $1
		RETURNING %s`, documentColumns)

	d, err := scanDocument(r.db.QueryRow(ctx, query, id, upd.Title, upd.Description, upd.DocumentType, upd.IsActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления документа: %w", err)
	}
	return d, nil
}

func (r *contentRepo) DeleteDocument(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, "administrative_documents", id)
}
