// content.go — мероприятия, объявления и административные документы.
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

// eventDateLayouts — форматы event_date: RFC 3339, datetime-local, дата.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", time.DateOnly}

// EventInput — данные мероприятия. В PUT nil — поле не меняется.
type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"event_date"`
	Location    *string `json:"location"`
	IsActive    *bool   `json:"is_active"`
}

// AnnouncementInput — данные объявления.
type AnnouncementInput = model.AnnouncementUpdate

// DocumentInput — данные административного документа.
type DocumentInput = model.DocumentUpdate

// ContentService — контент для сотрудников.
type ContentService struct {
	repo    repository.ContentRepository
	baseURL string
	now     func() time.Time
	logger  *slog.Logger
}

// NewContentService создаёт сервис контента.
func NewContentService(repo repository.ContentRepository, fileBaseURL string, logger *slog.Logger) *ContentService {
	return &ContentService{
		repo:    repo,
		baseURL: strings.TrimRight(fileBaseURL, "/"),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "content_service")),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func requireTitle(title *string) error {
	if title == nil || strings.TrimSpace(*title) == "" {
		return invalidf("Titre requis")
	}
	return nil
}

// rejectEmptyTitle — в PUT заголовок можно не передавать, но нельзя очистить.
func rejectEmptyTitle(title *string) error {
	if title != nil && strings.TrimSpace(*title) == "" {
		return invalidf("Titre requis")
	}
	return nil
}

func parseEventDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*value)); err == nil {
			return &t, nil
		}
	}
	return nil, invalidf("event_date invalide: %q", *value)
}

func mapMissing(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msg)
	}
	return err
}

// --- Мероприятия ---

// ListEvents — все мероприятия (admin) или только активные по дате (employee).
func (s *ContentService) ListEvents(ctx context.Context, activeOnly bool) ([]*model.Event, error) {
	return s.repo.ListEvents(ctx, activeOnly)
}

// CreateEvent создаёт активное мероприятие.
func (s *ContentService) CreateEvent(ctx context.Context, in EventInput, createdBy string) (*model.Event, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	date, err := parseEventDate(in.EventDate)
	if err != nil {
		return nil, err
	}

	e := &model.Event{
		Title:       strings.TrimSpace(*in.Title),
		Description: deref(in.Description),
		EventDate:   date,
		Location:    deref(in.Location),
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Создано мероприятие", slog.Int64("event_id", e.ID), slog.String("created_by", createdBy))
	return e, nil
}

// UpdateEvent применяет частичное обновление.
func (s *ContentService) UpdateEvent(ctx context.Context, id int64, in EventInput) (*model.Event, error) {
	if err := rejectEmptyTitle(in.Title); err != nil {
		return nil, err
	}
	date, err := parseEventDate(in.EventDate)
	if err != nil {
		return nil, err
	}

	e, err := s.repo.UpdateEvent(ctx, id, model.EventUpdate{
		Title:       in.Title,
		Description: in.Description,
		EventDate:   date,
		Location:    in.Location,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return nil, mapMissing(err, "Événement non trouvé")
	}
	return e, nil
}

// DeleteEvent удаляет мероприятие.
func (s *ContentService) DeleteEvent(ctx context.Context, id int64) error {
	return mapMissing(s.repo.DeleteEvent(ctx, id), "Événement non trouvé")
}

// --- Объявления ---

// ListAnnouncements — все (admin) или активные по приоритету (employee).
func (s *ContentService) ListAnnouncements(ctx context.Context, activeOnly bool) ([]*model.Announcement, error) {
	return s.repo.ListAnnouncements(ctx, activeOnly)
}

// CreateAnnouncement создаёт объявление; приоритет по умолчанию normal.
func (s *ContentService) CreateAnnouncement(ctx context.Context, in AnnouncementInput, createdBy string) (*model.Announcement, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	priority := model.PriorityNormal
	if in.Priority != nil && *in.Priority != "" {
		priority = *in.Priority
	}
	if !model.IsValidPriority(priority) {
		return nil, invalidf("Priorité invalide: %q", priority)
	}

	a := &model.Announcement{
		Title:     strings.TrimSpace(*in.Title),
		Content:   deref(in.Content),
		Priority:  priority,
		CreatedBy: createdBy,
	}
	if err := s.repo.CreateAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("Создано объявление", slog.Int64("announcement_id", a.ID), slog.String("priority", priority))
	return a, nil
}

// UpdateAnnouncement применяет частичное обновление.
func (s *ContentService) UpdateAnnouncement(ctx context.Context, id int64, in AnnouncementInput) (*model.Announcement, error) {
	if err := rejectEmptyTitle(in.Title); err != nil {
		return nil, err
	}
	if in.Priority != nil && !model.IsValidPriority(*in.Priority) {
		return nil, invalidf("Priorité invalide: %q", *in.Priority)
	}
	a, err := s.repo.UpdateAnnouncement(ctx, id, in)
	if err != nil {
		return nil, mapMissing(err, "Annonce non trouvée")
	}
	return a, nil
}

// DeleteAnnouncement удаляет объявление.
func (s *ContentService) DeleteAnnouncement(ctx context.Context, id int64) error {
	return mapMissing(s.repo.DeleteAnnouncement(ctx, id), "Annonce non trouvée")
}

// --- Административные документы ---

// ListDocuments — все (admin) или только активные (employee).
func (s *ContentService) ListDocuments(ctx context.Context, activeOnly bool) ([]*model.AdminDocument, error) {
	return s.repo.ListDocuments(ctx, activeOnly)
}

// CreateDocument регистрирует документ с файлом-заглушкой.
func (s *ContentService) CreateDocument(ctx context.Context, in DocumentInput, createdBy string) (*model.AdminDocument, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("admin_doc_%d.pdf", s.now().UnixMilli())
	d := &model.AdminDocument{
		Title:        strings.TrimSpace(*in.Title),
		Description:  deref(in.Description),
		FileName:     name,
		FileURL:      s.baseURL + "/documents/" + name,
		DocumentType: deref(in.DocumentType),
		CreatedBy:    createdBy,
	}
	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("Создан документ", slog.Int64("document_id", d.ID), slog.String("file_name", name))
	return d, nil
}

// UpdateDocument применяет частичное обновление.
func (s *ContentService) UpdateDocument(ctx context.Context, id int64, in DocumentInput) (*model.AdminDocument, error) {
	if err := rejectEmptyTitle(in.Title); err != nil {
		return nil, err
	}
	d, err := s.repo.UpdateDocument(ctx, id, in)
	if err != nil {
		return nil, mapMissing(err, "Document non trouvé")
	}
	return d, nil
}

// DeleteDocument удаляет документ.
func (s *ContentService) DeleteDocument(ctx context.Context, id int64) error {
	return mapMissing(s.repo.DeleteDocument(ctx, id), "Document non trouvé")
}
