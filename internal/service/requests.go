// requests.go — заявки сотрудников и заявки на сброс пароля.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// SubmitRequestInput — новая заявка сотрудника.
type SubmitRequestInput struct {
	RequestType string          `json:"request_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	RequestData json.RawMessage `json:"request_data"`
}

// HandleRequestInput — решение администратора по заявке.
type HandleRequestInput struct {
	Status        string  `json:"status"`
	AdminResponse *string `json:"admin_response"`
}

// RequestService — заявки сотрудников.
type RequestService struct {
	repo   repository.EmployeeRequestRepository
	logger *slog.Logger
}

// NewRequestService создаёт сервис заявок сотрудников.
func NewRequestService(repo repository.EmployeeRequestRepository, logger *slog.Logger) *RequestService {
	return &RequestService{
		repo:   repo,
		logger: logger.With(slog.String("component", "request_service")),
	}
}

// Submit проверяет request_data по типу заявки и сохраняет её в статусе pending.
func (s *RequestService) Submit(ctx context.Context, userID int64, in SubmitRequestInput) (*model.EmployeeRequest, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidf("Titre requis")
	}

	payload, err := model.DecodeRequestPayload(model.RequestType(in.RequestType), in.RequestData)
	if err != nil {
		return nil, invalidf("%v", err)
	}

	req := &model.EmployeeRequest{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Payload:     payload,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, mapMissing(err, "Utilisateur non trouvé")
	}

	s.logger.Info("Заявка создана",
		slog.Int64("request_id", req.ID),
		slog.Int64("user_id", userID),
		slog.String("request_type", string(req.Type())),
	)
	return req, nil
}

// ListOwn возвращает заявки пользователя.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]*model.EmployeeRequest, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll возвращает все заявки с данными авторов.
func (s *RequestService) ListAll(ctx context.Context) ([]*model.EmployeeRequest, error) {
	return s.repo.ListAll(ctx)
}

// Handle устанавливает статус заявки от имени администратора.
func (s *RequestService) Handle(ctx context.Context, id int64, in HandleRequestInput, handledBy string) (*model.EmployeeRequest, error) {
	if !model.IsValidRequestStatus(in.Status) {
		return nil, invalidf("Statut invalide: %q", in.Status)
	}

	req, err := s.repo.UpdateStatus(ctx, id, in.Status, in.AdminResponse, handledBy)
	if err != nil {
		return nil, mapMissing(err, "Demande non trouvée")
	}

	s.logger.Info("Заявка обработана",
		slog.Int64("request_id", id),
		slog.String("status", in.Status),
		slog.String("handled_by", handledBy),
	)
	return req, nil
}

// ResolveResetInput — решение администратора по сбросу пароля.
type ResolveResetInput struct {
	Status      string `json:"status"`
	NewPassword string `json:"new_password"`
}

// PasswordResetService — заявки на сброс пароля, обрабатываемые вручную.
type PasswordResetService struct {
	repo   repository.PasswordResetRepository
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewPasswordResetService создаёт сервис сброса паролей.
func NewPasswordResetService(repo repository.PasswordResetRepository, hasher auth.PasswordHasher, logger *slog.Logger) *PasswordResetService {
	return &PasswordResetService{
		repo:   repo,
		hasher: hasher,
		logger: logger.With(slog.String("component", "password_reset_service")),
	}
}

// Submit сохраняет заявку. Существование email не проверяется и не раскрывается.
func (s *PasswordResetService) Submit(ctx context.Context, email string) (*model.PasswordResetRequest, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalidf("Email requis")
	}
	req, err := s.repo.Create(ctx, email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Заявка на сброс пароля", slog.Int64("request_id", req.ID), slog.String("email", email))
	return req, nil
}

// ListPending возвращает необработанные заявки.
func (s *PasswordResetService) ListPending(ctx context.Context) ([]*model.PasswordResetRequest, error) {
	return s.repo.ListPending(ctx)
}

// Resolve завершает (с новым паролем) или отклоняет заявку.
func (s *PasswordResetService) Resolve(ctx context.Context, id int64, in ResolveResetInput, handledBy string) (*model.PasswordResetRequest, error) {
	var (
		req *model.PasswordResetRequest
		err error
	)

	switch in.Status {
	case model.ResetStatusCompleted:
		if len(in.NewPassword) < MinPasswordLength {
			return nil, invalidf("Le mot de passe doit contenir au moins %d caractères", MinPasswordLength)
		}
		digest, hashErr := s.hasher.Hash(in.NewPassword)
		if hashErr != nil {
			return nil, invalidf("Mot de passe invalide: %v", hashErr)
		}
		req, err = s.repo.Complete(ctx, id, handledBy, digest)
	case model.ResetStatusRejected:
		req, err = s.repo.Reject(ctx, id, handledBy)
	default:
		return nil, invalidf("Statut invalide: %q (completed ou rejected)", in.Status)
	}

	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, conflict("Demande déjà traitée")
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Demande ou utilisateur non trouvé")
		}
		return nil, err
	}

	s.logger.Info("Заявка на сброс пароля обработана",
		slog.Int64("request_id", id),
		slog.String("status", req.Status),
		slog.String("handled_by", handledBy),
	)
	return req, nil
}
