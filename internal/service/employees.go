// Пакет service — бизнес-логика HR-портала.
// employees.go — учётные записи сотрудников: создание, профиль, деактивация.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
	"github.com/arturkryukov/hrportal/internal/repository"
)

// Минимальные длины учётных данных.
const (
	MinLoginLength    = 3
	MinPasswordLength = 6
)

// employeeIDAttempts — сколько раз генерировать employee_id при коллизии.
const employeeIDAttempts = 3

// CreateEmployeeInput — данные новой учётной записи.
type CreateEmployeeInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Login      string `json:"login"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Position   string `json:"position"`
	// HireDate в формате YYYY-MM-DD; пусто — сегодня.
	HireDate string `json:"hire_date"`
	Phone    string `json:"phone"`
	// Role задаётся только из hrctl; API всегда создаёт employee.
	Role rbac.Role `json:"-"`
}

// UpdateEmployeeInput — частичное обновление; nil — поле не меняется.
type UpdateEmployeeInput struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
	HireDate   *string `json:"hire_date"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"is_active"`
	Password   *string `json:"password"`
}

// Credentials — учётные данные, возвращаемые администратору один раз при создании.
type Credentials struct {
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Login      string `json:"login"`
	Password   string `json:"password"`
}

// EmployeeService — управление учётными записями.
type EmployeeService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	emailDomain string
	now         func() time.Time
	logger      *slog.Logger

	idMu   sync.Mutex
	lastID int64
}

// NewEmployeeService создаёт сервис учётных записей.
func NewEmployeeService(
	users repository.UserRepository,
	hasher auth.PasswordHasher,
	emailDomain string,
	logger *slog.Logger,
) *EmployeeService {
	return &EmployeeService{
		users:       users,
		hasher:      hasher,
		emailDomain: emailDomain,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "employee_service")),
	}
}

// List возвращает всех пользователей, новые первыми.
func (s *EmployeeService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Get возвращает пользователя по ID независимо от активности.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Utilisateur non trouvé")
		}
		return nil, err
	}
	return u, nil
}

// Create создаёт учётную запись. Генерирует employee_id (EMP<unix-ms>),
// email по умолчанию и дату найма.
func (s *EmployeeService) Create(ctx context.Context, in CreateEmployeeInput) (*model.User, *Credentials, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Login = strings.TrimSpace(in.Login)
	in.Email = strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" {
		return nil, nil, invalidf("Prénom et nom requis")
	}
	if len(in.Login) < MinLoginLength {
		return nil, nil, invalidf("Le login doit contenir au moins %d caractères", MinLoginLength)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, nil, invalidf("Le mot de passe doit contenir au moins %d caractères", MinPasswordLength)
	}

	role := in.Role
	if role == "" {
		role = rbac.RoleEmployee
	}
	if !rbac.IsValidRole(string(role)) {
		return nil, nil, invalidf("Rôle invalide: %q", role)
	}

	now := s.now()
	hireDate, err := parseDate(in.HireDate, now)
	if err != nil {
		return nil, nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, invalidf("Mot de passe invalide: %v", err)
	}

	u := &model.User{
		Login:        in.Login,
		PasswordHash: digest,
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Department:   in.Department,
		Position:     in.Position,
		HireDate:     hireDate,
		Phone:        in.Phone,
		IsActive:     true,
	}
	for attempt := 1; ; attempt++ {
		u.EmployeeID = s.nextEmployeeID(now)
		u.Email = in.Email
		if u.Email == "" {
			u.Email = strings.ToLower(u.EmployeeID) + "@" + s.emailDomain
		}

		err = s.users.Create(ctx, u)
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, repository.ErrDuplicateEmployeeID):
			if attempt < employeeIDAttempts {
				s.logger.Warn("Коллизия employee_id, генерируем заново",
					slog.String("employee_id", u.EmployeeID),
					slog.Int("attempt", attempt),
				)
				continue
			}
			return nil, nil, conflict("Identifiant employé déjà attribué, veuillez réessayer")
		case errors.Is(err, repository.ErrConflict):
			return nil, nil, conflict("Login ou email déjà utilisé")
		default:
			return nil, nil, err
		}
	}

	s.logger.Info("Создан пользователь",
		slog.Int64("user_id", u.ID),
		slog.String("login", u.Login),
		slog.String("role", u.Role.String()),
	)

	return u, &Credentials{
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		Login:      in.Login,
		Password:   in.Password,
	}, nil
}

// nextEmployeeID возвращает EMP<unix-ms>; в пределах процесса значения
// строго возрастают, даже если создания попали в одну миллисекунду.
func (s *EmployeeService) nextEmployeeID(now time.Time) string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	ms := now.UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return fmt.Sprintf("EMP%d", ms)
}

// Update применяет частичное обновление профиля; новый пароль хешируется.
func (s *EmployeeService) Update(ctx context.Context, id int64, in UpdateEmployeeInput) (*model.User, error) {
	upd := model.UserUpdate{
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Department: in.Department,
		Position:   in.Position,
		Phone:      in.Phone,
		IsActive:   in.IsActive,
	}

	if in.Role != nil {
		if !rbac.IsValidRole(*in.Role) {
			return nil, invalidf("Rôle invalide: %q", *in.Role)
		}
		role := rbac.Role(*in.Role)
		upd.Role = &role
	}
	if in.HireDate != nil && strings.TrimSpace(*in.HireDate) != "" {
		d, err := parseDate(*in.HireDate, s.now())
		if err != nil {
			return nil, err
		}
		upd.HireDate = d
	}
	if in.Password != nil {
		digest, err := s.hashNew(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &digest
	}

	u, err := s.users.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Utilisateur non trouvé")
		case errors.Is(err, repository.ErrConflict):
			return nil, conflict("Email déjà utilisé")
		}
		return nil, err
	}
	return u, nil
}

// Deactivate отключает учётную запись. Физического удаления нет.
func (s *EmployeeService) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	if _, err := s.Update(ctx, id, UpdateEmployeeInput{IsActive: &inactive}); err != nil {
		return err
	}
	s.logger.Info("Пользователь деактивирован", slog.Int64("user_id", id))
	return nil
}

// DeactivateByLogin — деактивация по логину (hrctl).
func (s *EmployeeService) DeactivateByLogin(ctx context.Context, login string) error {
	u, err := s.byLogin(ctx, login)
	if err != nil {
		return err
	}
	return s.Deactivate(ctx, u.ID)
}

// SetPassword меняет пароль по логину (hrctl).
func (s *EmployeeService) SetPassword(ctx context.Context, login, password string) error {
	u, err := s.byLogin(ctx, login)
	if err != nil {
		return err
	}
	_, err = s.Update(ctx, u.ID, UpdateEmployeeInput{Password: &password})
	return err
}

func (s *EmployeeService) byLogin(ctx context.Context, login string) (*model.User, error) {
	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Utilisateur non trouvé")
		}
		return nil, err
	}
	return u, nil
}

func (s *EmployeeService) hashNew(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", invalidf("Le mot de passe doit contenir au moins %d caractères", MinPasswordLength)
	}
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", invalidf("Mot de passe invalide: %v", err)
	}
	return digest, nil
}

// parseDate разбирает YYYY-MM-DD; пустая строка — дата now.
func parseDate(value string, now time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, invalidf("Date invalide: %q (format AAAA-MM-JJ)", value)
	}
	return &d, nil
}
