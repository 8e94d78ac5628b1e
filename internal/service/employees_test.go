package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
)

func newTestEmployeeService() (*EmployeeService, *fakeUsers) {
	users := newFakeUsers()
	s := NewEmployeeService(users, auth.SHA256Hasher{}, "anpt.dz", testLogger())
	s.now = func() time.Time { return fixedNow }
	return s, users
}

func validInput() CreateEmployeeInput {
	return CreateEmployeeInput{
		FirstName: "Karim",
		LastName:  "Haddad",
		Login:     "khaddad",
		Password:  "secret1",
	}
}

func TestEmployeeCreate_Defaults(t *testing.T) {
	s, _ := newTestEmployeeService()

	u, creds, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantID := "EMP" + "1741944600000"
	if u.EmployeeID != wantID {
		t.Errorf("EmployeeID = %q, want %q", u.EmployeeID, wantID)
	}
	if u.Email != "emp1741944600000@anpt.dz" {
		t.Errorf("Email = %q, ожидался сгенерированный адрес", u.Email)
	}
	if u.Role != rbac.RoleEmployee || !u.IsActive {
		t.Errorf("role=%q active=%v", u.Role, u.IsActive)
	}
	if u.HireDate == nil || u.HireDate.Format(time.DateOnly) != "2025-03-14" {
		t.Errorf("HireDate = %v, ожидалась сегодняшняя дата", u.HireDate)
	}
	if !(auth.SHA256Hasher{}).Verify("secret1", u.PasswordHash) {
		t.Error("пароль должен храниться как дайджест")
	}
	if creds.Password != "secret1" || creds.Login != "khaddad" || creds.EmployeeID != wantID || creds.Email != u.Email {
		t.Errorf("credentials = %+v", creds)
	}
}

func TestEmployeeCreate_ExplicitEmailAndDate(t *testing.T) {
	s, _ := newTestEmployeeService()
	in := validInput()
	in.Email = "karim@anpt.dz"
	in.HireDate = "2019-09-01"

	u, _, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "karim@anpt.dz" {
		t.Errorf("Email = %q", u.Email)
	}
	if u.HireDate.Format(time.DateOnly) != "2019-09-01" {
		t.Errorf("HireDate = %v", u.HireDate)
	}
}

func TestEmployeeCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CreateEmployeeInput)
	}{
		{"без имени", func(in *CreateEmployeeInput) { in.FirstName = " " }},
		{"без фамилии", func(in *CreateEmployeeInput) { in.LastName = "" }},
		{"короткий логин", func(in *CreateEmployeeInput) { in.Login = "ab" }},
		{"короткий пароль", func(in *CreateEmployeeInput) { in.Password = "12345" }},
		{"неверная дата", func(in *CreateEmployeeInput) { in.HireDate = "01/09/2019" }},
		{"неизвестная роль", func(in *CreateEmployeeInput) { in.Role = "root" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, users := newTestEmployeeService()
			in := validInput()
			tt.modify(&in)

			_, _, err := s.Create(context.Background(), in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидалась ErrValidation, получено %v", err)
			}
			if len(users.byID) != 0 {
				t.Error("пользователь не должен создаваться")
			}
		})
	}
}

func TestEmployeeCreate_DuplicateLogin(t *testing.T) {
	s, _ := newTestEmployeeService()
	if _, _, err := s.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := validInput()
	in.Email = "other@anpt.dz"
	_, _, err := s.Create(context.Background(), in)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("ожидалась ErrConflict, получено %v", err)
	}
}

func TestEmployeeCreate_SameMillisecond(t *testing.T) {
	s, _ := newTestEmployeeService()
	first, _, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	in := validInput()
	in.Login = "amina"
	second, creds, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("второе создание в ту же миллисекунду: %v", err)
	}
	if second.EmployeeID == first.EmployeeID {
		t.Errorf("одинаковые employee_id: %q", first.EmployeeID)
	}
	if second.EmployeeID != "EMP1741944600001" || creds.Email != "emp1741944600001@anpt.dz" {
		t.Errorf("EmployeeID = %q, Email = %q", second.EmployeeID, creds.Email)
	}
}

func TestEmployeeCreate_EmployeeIDTakenElsewhere(t *testing.T) {
	s, users := newTestEmployeeService()
	users.byID[100] = &model.User{ID: 100, Login: "other1", Email: "o1@anpt.dz", EmployeeID: "EMP1741944600000"}
	users.byID[101] = &model.User{ID: 101, Login: "other2", Email: "o2@anpt.dz", EmployeeID: "EMP1741944600001"}
	users.nextID = 101

	u, _, err := s.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.EmployeeID != "EMP1741944600002" {
		t.Errorf("EmployeeID = %q, want EMP1741944600002", u.EmployeeID)
	}

	users.byID[102] = &model.User{ID: 102, Login: "other3", Email: "o3@anpt.dz", EmployeeID: "EMP1741944600003"}
	users.byID[103] = &model.User{ID: 103, Login: "other4", Email: "o4@anpt.dz", EmployeeID: "EMP1741944600004"}
	users.byID[104] = &model.User{ID: 104, Login: "other5", Email: "o5@anpt.dz", EmployeeID: "EMP1741944600005"}
	users.nextID = 104
	in := validInput()
	in.Login = "amina"
	_, _, err = s.Create(context.Background(), in)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("ожидалась ErrConflict, получено %v", err)
	}
	if err.Error() == "Login ou email déjà utilisé" {
		t.Errorf("коллизия employee_id не должна сообщаться как занятый логин")
	}
}

func TestEmployeeUpdate(t *testing.T) {
	s, users := newTestEmployeeService()
	u, _, _ := s.Create(context.Background(), validInput())

	dept := "RH"
	role := "admin"
	pass := "nouveau1"
	got, err := s.Update(context.Background(), u.ID, UpdateEmployeeInput{Department: &dept, Role: &role, Password: &pass})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Department != "RH" || got.Role != rbac.RoleAdmin {
		t.Errorf("Update = %+v", got)
	}
	if !(auth.SHA256Hasher{}).Verify("nouveau1", users.byID[u.ID].PasswordHash) {
		t.Error("пароль не перехеширован")
	}

	bad := "superuser"
	if _, err := s.Update(context.Background(), u.ID, UpdateEmployeeInput{Role: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("неизвестная роль: ожидалась ErrValidation, получено %v", err)
	}
	short := "123"
	if _, err := s.Update(context.Background(), u.ID, UpdateEmployeeInput{Password: &short}); !errors.Is(err, ErrValidation) {
		t.Errorf("короткий пароль: ожидалась ErrValidation, получено %v", err)
	}
	if _, err := s.Update(context.Background(), 999, UpdateEmployeeInput{Department: &dept}); !errors.Is(err, ErrNotFound) {
		t.Errorf("несуществующий: ожидалась ErrNotFound, получено %v", err)
	}
}

func TestEmployeeDeactivate(t *testing.T) {
	s, users := newTestEmployeeService()
	u, _, _ := s.Create(context.Background(), validInput())

	if err := s.Deactivate(context.Background(), u.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if users.byID[u.ID].IsActive {
		t.Error("пользователь должен быть неактивен")
	}
	if _, ok := users.byID[u.ID]; !ok {
		t.Error("запись не должна удаляться физически")
	}

	if err := s.DeactivateByLogin(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

func TestEmployeeSetPassword(t *testing.T) {
	s, users := newTestEmployeeService()
	u, _, _ := s.Create(context.Background(), validInput())

	if err := s.SetPassword(context.Background(), "khaddad", "changed99"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !(auth.SHA256Hasher{}).Verify("changed99", users.byID[u.ID].PasswordHash) {
		t.Error("пароль не изменён")
	}
}

func TestDomainErrorMessage(t *testing.T) {
	err := notFound("Utilisateur non trouvé")
	if err.Error() != "Utilisateur non trouvé" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		t.Error("неверная категория ошибки")
	}
}
