package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/domain/rbac"
)

func TestRequestSubmit(t *testing.T) {
	repo := &fakeRequests{}
	s := NewRequestService(repo, testLogger())

	req, err := s.Submit(context.Background(), 3, SubmitRequestInput{
		RequestType: "leave",
		Title:       "Congé annuel",
		RequestData: json.RawMessage(`{"leave_type":"annual","start_date":"2025-07-01","end_date":"2025-07-15"}`),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Type() != model.RequestTypeLeave || req.Status != model.RequestStatusPending || req.UserID != 3 {
		t.Errorf("Submit = %+v", req)
	}
}

func TestRequestSubmit_WebClientPayload(t *testing.T) {
	for _, typ := range []string{"leave", "document", "other"} {
		t.Run(typ, func(t *testing.T) {
			repo := &fakeRequests{}
			s := NewRequestService(repo, testLogger())
			req, err := s.Submit(context.Background(), 4, SubmitRequestInput{
				RequestType: typ,
				Title:       "Demande",
				RequestData: json.RawMessage(`{"document_types":["Attestation de travail","Relevé de salaire"]}`),
			})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if string(req.Type()) != typ {
				t.Errorf("Type() = %q, want %q", req.Type(), typ)
			}
		})
	}
}

func TestRequestSubmit_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   SubmitRequestInput
	}{
		{"без заголовка", SubmitRequestInput{RequestType: "other"}},
		{"неизвестный тип", SubmitRequestInput{RequestType: "bonus", Title: "x"}},
		{"даты наоборот", SubmitRequestInput{RequestType: "leave", Title: "x",
			RequestData: json.RawMessage(`{"leave_type":"annual","start_date":"2025-07-15","end_date":"2025-07-01"}`)}},
		{"копий слишком много", SubmitRequestInput{RequestType: "document", Title: "x",
			RequestData: json.RawMessage(`{"document_types":["Attestation de travail"],"copies":11}`)}},
		{"лишнее поле", SubmitRequestInput{RequestType: "other", Title: "x",
			RequestData: json.RawMessage(`{"details":"a","salary":1000}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRequests{}
			s := NewRequestService(repo, testLogger())
			if _, err := s.Submit(context.Background(), 1, tt.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидалась ErrValidation, получено %v", err)
			}
			if len(repo.reqs) != 0 {
				t.Error("заявка не должна сохраняться")
			}
		})
	}
}

func TestRequestHandle(t *testing.T) {
	repo := &fakeRequests{}
	s := NewRequestService(repo, testLogger())
	req, _ := s.Submit(context.Background(), 1, SubmitRequestInput{RequestType: "other", Title: "Question"})

	resp := "Traité"
	got, err := s.Handle(context.Background(), req.ID, HandleRequestInput{Status: "approved", AdminResponse: &resp}, "admin@anpt.dz")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if got.Status != "approved" || *got.HandledBy != "admin@anpt.dz" {
		t.Errorf("Handle = %+v", got)
	}

	if _, err := s.Handle(context.Background(), req.ID, HandleRequestInput{Status: "archived"}, "a"); !errors.Is(err, ErrValidation) {
		t.Errorf("неизвестный статус: ожидалась ErrValidation, получено %v", err)
	}
	if _, err := s.Handle(context.Background(), 99, HandleRequestInput{Status: "rejected"}, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получено %v", err)
	}
}

func newTestResetService(t *testing.T) (*PasswordResetService, *fakeResets, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	digest, _ := auth.SHA256Hasher{}.Hash("oldpass1")
	_ = users.Create(context.Background(), &model.User{
		Email: "karim@anpt.dz", Login: "karim", PasswordHash: digest, Role: rbac.RoleEmployee, IsActive: true,
	})
	resets := newFakeResets(users)
	return NewPasswordResetService(resets, auth.SHA256Hasher{}, testLogger()), resets, users
}

func TestPasswordResetSubmit(t *testing.T) {
	s, resets, _ := newTestResetService(t)

	if _, err := s.Submit(context.Background(), "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("пустой email: ожидалась ErrValidation, получено %v", err)
	}
	// Неизвестный email принимается: существование аккаунта не раскрывается.
	if _, err := s.Submit(context.Background(), "nobody@anpt.dz"); err != nil {
		t.Errorf("Submit: %v", err)
	}
	if len(resets.reqs) != 1 {
		t.Errorf("заявок %d, хотели 1", len(resets.reqs))
	}
}

func TestPasswordResetResolve(t *testing.T) {
	s, _, users := newTestResetService(t)
	req, _ := s.Submit(context.Background(), "karim@anpt.dz")

	if _, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "completed", NewPassword: "123"}, "a"); !errors.Is(err, ErrValidation) {
		t.Errorf("короткий пароль: ожидалась ErrValidation, получено %v", err)
	}
	if _, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "pending"}, "a"); !errors.Is(err, ErrValidation) {
		t.Errorf("статус pending: ожидалась ErrValidation, получено %v", err)
	}

	got, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "completed", NewPassword: "newpass1"}, "admin@anpt.dz")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Status != model.ResetStatusCompleted {
		t.Errorf("Status = %q", got.Status)
	}
	u, _ := users.GetByEmail(context.Background(), "karim@anpt.dz")
	if !(auth.SHA256Hasher{}).Verify("newpass1", u.PasswordHash) {
		t.Error("пароль пользователя не изменён")
	}

	if _, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "rejected"}, "a"); !errors.Is(err, ErrConflict) {
		t.Errorf("повторная обработка: ожидалась ErrConflict, получено %v", err)
	}
}

func TestPasswordResetResolve_UnknownUser(t *testing.T) {
	s, _, _ := newTestResetService(t)
	req, _ := s.Submit(context.Background(), "nobody@anpt.dz")

	_, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "completed", NewPassword: "newpass1"}, "a")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}

	rejected, err := s.Resolve(context.Background(), req.ID, ResolveResetInput{Status: "rejected"}, "a")
	if err != nil || rejected.Status != model.ResetStatusRejected {
		t.Errorf("отклонение: %+v, %v", rejected, err)
	}
}
