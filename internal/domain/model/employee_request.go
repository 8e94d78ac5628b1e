package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RequestType — тип заявки сотрудника, определяет структуру request_data.
type RequestType string

// Типы заявок.
const (
	RequestTypeLeave    RequestType = "leave"
	RequestTypeDocument RequestType = "document"
	RequestTypeOther    RequestType = "other"
)

// Статусы заявки сотрудника.
const (
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
	RequestStatusCompleted = "completed"
)

var requestStatuses = map[string]bool{
	RequestStatusPending:   true,
	RequestStatusApproved:  true,
	RequestStatusRejected:  true,
	RequestStatusCompleted: true,
}

// IsValidRequestStatus проверяет статус заявки.
func IsValidRequestStatus(s string) bool {
	return requestStatuses[s]
}

// ErrUnknownRequestType — request_type не из допустимого набора.
var ErrUnknownRequestType = errors.New("type de demande inconnu")

// RequestPayload — данные заявки, зависящие от её типа.
// Реализуется LeavePayload, DocumentPayload и OtherPayload.
type RequestPayload interface {
	RequestType() RequestType
	Validate() error
}

// LeavePayload — заявка на отпуск.
// Веб-клиент присылает только document_types; даты и тип отпуска необязательны.
type LeavePayload struct {
	LeaveType     string   `json:"leave_type,omitempty"`
	StartDate     string   `json:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	DocumentTypes []string `json:"document_types,omitempty"`
}

// RequestType реализует RequestPayload.
func (LeavePayload) RequestType() RequestType { return RequestTypeLeave }

// Validate проверяет формат дат (YYYY-MM-DD) и их порядок, если даты указаны.
func (p LeavePayload) Validate() error {
	var start, end time.Time
	var err error
	if p.StartDate != "" {
		if start, err = time.Parse(time.DateOnly, p.StartDate); err != nil {
			return fmt.Errorf("start_date invalide: %q", p.StartDate)
		}
	}
	if p.EndDate != "" {
		if end, err = time.Parse(time.DateOnly, p.EndDate); err != nil {
			return fmt.Errorf("end_date invalide: %q", p.EndDate)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return errors.New("end_date doit être postérieure à start_date")
	}
	return validateDocumentTypes(p.DocumentTypes)
}

// Ограничения на количество экземпляров документа.
const (
	minDocumentCopies = 1
	maxDocumentCopies = 10
)

// DocumentPayload — заявка на выдачу документов (attestation de travail, relevé de salaire...).
type DocumentPayload struct {
	DocumentTypes []string `json:"document_types"`
	Copies        int      `json:"copies"`
	Purpose       string   `json:"purpose,omitempty"`
}

// RequestType реализует RequestPayload.
func (DocumentPayload) RequestType() RequestType { return RequestTypeDocument }

// Validate проверяет список документов и количество экземпляров.
func (p DocumentPayload) Validate() error {
	if p.Copies < minDocumentCopies || p.Copies > maxDocumentCopies {
		return fmt.Errorf("copies doit être entre %d et %d", minDocumentCopies, maxDocumentCopies)
	}
	return validateDocumentTypes(p.DocumentTypes)
}

// OtherPayload — заявка в свободной форме.
type OtherPayload struct {
	Details       string   `json:"details,omitempty"`
	DocumentTypes []string `json:"document_types,omitempty"`
}

// RequestType реализует RequestPayload.
func (OtherPayload) RequestType() RequestType { return RequestTypeOther }

// Validate проверяет только список документов.
func (p OtherPayload) Validate() error { return validateDocumentTypes(p.DocumentTypes) }

func validateDocumentTypes(types []string) error {
	for _, t := range types {
		if strings.TrimSpace(t) == "" {
			return errors.New("document_types ne peut pas contenir de valeur vide")
		}
	}
	return nil
}

// DecodeRequestPayload разбирает и проверяет request_data новой заявки.
// Пустые данные (отсутствуют или null) трактуются как пустой объект.
// Поля, не относящиеся к типу заявки, отклоняются.
func DecodeRequestPayload(t RequestType, raw json.RawMessage) (RequestPayload, error) {
	payload, err := decodePayload(t, raw, true)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// ParseStoredPayload восстанавливает request_data сохранённой заявки.
// Разбор нестрогий и без проверок: запись, не подходящая под схему,
// отдаётся с нулевыми полями. Неизвестный тип трактуется как other.
func ParseStoredPayload(t RequestType, raw []byte) RequestPayload {
	payload, err := decodePayload(t, raw, false)
	if err == nil {
		return payload
	}
	switch t {
	case RequestTypeLeave:
		return LeavePayload{}
	case RequestTypeDocument:
		return DocumentPayload{Copies: minDocumentCopies}
	default:
		return OtherPayload{}
	}
}

func decodePayload(t RequestType, raw json.RawMessage, strict bool) (RequestPayload, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = json.RawMessage("{}")
	}

	switch t {
	case RequestTypeLeave:
		var p LeavePayload
		if err := unmarshalPayload(raw, &p, strict); err != nil {
			return nil, err
		}
		return p, nil
	case RequestTypeDocument:
		var p DocumentPayload
		if err := unmarshalPayload(raw, &p, strict); err != nil {
			return nil, err
		}
		if p.Copies == 0 {
			p.Copies = minDocumentCopies
		}
		if p.DocumentTypes == nil {
			p.DocumentTypes = []string{}
		}
		return p, nil
	case RequestTypeOther:
		var p OtherPayload
		if err := unmarshalPayload(raw, &p, strict); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequestType, t)
	}
}

func unmarshalPayload(raw json.RawMessage, dst any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("request_data invalide: %w", err)
	}
	return nil
}

// Requester — данные автора заявки для списка администратора.
type Requester struct {
	FirstName  string
	LastName   string
	EmployeeID string
}

// EmployeeRequest — заявка сотрудника, обрабатываемая администратором.
type EmployeeRequest struct {
	ID            int64
	UserID        int64
	Title         string
	Description   string
	Payload       RequestPayload
	Status        string
	AdminResponse *string
	HandledBy     *string
	HandledAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// Requester заполняется только в списке администратора.
	Requester *Requester
}

// Type возвращает тип заявки по её данным.
func (r *EmployeeRequest) Type() RequestType {
	if r.Payload == nil {
		return RequestTypeOther
	}
	return r.Payload.RequestType()
}

type employeeRequestJSON struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	RequestType   RequestType    `json:"request_type"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	RequestData   RequestPayload `json:"request_data"`
	Status        string         `json:"status"`
	AdminResponse *string        `json:"admin_response"`
	HandledBy     *string        `json:"handled_by"`
	HandledAt     *time.Time     `json:"handled_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	FirstName     *string        `json:"first_name,omitempty"`
	LastName      *string        `json:"last_name,omitempty"`
	EmployeeID    *string        `json:"employee_id,omitempty"`
}

// MarshalJSON сериализует заявку в плоский объект с request_type и request_data.
func (r EmployeeRequest) MarshalJSON() ([]byte, error) {
	out := employeeRequestJSON{
		ID:            r.ID,
		UserID:        r.UserID,
		RequestType:   r.Type(),
		Title:         r.Title,
		Description:   r.Description,
		RequestData:   r.Payload,
		Status:        r.Status,
		AdminResponse: r.AdminResponse,
		HandledBy:     r.HandledBy,
		HandledAt:     r.HandledAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if out.RequestData == nil {
		out.RequestData = OtherPayload{}
	}
	if r.Requester != nil {
		out.FirstName = &r.Requester.FirstName
		out.LastName = &r.Requester.LastName
		out.EmployeeID = &r.Requester.EmployeeID
	}
	return json.Marshal(out)
}
