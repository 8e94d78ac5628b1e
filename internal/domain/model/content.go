package model

import "time"

// Payslip — бюллетень зарплаты сотрудника за месяц.
// Файл не загружается: file_url указывает на заглушку.
type Payslip struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	UploadedBy string    `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SalaryChart — сетка окладов. Активна только последняя опубликованная.
type SalaryChart struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedBy string    `json:"uploaded_by"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Event — корпоративное мероприятие.
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	EventDate   *time.Time `json:"event_date"`
	Location    string     `json:"location"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Приоритеты объявлений по возрастанию.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var priorities = map[string]bool{
	PriorityLow: true, PriorityNormal: true, PriorityHigh: true, PriorityUrgent: true,
}

// IsValidPriority проверяет приоритет объявления.
func IsValidPriority(p string) bool {
	return priorities[p]
}

// Announcement — объявление для сотрудников.
type Announcement struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	IsActive  bool      `json:"is_active"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminDocument — административный документ (регламенты, бланки).
type AdminDocument struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FileName     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	DocumentType string    `json:"document_type"`
	IsActive     bool      `json:"is_active"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EventUpdate — частичное обновление мероприятия (nil — поле не меняется).
type EventUpdate struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EventDate   *time.Time `json:"event_date"`
	Location    *string    `json:"location"`
	IsActive    *bool      `json:"is_active"`
}

// AnnouncementUpdate — частичное обновление объявления.
type AnnouncementUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Priority *string `json:"priority"`
	IsActive *bool   `json:"is_active"`
}

// DocumentUpdate — частичное обновление административного документа.
type DocumentUpdate struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	DocumentType *string `json:"document_type"`
	IsActive     *bool   `json:"is_active"`
}
