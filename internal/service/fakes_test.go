package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/arturkryukov/hrportal/internal/domain/model"
	"github.com/arturkryukov/hrportal/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// --- fakeUsers ---

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, other := range f.byID {
		if other.EmployeeID == u.EmployeeID {
			return repository.ErrDuplicateEmployeeID
		}
		if other.Login == u.Login || other.Email == u.Email {
			return repository.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt, u.UpdatedAt = fixedNow, fixedNow
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) find(match func(*model.User) bool) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetActiveByID(_ context.Context, id int64) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.ID == id && u.IsActive })
}

func (f *fakeUsers) GetActiveByLogin(_ context.Context, login string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.Login == login && u.IsActive })
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.Login == login })
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.Email == email })
}

func (f *fakeUsers) List(context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, f.err
}

func (f *fakeUsers) Update(_ context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Department != nil {
		u.Department = *upd.Department
	}
	if upd.Position != nil {
		u.Position = *upd.Position
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.HireDate != nil {
		u.HireDate = upd.HireDate
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	cp := *u
	return &cp, nil
}

// --- fakePayslips / fakeCharts ---

type fakePayslips struct {
	created []*model.Payslip
	err     error
}

func (f *fakePayslips) Create(_ context.Context, p *model.Payslip) error {
	if f.err != nil {
		return f.err
	}
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

func (f *fakePayslips) ListByUser(_ context.Context, userID int64) ([]*model.Payslip, error) {
	var out []*model.Payslip
	for _, p := range f.created {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCharts struct {
	charts []*model.SalaryChart
}

func (f *fakeCharts) Publish(_ context.Context, c *model.SalaryChart) error {
	for _, old := range f.charts {
		old.IsActive = false
	}
	c.ID = int64(len(f.charts) + 1)
	c.IsActive = true
	f.charts = append(f.charts, c)
	return nil
}

func (f *fakeCharts) CurrentActive(context.Context) (*model.SalaryChart, error) {
	for i := len(f.charts) - 1; i >= 0; i-- {
		if f.charts[i].IsActive {
			return f.charts[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- fakeResets ---

type fakeResets struct {
	reqs      map[int64]*model.PasswordResetRequest
	users     *fakeUsers
	completed map[int64]string
}

func newFakeResets(users *fakeUsers) *fakeResets {
	return &fakeResets{reqs: map[int64]*model.PasswordResetRequest{}, users: users, completed: map[int64]string{}}
}

func (f *fakeResets) Create(_ context.Context, email string) (*model.PasswordResetRequest, error) {
	r := &model.PasswordResetRequest{ID: int64(len(f.reqs) + 1), UserEmail: email, Status: model.ResetStatusPending, RequestedAt: fixedNow}
	f.reqs[r.ID] = r
	return r, nil
}

func (f *fakeResets) ListPending(context.Context) ([]*model.PasswordResetRequest, error) {
	var out []*model.PasswordResetRequest
	for _, r := range f.reqs {
		if r.Status == model.ResetStatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResets) resolve(id int64, status, by string) (*model.PasswordResetRequest, error) {
	r, ok := f.reqs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status != model.ResetStatusPending {
		return nil, repository.ErrConflict
	}
	r.Status = status
	r.HandledBy = &by
	return r, nil
}

func (f *fakeResets) Reject(_ context.Context, id int64, by string) (*model.PasswordResetRequest, error) {
	return f.resolve(id, model.ResetStatusRejected, by)
}

func (f *fakeResets) Complete(ctx context.Context, id int64, by, digest string) (*model.PasswordResetRequest, error) {
	r, ok := f.reqs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Status != model.ResetStatusPending {
		return nil, repository.ErrConflict
	}
	u, err := f.users.GetByEmail(ctx, r.UserEmail)
	if err != nil {
		return nil, err
	}
	if _, err := f.users.Update(ctx, u.ID, model.UserUpdate{PasswordHash: &digest}); err != nil {
		return nil, err
	}
	f.completed[id] = digest
	return f.resolve(id, model.ResetStatusCompleted, by)
}

// --- fakeRequests ---

type fakeRequests struct {
	reqs []*model.EmployeeRequest
}

func (f *fakeRequests) Create(_ context.Context, r *model.EmployeeRequest) error {
	r.ID = int64(len(f.reqs) + 1)
	r.Status = model.RequestStatusPending
	f.reqs = append(f.reqs, r)
	return nil
}

func (f *fakeRequests) ListByUser(_ context.Context, userID int64) ([]*model.EmployeeRequest, error) {
	var out []*model.EmployeeRequest
	for _, r := range f.reqs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequests) ListAll(context.Context) ([]*model.EmployeeRequest, error) {
	return f.reqs, nil
}

func (f *fakeRequests) UpdateStatus(_ context.Context, id int64, status string, resp *string, by string) (*model.EmployeeRequest, error) {
	for _, r := range f.reqs {
		if r.ID == id {
			r.Status = status
			r.AdminResponse = resp
			r.HandledBy = &by
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- fakeContent ---

type fakeContent struct {
	events        []*model.Event
	announcements []*model.Announcement
	documents     []*model.AdminDocument
}

func (f *fakeContent) ListEvents(context.Context, bool) ([]*model.Event, error) {
	return f.events, nil
}

func (f *fakeContent) CreateEvent(_ context.Context, e *model.Event) error {
	e.ID = int64(len(f.events) + 1)
	e.IsActive = true
	f.events = append(f.events, e)
	return nil
}

func (f *fakeContent) UpdateEvent(_ context.Context, id int64, upd model.EventUpdate) (*model.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			if upd.Title != nil {
				e.Title = *upd.Title
			}
			if upd.EventDate != nil {
				e.EventDate = upd.EventDate
			}
			return e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContent) DeleteEvent(_ context.Context, id int64) error {
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeContent) ListAnnouncements(context.Context, bool) ([]*model.Announcement, error) {
	return f.announcements, nil
}

func (f *fakeContent) CreateAnnouncement(_ context.Context, a *model.Announcement) error {
	a.ID = int64(len(f.announcements) + 1)
	f.announcements = append(f.announcements, a)
	return nil
}

func (f *fakeContent) UpdateAnnouncement(_ context.Context, id int64, upd model.AnnouncementUpdate) (*model.Announcement, error) {
	for _, a := range f.announcements {
		if a.ID == id {
			if upd.Priority != nil {
				a.Priority = *upd.Priority
			}
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContent) DeleteAnnouncement(context.Context, int64) error {
	return repository.ErrNotFound
}

func (f *fakeContent) ListDocuments(context.Context, bool) ([]*model.AdminDocument, error) {
	return f.documents, nil
}

func (f *fakeContent) CreateDocument(_ context.Context, d *model.AdminDocument) error {
	d.ID = int64(len(f.documents) + 1)
	f.documents = append(f.documents, d)
	return nil
}

func (f *fakeContent) UpdateDocument(context.Context, int64, model.DocumentUpdate) (*model.AdminDocument, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeContent) DeleteDocument(context.Context, int64) error {
	return nil
}
