package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/smtp"
	"github.com/google/uuid"
)

// memStore keeps rows in maps and behaves like the postgres write helpers:
// ids are assigned on create and the registration pair is unique.
type memStore struct {
	mu sync.Mutex

	users         map[string]entity.User
	events        map[string]entity.Event
	registrations map[string]entity.Registration
	reminders     map[string]entity.Reminder
	notifications map[string]entity.Notification
	comments      map[string]entity.Comment

	increments map[string]int
	updates    map[string]map[string]interface{}

	failIncrement error
	createDelay   time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[string]entity.User{},
		events:        map[string]entity.Event{},
		registrations: map[string]entity.Registration{},
		reminders:     map[string]entity.Reminder{},
		notifications: map[string]entity.Notification{},
		comments:      map[string]entity.Comment{},
		increments:    map[string]int{},
		updates:       map[string]map[string]interface{}{},
	}
}

func pairKey(eventID, userID string) string {
	return eventID + "/" + userID
}

func (m *memStore) Create(_ context.Context, row entity.Row) error {
	if m.createDelay > 0 {
		time.Sleep(m.createDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.RowID() == "" {
		row.SetRowID(uuid.NewString())
	}
	switch r := row.(type) {
	case *entity.User:
		if _, ok := m.users[r.ID]; ok {
			return errorz.ErrDuplicate
		}
		m.users[r.ID] = *r
	case *entity.Event:
		m.events[r.ID] = *r
	case *entity.Registration:
		key := pairKey(r.EventID, r.UserID)
		if _, ok := m.registrations[key]; ok {
			return errorz.ErrDuplicate
		}
		r.RegisteredAt = time.Now()
		m.registrations[key] = *r
	case *entity.Reminder:
		m.reminders[r.ID] = *r
	case *entity.Notification:
		m.notifications[r.ID] = *r
	case *entity.Comment:
		m.comments[r.ID] = *r
	}
	return nil
}

func (m *memStore) Update(_ context.Context, row entity.Row, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates[row.TableName()+"/"+row.RowID()] = fields
	switch r := row.(type) {
	case *entity.Notification:
		if read, ok := fields["read"].(bool); ok {
			n := m.notifications[r.ID]
			n.Read = read
			m.notifications[r.ID] = n
		}
	case *entity.Reminder:
		if sent, ok := fields["sent"].(bool); ok {
			rem := m.reminders[r.ID]
			rem.Sent = sent
			m.reminders[r.ID] = rem
		}
	}
	return nil
}

func (m *memStore) Set(ctx context.Context, row entity.Row) error {
	return m.Create(ctx, row)
}

func (m *memStore) Delete(_ context.Context, row entity.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch r := row.(type) {
	case *entity.Registration:
		key := pairKey(r.EventID, r.UserID)
		if _, ok := m.registrations[key]; !ok {
			return errorz.ErrNotFound
		}
		delete(m.registrations, key)
	case *entity.Reminder:
		delete(m.reminders, r.ID)
	case *entity.Comment:
		delete(m.comments, r.ID)
	case *entity.Event:
		delete(m.events, r.ID)
	}
	return nil
}

func (m *memStore) Increment(_ context.Context, row entity.Row, column string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncrement != nil {
		return m.failIncrement
	}
	m.increments[row.TableName()+"/"+row.RowID()+"/"+column] += delta
	return nil
}

func (m *memStore) counter(row entity.Row, column string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.increments[row.TableName()+"/"+row.RowID()+"/"+column]
}

func (m *memStore) remindersOf(userID string) []entity.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Reminder
	for _, r := range m.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) notificationsOf(userID string) []entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type userView struct{ *memStore }

func (v userView) Get(_ context.Context, id string) (*entity.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, ok := v.users[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &u, nil
}

func (v userView) GetByRole(_ context.Context, role entity.Role, status entity.ApprovalStatus) ([]entity.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []entity.User
	for _, u := range v.users {
		if u.Role == role && (status == "" || u.OrganizerStatus == status) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (v userView) Count(context.Context) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return int64(len(v.users)), nil
}

type eventView struct{ *memStore }

func (v eventView) Get(_ context.Context, id string) (*entity.Event, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.events[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	e.IsPast = e.Past(time.Now())
	return &e, nil
}

type registrationView struct{ *memStore }

func (v registrationView) Get(_ context.Context, eventID, userID string) (*entity.Registration, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.registrations[pairKey(eventID, userID)]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &r, nil
}

func (v registrationView) GetByEvent(_ context.Context, eventID string) ([]entity.Registration, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []entity.Registration{}
	for _, r := range v.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (v registrationView) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	rows, _ := v.GetByEvent(ctx, eventID)
	return int64(len(rows)), nil
}

func (v registrationView) GetByUser(_ context.Context, userID string) ([]entity.Registration, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []entity.Registration{}
	for _, r := range v.registrations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type reminderView struct{ *memStore }

func (v reminderView) Get(_ context.Context, id string) (*entity.Reminder, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.reminders[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &r, nil
}

func (v reminderView) GetByUser(_ context.Context, userID string) ([]entity.Reminder, error) {
	return v.remindersOf(userID), nil
}

func (v reminderView) DeleteUnsent(_ context.Context, userID, eventID string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for id, r := range v.reminders {
		if r.UserID == userID && r.EventID == eventID && !r.Sent {
			delete(v.reminders, id)
			n++
		}
	}
	return n, nil
}

type notificationView struct{ *memStore }

func (v notificationView) Get(_ context.Context, id string) (*entity.Notification, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n, ok := v.notifications[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &n, nil
}

func (v notificationView) GetByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]entity.Notification, error) {
	out := []entity.Notification{}
	for _, n := range v.notificationsOf(userID) {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (v notificationView) CountUnread(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, item := range v.notificationsOf(userID) {
		if !item.Read {
			n++
		}
	}
	return n, nil
}

func (v notificationView) MarkAllRead(_ context.Context, userID string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	count := 0
	for id, n := range v.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			v.notifications[id] = n
			count++
		}
	}
	return count, nil
}

type commentView struct{ *memStore }

func (v commentView) Get(_ context.Context, id string) (*entity.Comment, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.comments[id]
	if !ok {
		return nil, errorz.ErrNotFound
	}
	return &c, nil
}

func (v commentView) GetByEvent(_ context.Context, eventID string) ([]entity.Comment, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []entity.Comment{}
	for _, c := range v.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []smtp.Message
	err  error
}

func (f *fakeMailer) Send(msg smtp.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []smtp.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]smtp.Message(nil), f.sent...)
}

func boolPtr(v bool) *bool {
	return &v
}
