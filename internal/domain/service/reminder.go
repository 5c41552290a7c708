package service

import (
	"context"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type ReminderStorage interface {
	Get(ctx context.Context, id string) (*entity.Reminder, error)
	GetByUser(ctx context.Context, userID string) ([]entity.Reminder, error)
	DeleteUnsent(ctx context.Context, userID, eventID string) (int, error)
}

type reminderMailer interface {
	SendReminderConfirmation(ctx context.Context, to string, event entity.Event, at time.Time) error
}

type reminderNotifier interface {
	NotifyEventReminder(ctx context.Context, userID string, event entity.Event, at time.Time) error
}

type eventGetter interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
}

type userGetter interface {
	Get(ctx context.Context, id string) (*entity.User, error)
}

// ReminderService stores reminders. Nothing in the service sends them when they
// are due; Sent only changes through MarkSent.
type ReminderService struct {
	logger   *types.Logger
	storage  ReminderStorage
	rows     rowWriter
	mailer   reminderMailer
	notifier reminderNotifier
	users    userGetter
	events   eventGetter
}

func NewReminderService(
	logger *types.Logger,
	storage ReminderStorage,
	rows rowWriter,
	mailer reminderMailer,
	notifier reminderNotifier,
	users userGetter,
	events eventGetter,
) *ReminderService {
	return &ReminderService{
		logger:   logger,
		storage:  storage,
		rows:     rows,
		mailer:   mailer,
		notifier: notifier,
		users:    users,
		events:   events,
	}
}

// CreateReminder stores a reminder for the user about event at the given time
// and emails a confirmation. Users without an email are rejected; users who
// turned reminders off are skipped and get a nil reminder.
func (s *ReminderService) CreateReminder(ctx context.Context, user entity.User, event entity.Event, at time.Time) (*entity.Reminder, error) {
	if user.Email == "" {
		return nil, errorz.ErrEmailRequired
	}
	if !user.EmailPreferences.RemindersEnabled() {
		s.logger.Debugf("reminders disabled for user %s, skipping", user.ID)
		return nil, nil
	}

	reminder := &entity.Reminder{
		UserID:       user.ID,
		EventID:      event.ID,
		EventTitle:   event.Title,
		EventDate:    event.Date,
		ReminderTime: at,
		Sent:         false,
	}
	if err := s.rows.Create(ctx, reminder); err != nil {
		return nil, err
	}

	if err := s.mailer.SendReminderConfirmation(ctx, user.Email, event, at); err != nil {
		s.logger.Warnf("failed to send reminder confirmation to %s: %v", user.Email, err)
	}
	return reminder, nil
}

// Create is the manual "remind me" action of the caller.
func (s *ReminderService) Create(ctx context.Context, session dto.Session, form dto.ReminderForm) (*entity.Reminder, error) {
	if err := validator.Struct(form); err != nil {
		return nil, err
	}
	at, err := time.Parse(time.RFC3339, form.ReminderTime)
	if err != nil {
		return nil, errorz.NewValidationError("reminder_time", "must be an RFC 3339 timestamp")
	}
	if !at.After(time.Now()) {
		return nil, errorz.NewValidationError("reminder_time", "must be in the future")
	}

	user, err := s.users.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.Get(ctx, form.EventID)
	if err != nil {
		return nil, err
	}
	return s.CreateReminder(ctx, *user, *event, at)
}

// Options lists the reminder times still available for the event.
func (s *ReminderService) Options(ctx context.Context, eventID string) ([]timefmt.ReminderOption, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return timefmt.ReminderOptions(event.Date, event.Time, time.Now())
}

// MarkSent flags the reminder as delivered and drops an in-app reminder into
// the user's notifications.
func (s *ReminderService) MarkSent(ctx context.Context, id string) error {
	reminder, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if reminder.Sent {
		return nil
	}
	if err = s.rows.Update(ctx, reminder, map[string]interface{}{"sent": true}); err != nil {
		return err
	}

	event := entity.Event{ID: reminder.EventID, Title: reminder.EventTitle, Date: reminder.EventDate}
	if err = s.notifier.NotifyEventReminder(ctx, reminder.UserID, event, reminder.ReminderTime); err != nil {
		s.logger.Warnf("failed to notify user %s about reminder %s: %v", reminder.UserID, reminder.ID, err)
	}
	return nil
}

func (s *ReminderService) ListForUser(ctx context.Context, session dto.Session) ([]entity.Reminder, error) {
	return s.storage.GetByUser(ctx, session.UserID)
}

// Delete removes one of the caller's reminders.
func (s *ReminderService) Delete(ctx context.Context, session dto.Session, id string) error {
	reminder, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if reminder.UserID != session.UserID && !session.IsAdmin() {
		return errorz.Forbidden
	}
	return s.rows.Delete(ctx, reminder)
}

// DeleteUnsent drops the pending reminders of a user for one event.
func (s *ReminderService) DeleteUnsent(ctx context.Context, userID, eventID string) (int, error) {
	return s.storage.DeleteUnsent(ctx, userID, eventID)
}
