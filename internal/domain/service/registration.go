package service

import (
	"context"
	"errors"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type RegistrationState string

const (
	Unregistered  RegistrationState = "unregistered"
	Registering   RegistrationState = "registering"
	Registered    RegistrationState = "registered"
	Unregistering RegistrationState = "unregistering"
)

const registrationCounter = "registration_count"

type RegistrationStorage interface {
	Get(ctx context.Context, eventID, userID string) (*entity.Registration, error)
	GetByEvent(ctx context.Context, eventID string) ([]entity.Registration, error)
	GetByUser(ctx context.Context, userID string) ([]entity.Registration, error)
}

// registrationGuard marks a (user, event) pair as having a change in flight.
type registrationGuard interface {
	Begin(ctx context.Context, key, state string) (bool, error)
	End(ctx context.Context, key string)
	Current(ctx context.Context, key string) (string, error)
}

type registrationMailer interface {
	SendRegistrationConfirmation(ctx context.Context, to string, event entity.Event) error
}

type registrationReminders interface {
	CreateReminder(ctx context.Context, user entity.User, event entity.Event, at time.Time) (*entity.Reminder, error)
	DeleteUnsent(ctx context.Context, userID, eventID string) (int, error)
}

type registrationNotifier interface {
	NotifyRegistrationSuccess(ctx context.Context, userID string, event entity.Event) error
}

// RegistrationService runs the register/unregister workflow. Only the row
// write is primary; counter, email, reminder and notification steps are best
// effort and never undo it.
type RegistrationService struct {
	logger *types.Logger

	storage   RegistrationStorage
	rows      rowWriter
	guard     registrationGuard
	users     userGetter
	events    eventGetter
	mailer    registrationMailer
	reminders registrationReminders
	notifier  registrationNotifier
}

func NewRegistrationService(
	logger *types.Logger,
	storage RegistrationStorage,
	rows rowWriter,
	guard registrationGuard,
	users userGetter,
	events eventGetter,
	mailer registrationMailer,
	reminders registrationReminders,
	notifier registrationNotifier,
) *RegistrationService {
	return &RegistrationService{
		logger:    logger,
		storage:   storage,
		rows:      rows,
		guard:     guard,
		users:     users,
		events:    events,
		mailer:    mailer,
		reminders: reminders,
		notifier:  notifier,
	}
}

func guardKey(userID, eventID string) string {
	return "registration:" + userID + ":" + eventID
}

func (s *RegistrationService) Register(ctx context.Context, session dto.Session, eventID string, form dto.RegistrationForm) (*entity.Registration, error) {
	if err := validator.Struct(form); err != nil {
		return nil, err
	}

	key := guardKey(session.UserID, eventID)
	ok, err := s.guard.Begin(ctx, key, string(Registering))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorz.ErrRegistrationInProgress
	}
	defer s.guard.End(context.WithoutCancel(ctx), key)

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsPast {
		return nil, errorz.NewValidationError("event", "Registration is closed for past events.")
	}
	user, err := s.users.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	registration := &entity.Registration{
		EventID:    event.ID,
		UserID:     user.ID,
		FullName:   form.FullName,
		Email:      user.Email,
		RollNumber: form.RollNumber,
		Branch:     form.Branch,
		Section:    form.Section,
		Title:      event.Title,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		ClubName:   event.ClubName,
	}
	if err = s.rows.Create(ctx, registration); err != nil {
		if errors.Is(err, errorz.ErrDuplicate) {
			return nil, errorz.ErrAlreadyRegistered
		}
		return nil, err
	}
	s.logger.Infof("user %s registered for event %s", user.ID, event.ID)

	// side steps must not be cut short by the caller going away
	sideCtx := context.WithoutCancel(ctx)

	s.bestEffort("increment registration count", func() error {
		return s.rows.Increment(sideCtx, &entity.Event{ID: event.ID}, registrationCounter, 1)
	})
	if user.Email != "" && user.EmailPreferences.RemindersEnabled() {
		s.bestEffort("send registration confirmation", func() error {
			return s.mailer.SendRegistrationConfirmation(sideCtx, user.Email, *event)
		})
	}
	s.bestEffort("create default reminder", func() error {
		at, err := timefmt.DefaultReminderTime(event.Date, event.Time)
		if err != nil {
			return err
		}
		_, err = s.reminders.CreateReminder(sideCtx, *user, *event, at)
		return err
	})
	s.bestEffort("notify registration", func() error {
		return s.notifier.NotifyRegistrationSuccess(sideCtx, user.ID, *event)
	})

	return registration, nil
}

// Unregister deletes the caller's registration, then decrements the counter and
// drops the reminders the registration created.
func (s *RegistrationService) Unregister(ctx context.Context, session dto.Session, eventID string) error {
	key := guardKey(session.UserID, eventID)
	ok, err := s.guard.Begin(ctx, key, string(Unregistering))
	if err != nil {
		return err
	}
	if !ok {
		return errorz.ErrRegistrationInProgress
	}
	defer s.guard.End(context.WithoutCancel(ctx), key)

	registration, err := s.storage.Get(ctx, eventID, session.UserID)
	if errors.Is(err, errorz.ErrNotFound) {
		return errorz.ErrNotRegistered
	}
	if err != nil {
		return err
	}
	if err = s.rows.Delete(ctx, registration); err != nil {
		return err
	}
	s.logger.Infof("user %s unregistered from event %s", session.UserID, eventID)

	sideCtx := context.WithoutCancel(ctx)
	s.bestEffort("decrement registration count", func() error {
		return s.rows.Increment(sideCtx, &entity.Event{ID: eventID}, registrationCounter, -1)
	})
	s.bestEffort("delete pending reminders", func() error {
		_, err := s.reminders.DeleteUnsent(sideCtx, session.UserID, eventID)
		return err
	})
	return nil
}

// State reports where the (user, event) pair is in the workflow.
func (s *RegistrationService) State(ctx context.Context, userID, eventID string) (RegistrationState, error) {
	current, err := s.guard.Current(ctx, guardKey(userID, eventID))
	if err != nil {
		return "", err
	}
	if current != "" {
		return RegistrationState(current), nil
	}
	_, err = s.storage.Get(ctx, eventID, userID)
	switch {
	case errors.Is(err, errorz.ErrNotFound):
		return Unregistered, nil
	case err != nil:
		return "", err
	}
	return Registered, nil
}

func (s *RegistrationService) Get(ctx context.Context, session dto.Session, eventID string) (*entity.Registration, error) {
	return s.storage.Get(ctx, eventID, session.UserID)
}

func (s *RegistrationService) ListMine(ctx context.Context, session dto.Session) ([]entity.Registration, error) {
	return s.storage.GetByUser(ctx, session.UserID)
}

func (s *RegistrationService) bestEffort(step string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.Warnf("%s failed: %v", step, err)
	}
}
