package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/location"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

const commentPreviewLength = 100

type NotificationStorage interface {
	Get(ctx context.Context, id string) (*entity.Notification, error)
	GetByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type commentMailer interface {
	SendCommentNotification(ctx context.Context, to, eventTitle, commenter, comment string) error
}

// Preferences is the effective notification setup of a user.
type Preferences struct {
	EmailReminders     bool `json:"email_reminders"`
	EmailComments      bool `json:"email_comments"`
	EmailRegistrations bool `json:"email_registrations"`
	InApp              bool `json:"in_app"`
}

type NotificationService struct {
	logger  *types.Logger
	storage NotificationStorage
	rows    rowWriter
	mailer  commentMailer
}

func NewNotificationService(logger *types.Logger, storage NotificationStorage, rows rowWriter, mailer commentMailer) *NotificationService {
	return &NotificationService{
		logger:  logger,
		storage: storage,
		rows:    rows,
		mailer:  mailer,
	}
}

// Create stores an unread in-app notification.
func (s *NotificationService) Create(ctx context.Context, n *entity.Notification) error {
	n.Read = false
	return s.rows.Create(ctx, n)
}

func (s *NotificationService) List(ctx context.Context, session dto.Session, unreadOnly bool, limit int) ([]entity.Notification, error) {
	return s.storage.GetByUser(ctx, session.UserID, unreadOnly, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, session dto.Session) (int64, error) {
	return s.storage.CountUnread(ctx, session.UserID)
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, session dto.Session, id string) error {
	n, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != session.UserID {
		return errorz.Forbidden
	}
	if n.Read {
		return nil
	}
	return s.rows.Update(ctx, n, map[string]interface{}{"read": true})
}

func (s *NotificationService) MarkAllRead(ctx context.Context, session dto.Session) (int, error) {
	return s.storage.MarkAllRead(ctx, session.UserID)
}

// NotifyEventComment tells the organizer of event about a new comment.
func (s *NotificationService) NotifyEventComment(ctx context.Context, event entity.Event, commenterName, commentText string) error {
	if event.OrganizerID == "" {
		return nil
	}
	return s.Create(ctx, &entity.Notification{
		UserID:     event.OrganizerID,
		Type:       entity.NotificationComment,
		Title:      "New Comment on Your Event",
		Message:    fmt.Sprintf("%s commented on \"%s\": \"%s\"", commenterName, event.Title, preview(commentText)),
		EventID:    event.ID,
		EventTitle: event.Title,
		ActionURL:  eventURL(event.ID),
	})
}

func (s *NotificationService) NotifyEventReminder(ctx context.Context, userID string, event entity.Event, at time.Time) error {
	return s.Create(ctx, &entity.Notification{
		UserID:     userID,
		Type:       entity.NotificationReminder,
		Title:      "Event Reminder",
		Message:    fmt.Sprintf("Reminder: \"%s\" is happening soon (%s)", event.Title, at.In(location.Location()).Format("January 2, 2006 3:04 PM")),
		EventID:    event.ID,
		EventTitle: event.Title,
		ActionURL:  eventURL(event.ID),
	})
}

func (s *NotificationService) NotifyRegistrationSuccess(ctx context.Context, userID string, event entity.Event) error {
	return s.Create(ctx, &entity.Notification{
		UserID:     userID,
		Type:       entity.NotificationRegistration,
		Title:      "Registration Confirmed",
		Message:    fmt.Sprintf("You have successfully registered for \"%s\"", event.Title),
		EventID:    event.ID,
		EventTitle: event.Title,
		ActionURL:  eventURL(event.ID),
	})
}

// SendCommentEmail emails the organizer unless they have no address or turned
// comment emails off.
func (s *NotificationService) SendCommentEmail(ctx context.Context, organizer entity.User, commenterName, commentText, eventTitle string) error {
	if organizer.Email == "" || !organizer.EmailPreferences.CommentRepliesEnabled() {
		return nil
	}
	return s.mailer.SendCommentNotification(ctx, organizer.Email, eventTitle, commenterName, commentText)
}

func (s *NotificationService) Preferences(user entity.User) Preferences {
	return Preferences{
		EmailReminders:     user.EmailPreferences.RemindersEnabled(),
		EmailComments:      user.EmailPreferences.CommentRepliesEnabled(),
		EmailRegistrations: user.EmailPreferences.RegistrationsEnabled(),
		InApp:              true,
	}
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= commentPreviewLength {
		return text
	}
	return string([]rune(text)[:commentPreviewLength]) + "..."
}
