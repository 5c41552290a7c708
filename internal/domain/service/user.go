package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
)

type UserStorage interface {
	Get(ctx context.Context, id string) (*entity.User, error)
	GetByRole(ctx context.Context, role entity.Role, status entity.ApprovalStatus) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type UserService struct {
	logger  *types.Logger
	storage UserStorage
	rows    rowWriter
}

func NewUserService(logger *types.Logger, storage UserStorage, rows rowWriter) *UserService {
	return &UserService{
		logger:  logger,
		storage: storage,
		rows:    rows,
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.storage.Get(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}

// EnsureProfile returns the profile of the signed-in user, creating it on the
// first request. A new user gets the role they signed up with, except admin;
// organizers start out pending approval.
func (s *UserService) EnsureProfile(ctx context.Context, session dto.Session) (*entity.User, error) {
	user, err := s.storage.Get(ctx, session.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errorz.ErrNotFound) {
		return nil, err
	}

	if session.Email != "" && !validator.Email(session.Email, nil) {
		return nil, errorz.Forbidden
	}

	role := session.Role
	if role != entity.ClubOrganizer {
		role = entity.Student
	}
	first, last, _ := strings.Cut(strings.TrimSpace(session.Name), " ")
	user = &entity.User{
		ID:        session.UserID,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     session.Email,
		Role:      role,
	}
	if role == entity.ClubOrganizer {
		user.OrganizerStatus = entity.StatusPending
	}
	if err = s.rows.Create(ctx, user); err != nil {
		// a concurrent first request may have created it
		if errors.Is(err, errorz.ErrDuplicate) {
			return s.storage.Get(ctx, session.UserID)
		}
		return nil, err
	}
	s.logger.Infof("provisioned user %s as %s", user.ID, user.Role)
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, session dto.Session, form dto.ProfileForm) (*entity.User, error) {
	if err := validator.Struct(form); err != nil {
		return nil, err
	}
	user, err := s.storage.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"first_name":  form.FirstName,
		"last_name":   form.LastName,
		"avatar":      form.Avatar,
		"roll_number": form.RollNumber,
		"branch":      form.Branch,
		"section":     form.Section,
	}
	if err = s.rows.Update(ctx, user, fields); err != nil {
		return nil, err
	}
	user.FirstName, user.LastName, user.Avatar = form.FirstName, form.LastName, form.Avatar
	user.RollNumber, user.Branch, user.Section = form.RollNumber, form.Branch, form.Section
	return user, nil
}

// UpdateSettings changes the email preferences present in form.
func (s *UserService) UpdateSettings(ctx context.Context, session dto.Session, form dto.SettingsForm) (*entity.User, error) {
	user, err := s.storage.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if form.EventReminders != nil {
		fields["email_event_reminders"] = *form.EventReminders
		user.EmailPreferences.EventReminders = form.EventReminders
	}
	if form.CommentReplies != nil {
		fields["email_comment_replies"] = *form.CommentReplies
		user.EmailPreferences.CommentReplies = form.CommentReplies
	}
	if form.RegistrationConfirmations != nil {
		fields["email_registration_confirmations"] = *form.RegistrationConfirmations
		user.EmailPreferences.RegistrationConfirmations = form.RegistrationConfirmations
	}
	if len(fields) == 0 {
		return user, nil
	}
	if err = s.rows.Update(ctx, user, fields); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, session dto.Session, userID string, role entity.Role) error {
	if !session.IsAdmin() {
		return errorz.Forbidden
	}
	if !role.Valid() {
		return errorz.NewValidationError("role", "unknown role")
	}
	user, err := s.storage.Get(ctx, userID)
	if err != nil {
		return err
	}
	fields := map[string]interface{}{"role": role}
	if role == entity.ClubOrganizer && user.OrganizerStatus == "" {
		fields["organizer_status"] = entity.StatusPending
	}
	if err = s.rows.Update(ctx, user, fields); err != nil {
		return err
	}
	s.logger.Infof("admin %s set role of %s to %s", session.UserID, userID, role)
	return nil
}

func (s *UserService) SetOrganizerStatus(ctx context.Context, session dto.Session, userID string, status entity.ApprovalStatus) error {
	if !session.IsAdmin() {
		return errorz.Forbidden
	}
	if !status.Valid() {
		return errorz.NewValidationError("status", "unknown status")
	}
	user, err := s.storage.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err = s.rows.Update(ctx, user, map[string]interface{}{"organizer_status": status}); err != nil {
		return err
	}
	s.logger.Infof("admin %s set organizer status of %s to %s", session.UserID, userID, status)
	return nil
}

func (s *UserService) ListPendingOrganizers(ctx context.Context, session dto.Session) ([]entity.User, error) {
	if !session.IsAdmin() {
		return nil, errorz.Forbidden
	}
	return s.storage.GetByRole(ctx, entity.ClubOrganizer, entity.StatusPending)
}
