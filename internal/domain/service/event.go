package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/calendar"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/internal/domain/utils/validator"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type EventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
	GetAll(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error)
	Count(ctx context.Context) (int64, error)
}

type registrationLookup interface {
	Get(ctx context.Context, eventID, userID string) (*entity.Registration, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

type imageStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

type EventService struct {
	logger        *types.Logger
	storage       EventStorage
	rows          rowWriter
	users         userGetter
	registrations registrationLookup
	images        imageStorage
}

func NewEventService(
	logger *types.Logger,
	storage EventStorage,
	rows rowWriter,
	users userGetter,
	registrations registrationLookup,
	images imageStorage,
) *EventService {
	return &EventService{
		logger:        logger,
		storage:       storage,
		rows:          rows,
		users:         users,
		registrations: registrations,
		images:        images,
	}
}

func validateEventForm(form dto.EventForm) error {
	if err := validator.Struct(form); err != nil {
		return err
	}
	if !validator.EventCategory(string(form.Category), nil) {
		return errorz.NewValidationError("category", "unknown category")
	}
	return nil
}

func normalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok || tag == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func canManage(session dto.Session, event *entity.Event) bool {
	return session.IsAdmin() || event.OrganizerID == session.UserID
}

// Create publishes a new event. Only admins and approved organizers may
// create events, and the event must start in the future.
func (s *EventService) Create(ctx context.Context, session dto.Session, form dto.EventForm) (*entity.Event, error) {
	if err := validateEventForm(form); err != nil {
		return nil, err
	}
	if !validator.EventStart(form.Date, map[string]interface{}{"time": form.Time}) {
		return nil, errorz.NewValidationError("date", "event must start in the future")
	}
	user, err := s.users.Get(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.CanOrganize() {
		return nil, errorz.Forbidden
	}

	event := &entity.Event{
		Title:            form.Title,
		Description:      form.Description,
		LongDescription:  form.LongDescription,
		Date:             form.Date,
		Time:             form.Time,
		Venue:            form.Venue,
		ClubName:         form.ClubName,
		OrganizerID:      user.ID,
		Category:         form.Category,
		Tags:             normalizeTags(form.Tags),
		RegistrationLink: form.RegistrationLink,
	}
	if err = s.rows.Create(ctx, event); err != nil {
		return nil, err
	}
	event.IsPast = event.Past(time.Now())
	s.logger.Infof("event %s %q created by %s", event.ID, event.Title, user.ID)
	return event, nil
}

func (s *EventService) Update(ctx context.Context, session dto.Session, id string, form dto.EventForm) (*entity.Event, error) {
	if err := validateEventForm(form); err != nil {
		return nil, err
	}
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(session, event) {
		return nil, errorz.Forbidden
	}

	tags := normalizeTags(form.Tags)
	fields := map[string]interface{}{
		"title":             form.Title,
		"description":       form.Description,
		"long_description":  form.LongDescription,
		"date":              form.Date,
		"time":              form.Time,
		"venue":             form.Venue,
		"club_name":         form.ClubName,
		"category":          form.Category,
		"tags":              tags,
		"registration_link": form.RegistrationLink,
	}
	if err = s.rows.Update(ctx, event, fields); err != nil {
		return nil, err
	}
	event.Title, event.Description, event.LongDescription = form.Title, form.Description, form.LongDescription
	event.Date, event.Time, event.Venue, event.ClubName = form.Date, form.Time, form.Venue, form.ClubName
	event.Category, event.Tags, event.RegistrationLink = form.Category, tags, form.RegistrationLink
	event.IsPast = event.Past(time.Now())
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, session dto.Session, id string) error {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(session, event) {
		return errorz.Forbidden
	}
	if err = s.rows.Delete(ctx, event); err != nil {
		return err
	}
	s.logger.Infof("event %s deleted by %s", id, session.UserID)
	if event.ImagePath != "" && s.images != nil {
		if err = s.images.Remove(ctx, event.ImagePath); err != nil {
			s.logger.Warnf("failed to remove image %s: %v", event.ImagePath, err)
		}
	}
	return nil
}

// UploadImage stores a new cover image for the event and replaces the old one.
func (s *EventService) UploadImage(ctx context.Context, session dto.Session, id, filename, contentType string, r io.Reader) (string, error) {
	if s.images == nil {
		return "", errorz.ErrStorageNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", errorz.NewValidationError("image", "file must be an image")
	}
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !canManage(session, event) {
		return "", errorz.Forbidden
	}

	objectPath := fmt.Sprintf("events/%s/%s%s", event.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.images.Upload(ctx, objectPath, r, contentType)
	if err != nil {
		return "", err
	}
	if err = s.rows.Update(ctx, event, map[string]interface{}{"image": url, "image_path": objectPath}); err != nil {
		return "", err
	}
	if event.ImagePath != "" {
		if err = s.images.Remove(ctx, event.ImagePath); err != nil {
			s.logger.Warnf("failed to remove old image %s: %v", event.ImagePath, err)
		}
	}
	return url, nil
}

// Get returns the event as seen by the session.
func (s *EventService) Get(ctx context.Context, session dto.Session, id string) (dto.Event, error) {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return dto.Event{}, err
	}
	out := dto.Event{
		Event:         *event,
		FormattedDate: timefmt.FormatDate(event.Date),
		FormattedTime: timefmt.FormatTime(event.Time),
	}
	if out.RegistrationCount, err = s.registrations.CountByEvent(ctx, event.ID); err != nil {
		return dto.Event{}, err
	}
	if session.Anonymous() {
		return out, nil
	}
	_, err = s.registrations.Get(ctx, event.ID, session.UserID)
	switch {
	case err == nil:
		out.IsRegistered = true
	case !errors.Is(err, errorz.ErrNotFound):
		return dto.Event{}, err
	}
	return out, nil
}

func (s *EventService) Count(ctx context.Context) (int64, error) {
	return s.storage.Count(ctx)
}

func (s *EventService) List(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, errorz.NewValidationError("category", "unknown category")
	}
	return s.storage.GetAll(ctx, filter)
}

// CalendarLinks returns the Google Calendar link of the event.
func (s *EventService) CalendarLinks(ctx context.Context, id string) (dto.CalendarLinks, error) {
	cal, err := s.calendarEvent(ctx, id)
	if err != nil {
		return dto.CalendarLinks{}, err
	}
	return dto.CalendarLinks{
		GoogleURL: calendar.GoogleCalendarURL(cal),
		ICSURL:    fmt.Sprintf("/api/v1/events/%s/calendar.ics", id),
	}, nil
}

// CalendarFile returns the .ics document of the event and its download name.
func (s *EventService) CalendarFile(ctx context.Context, id string) ([]byte, string, error) {
	cal, err := s.calendarEvent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := calendar.ExportEventToICS(cal)
	if err != nil {
		return nil, "", err
	}
	return data, calendar.Filename(cal.Title), nil
}

func (s *EventService) calendarEvent(ctx context.Context, id string) (calendar.Event, error) {
	event, err := s.storage.Get(ctx, id)
	if err != nil {
		return calendar.Event{}, err
	}
	return calendar.FromEvent(*event, 0)
}
