package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEvents struct{ *memStore }

func (v memEvents) Get(ctx context.Context, id string) (*entity.Event, error) {
	return eventView(v).Get(ctx, id)
}

func (v memEvents) GetAll(_ context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []entity.Event{}
	for _, e := range v.events {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func newEventService(store *memStore) *EventService {
	return NewEventService(logger.Nop(), memEvents{store}, store, userView{store}, registrationView{store}, nil)
}

func eventForm() dto.EventForm {
	return dto.EventForm{
		Title:       "Go Meetup",
		Description: "An evening of Go talks",
		Date:        time.Now().AddDate(0, 0, 14).Format(timefmt.DateLayout),
		Time:        "18:30",
		Venue:       "Hall B",
		Category:    entity.CategoryTech,
		Tags:        []string{" go ", "Go", "meetup", ""},
	}
}

func TestCreateEventRequiresApprovedOrganizer(t *testing.T) {
	store := newMemStore()
	store.users["s1"] = entity.User{ID: "s1", Role: entity.Student}
	store.users["o1"] = entity.User{ID: "o1", Role: entity.ClubOrganizer, OrganizerStatus: entity.StatusPending}
	store.users["o2"] = entity.User{ID: "o2", Role: entity.ClubOrganizer, OrganizerStatus: entity.StatusApproved}
	s := newEventService(store)

	_, err := s.Create(context.Background(), dto.Session{UserID: "s1"}, eventForm())
	assert.ErrorIs(t, err, errorz.Forbidden)
	_, err = s.Create(context.Background(), dto.Session{UserID: "o1"}, eventForm())
	assert.ErrorIs(t, err, errorz.Forbidden)

	event, err := s.Create(context.Background(), dto.Session{UserID: "o2"}, eventForm())
	require.NoError(t, err)
	assert.Equal(t, "o2", event.OrganizerID)
	assert.Equal(t, []string{"go", "meetup"}, []string(event.Tags))
	assert.False(t, event.IsPast)
}

func TestCreateEventValidation(t *testing.T) {
	store := newMemStore()
	store.users["a1"] = entity.User{ID: "a1", Role: entity.Admin}
	s := newEventService(store)
	session := dto.Session{UserID: "a1", Role: entity.Admin}

	form := eventForm()
	form.Category = "Cooking"
	assert.True(t, errorz.IsValidation(mustErr(s.Create(context.Background(), session, form))))

	form = eventForm()
	form.Date = "2020-01-01"
	assert.True(t, errorz.IsValidation(mustErr(s.Create(context.Background(), session, form))))

	form = eventForm()
	form.Time = "25:00"
	assert.True(t, errorz.IsValidation(mustErr(s.Create(context.Background(), session, form))))
	assert.Empty(t, store.events)
}

func mustErr(_ *entity.Event, err error) error {
	return err
}

func (v memEvents) Count(context.Context) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return int64(len(v.events)), nil
}

func TestGetMarksRegistration(t *testing.T) {
	store := newMemStore()
	store.events["e1"] = futureEvent("e1")
	store.registrations[pairKey("e1", "u1")] = entity.Registration{ID: "r1", EventID: "e1", UserID: "u1"}
	s := newEventService(store)

	event, err := s.Get(context.Background(), dto.Session{UserID: "u1"}, "e1")
	require.NoError(t, err)
	assert.True(t, event.IsRegistered)
	assert.Equal(t, int64(1), event.RegistrationCount)
	assert.Equal(t, "6:30 PM", event.FormattedTime)

	event, err = s.Get(context.Background(), dto.Session{UserID: "u2"}, "e1")
	require.NoError(t, err)
	assert.False(t, event.IsRegistered)

	_, err = s.Get(context.Background(), dto.Session{}, "missing")
	assert.ErrorIs(t, err, errorz.ErrNotFound)
}

func TestOnlyOwnerOrAdminManagesEvent(t *testing.T) {
	store := newMemStore()
	store.events["e1"] = futureEvent("e1")
	s := newEventService(store)

	assert.ErrorIs(t, s.Delete(context.Background(), dto.Session{UserID: "u1"}, "e1"), errorz.Forbidden)
	_, err := s.Update(context.Background(), dto.Session{UserID: "u1"}, "e1", eventForm())
	assert.ErrorIs(t, err, errorz.Forbidden)

	updated, err := s.Update(context.Background(), dto.Session{UserID: "organizer"}, "e1", eventForm())
	require.NoError(t, err)
	assert.Equal(t, "An evening of Go talks", updated.Description)
	require.NoError(t, s.Delete(context.Background(), dto.Session{UserID: "a1", Role: entity.Admin}, "e1"))
	assert.Empty(t, store.events)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	store := newMemStore()
	store.events["e1"] = futureEvent("e1")
	_, err := newEventService(store).UploadImage(context.Background(), dto.Session{UserID: "organizer"}, "e1", "cover.png", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, errorz.ErrStorageNotConfigured)
}

func TestCalendarLinksAndFile(t *testing.T) {
	store := newMemStore()
	event := futureEvent("e1")
	event.Title = "Go Meetup: Spring!"
	store.events["e1"] = event
	s := newEventService(store)

	links, err := s.CalendarLinks(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/events/e1/calendar.ics", links.ICSURL)
	u, err := url.Parse(links.GoogleURL)
	require.NoError(t, err)
	assert.Equal(t, "TEMPLATE", u.Query().Get("action"))
	assert.Equal(t, "Go Meetup: Spring!", u.Query().Get("text"))

	data, name, err := s.CalendarFile(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Go_Meetup__Spring_.ics", name)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
	assert.Contains(t, string(data), "SUMMARY:Go Meetup: Spring!")
}
