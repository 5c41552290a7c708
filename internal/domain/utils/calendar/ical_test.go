package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() entity.Event {
	return entity.Event{
		ID:          "e1",
		Title:       "Go Meetup: Generics!",
		Description: "Talks and pizza",
		Venue:       "Hall A",
		Date:        "2025-06-01",
		Time:        "18:30",
	}
}

func TestFromEventDefaultDuration(t *testing.T) {
	ev, err := FromEvent(sampleEvent(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ev.End.Sub(ev.Start))
	assert.Equal(t, 18, ev.Start.Hour())

	ev, err = FromEvent(sampleEvent(), 3*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, ev.End.Sub(ev.Start))
}

func TestGoogleCalendarURL(t *testing.T) {
	ev, err := FromEvent(sampleEvent(), 0)
	require.NoError(t, err)

	link := GoogleCalendarURL(ev)
	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Go Meetup: Generics!", q.Get("text"))
	assert.Equal(t, "Hall A", q.Get("location"))
	assert.Equal(t, "20250601T183000/20250601T203000", q.Get("dates"))
}

func TestExportEventToICS(t *testing.T) {
	ev, err := FromEvent(sampleEvent(), 0)
	require.NoError(t, err)

	data, err := ExportEventToICS(ev)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Go Meetup: Generics!")
	assert.Contains(t, body, "LOCATION:Hall A")
	assert.Contains(t, body, "e1@campushub")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Go_Meetup__Generics_.ics", Filename("Go Meetup: Generics!"))
}
