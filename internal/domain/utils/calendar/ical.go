package calendar

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	ics "github.com/arran4/golang-ical"
)

// DefaultDuration is used when an event does not state how long it lasts.
const DefaultDuration = 2 * time.Hour

// floatingLayout is a local date-time without zone designator.
const floatingLayout = "20060102T150405"

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Event is the calendar view of a campus event.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// FromEvent builds a calendar event starting at the event date/time. A zero
// duration means DefaultDuration.
func FromEvent(e entity.Event, duration time.Duration) (Event, error) {
	start, err := e.StartTime()
	if err != nil {
		return Event{}, err
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Venue,
		Start:       start,
		End:         start.Add(duration),
	}, nil
}

// GoogleCalendarURL returns an "add to Google Calendar" template link.
func GoogleCalendarURL(event Event) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("details", event.Description)
	params.Set("location", event.Location)
	params.Set("dates", event.Start.Format(floatingLayout)+"/"+event.End.Format(floatingLayout))
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

// Filename is the download name of the .ics file for the event.
func Filename(title string) string {
	return unsafeFilename.ReplaceAllString(title, "_") + ".ics"
}

// ExportEventsToICS serializes events into one iCalendar document with a
// reminder alarm one day and one hour before each event.
func ExportEventsToICS(events []Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Campus Hub//Event Calendar//EN")
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")

	now := time.Now()
	for _, event := range events {
		e := cal.AddEvent(fmt.Sprintf("%s@campushub", event.ID))
		e.SetDtStampTime(now)
		e.SetCreatedTime(now)
		e.SetModifiedAt(now)
		e.SetStartAt(event.Start)
		e.SetEndAt(event.End)
		e.SetSummary(event.Title)
		e.SetDescription(event.Description)
		e.SetLocation(event.Location)
		e.SetStatus(ics.ObjectStatusConfirmed)
		e.SetTimeTransparency(ics.TransparencyOpaque)
		e.SetClass(ics.ClassificationPublic)
		e.SetSequence(0)

		dayAlarm := e.AddAlarm()
		dayAlarm.SetAction(ics.ActionDisplay)
		dayAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-P1D")
		dayAlarm.SetDescription(fmt.Sprintf("Reminder: %s (tomorrow)", event.Title))

		hourAlarm := e.AddAlarm()
		hourAlarm.SetAction(ics.ActionDisplay)
		hourAlarm.AddProperty("TRIGGER;VALUE=DURATION", "-PT1H")
		hourAlarm.SetDescription(fmt.Sprintf("Reminder: %s (in one hour)", event.Title))
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func ExportEventToICS(event Event) ([]byte, error) {
	return ExportEventsToICS([]Event{event})
}
