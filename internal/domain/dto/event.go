package dto

import "github.com/Badsnus/campus-hub/internal/domain/entity"

// Event is an event as seen by one user.
type Event struct {
	entity.Event
	IsRegistered      bool   `json:"is_registered"`
	RegistrationCount int64  `json:"registration_count"`
	FormattedDate     string `json:"formatted_date"`
	FormattedTime     string `json:"formatted_time"`
}

type EventFilter struct {
	Category    entity.Category
	OrganizerID string
	Past        *bool
}

// CalendarLinks are returned by the calendar endpoint.
type CalendarLinks struct {
	GoogleURL string `json:"google_url"`
	ICSURL    string `json:"ics_url"`
}
