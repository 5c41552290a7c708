package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/utils/location"
)

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = DateLayout + "T" + ClockLayout
)

// ReminderOption is one entry of the reminder picker.
type ReminderOption struct {
	Label string    `json:"label"`
	Value time.Time `json:"value"`
}

// FormatTime converts a 24h "HH:MM" clock into "h:MM AM/PM". Input that is not
// a clock is returned unchanged.
func FormatTime(clock string) string {
	hours, minutes, ok := strings.Cut(clock, ":")
	if !ok {
		return clock
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil {
		return clock
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minutes))
	if err != nil {
		return clock
	}

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, ampm)
}

// FormatDate renders "2025-06-01" as "June 1, 2025".
func FormatDate(date string) string {
	d, err := time.ParseInLocation(DateLayout, DatePart(date), location.Location())
	if err != nil {
		return date
	}
	return d.Format("January 2, 2006")
}

// DatePart strips anything after a 'T' so both "2025-06-01" and
// "2025-06-01T00:00:00" are accepted.
func DatePart(date string) string {
	day, _, _ := strings.Cut(strings.TrimSpace(date), "T")
	return day
}

// Combine joins an event date and clock into a time in the campus location.
// An empty clock means midnight.
func Combine(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation(DateTimeLayout, DatePart(date)+"T"+strings.TrimSpace(clock), location.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// DefaultReminderTime is exactly 24 hours before the event start.
func DefaultReminderTime(date, clock string) (time.Time, error) {
	start, err := Combine(date, clock)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(-24 * time.Hour), nil
}

// ReminderOptions lists the 1 hour / 1 day / 1 week offsets that are still
// after now.
func ReminderOptions(date, clock string, now time.Time) ([]ReminderOption, error) {
	start, err := Combine(date, clock)
	if err != nil {
		return nil, err
	}
	candidates := []ReminderOption{
		{Label: "1 hour before", Value: start.Add(-time.Hour)},
		{Label: "1 day before", Value: start.Add(-24 * time.Hour)},
		{Label: "1 week before", Value: start.Add(-7 * 24 * time.Hour)},
	}
	options := make([]ReminderOption, 0, len(candidates))
	for _, o := range candidates {
		if o.Value.After(now) {
			options = append(options, o)
		}
	}
	return options, nil
}
