package entity

import "time"

// Registration links a user to an event. User profile fields and event
// title/date are snapshotted at registration time for calendar display.
type Registration struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	EventID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user" json:"event_id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_event_user;index" json:"user_id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `json:"email"`
	RollNumber   string    `json:"roll_number"`
	Branch       string    `json:"branch"`
	Section      string    `json:"section"`
	Title        string    `json:"title"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Venue        string    `json:"venue"`
	ClubName     string    `json:"club_name"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
}

func (Registration) TableName() string     { return "registrations" }
func (r Registration) RowID() string       { return r.ID }
func (r *Registration) SetRowID(id string) { r.ID = id }
