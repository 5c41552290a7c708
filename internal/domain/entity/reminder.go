package entity

import "time"

// Reminder is a scheduled notice for one user about one event. Sent is only
// changed through an explicit MarkSent call.
type Reminder struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID      string    `gorm:"type:uuid;index;not null" json:"event_id"`
	EventTitle   string    `json:"event_title"`
	EventDate    string    `json:"event_date"`
	ReminderTime time.Time `gorm:"not null" json:"reminder_time"`
	Sent         bool      `gorm:"not null;default:false" json:"sent"`
}

func (Reminder) TableName() string     { return "reminders" }
func (r Reminder) RowID() string       { return r.ID }
func (r *Reminder) SetRowID(id string) { r.ID = id }
