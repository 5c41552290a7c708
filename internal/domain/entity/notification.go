package entity

import "time"

type NotificationType string

const (
	NotificationReminder     NotificationType = "reminder"
	NotificationComment      NotificationType = "comment"
	NotificationRegistration NotificationType = "registration"
	NotificationEventUpdate  NotificationType = "event_update"
	NotificationSystem       NotificationType = "system"
)

// Notification is an in-app message shown in the notifications panel.
type Notification struct {
	ID         string           `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UserID     string           `gorm:"type:uuid;index;not null" json:"user_id"`
	Type       NotificationType `gorm:"not null" json:"type"`
	Title      string           `gorm:"not null" json:"title"`
	Message    string           `gorm:"type:text;not null" json:"message"`
	EventID    string           `json:"event_id,omitempty"`
	EventTitle string           `json:"event_title,omitempty"`
	Read       bool             `gorm:"not null;default:false" json:"read"`
	ActionURL  string           `json:"action_url,omitempty"`
}

func (Notification) TableName() string     { return "notifications" }
func (n Notification) RowID() string       { return n.ID }
func (n *Notification) SetRowID(id string) { n.ID = id }
