package entity

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	Student       Role = "student"
	ClubOrganizer Role = "club_organizer"
	Admin         Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case Student, ClubOrganizer, Admin:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// EmailPreferences are nullable so that a user who never opened the settings
// page keeps every email enabled.
type EmailPreferences struct {
	EventReminders            *bool `json:"event_reminders,omitempty"`
	CommentReplies            *bool `json:"comment_replies,omitempty"`
	RegistrationConfirmations *bool `json:"registration_confirmations,omitempty"`
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

func (p EmailPreferences) RemindersEnabled() bool {
	return enabled(p.EventReminders)
}

func (p EmailPreferences) CommentRepliesEnabled() bool {
	return enabled(p.CommentReplies)
}

func (p EmailPreferences) RegistrationsEnabled() bool {
	return enabled(p.RegistrationConfirmations)
}

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"index" json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Role      Role      `gorm:"not null;default:student" json:"role"`

	EmailPreferences EmailPreferences `gorm:"embedded;embeddedPrefix:email_" json:"email_preferences"`

	// student fields
	RollNumber string `json:"roll_number,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Section    string `json:"section,omitempty"`

	// organizer fields
	ClubIDs         pq.StringArray `gorm:"type:text[]" json:"club_ids,omitempty"`
	OrganizerStatus ApprovalStatus `json:"organizer_status,omitempty"`
}

func (User) TableName() string     { return "users" }
func (u User) RowID() string       { return u.ID }
func (u *User) SetRowID(id string) { u.ID = id }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanOrganize reports whether the user may create and manage events.
func (u User) CanOrganize() bool {
	return u.Role == Admin || (u.Role == ClubOrganizer && u.OrganizerStatus == StatusApproved)
}
