package dto

import "github.com/Badsnus/campus-hub/internal/domain/entity"

type RegistrationForm struct {
	FullName   string `json:"full_name" validate:"min=3"`
	RollNumber string `json:"roll_number" validate:"min=3"`
	Branch     string `json:"branch" validate:"min=2"`
	Section    string `json:"section" validate:"min=1"`
}

type EventForm struct {
	Title            string          `json:"title" validate:"required,min=3,max=120"`
	Description      string          `json:"description" validate:"required,min=10,max=300"`
	LongDescription  string          `json:"long_description" validate:"max=5000"`
	Date             string          `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string          `json:"time" validate:"required,datetime=15:04"`
	Venue            string          `json:"venue" validate:"required,min=2,max=150"`
	ClubName         string          `json:"club_name" validate:"max=120"`
	Category         entity.Category `json:"category" validate:"required"`
	Tags             []string        `json:"tags" validate:"max=15,dive,min=1,max=40"`
	RegistrationLink string          `json:"registration_link" validate:"omitempty,url"`
}

type ProfileForm struct {
	FirstName  string `json:"first_name" validate:"required,max=60"`
	LastName   string `json:"last_name" validate:"max=60"`
	Avatar     string `json:"avatar" validate:"omitempty,url"`
	RollNumber string `json:"roll_number" validate:"max=30"`
	Branch     string `json:"branch" validate:"max=60"`
	Section    string `json:"section" validate:"max=10"`
}

type SettingsForm struct {
	EventReminders            *bool `json:"event_reminders"`
	CommentReplies            *bool `json:"comment_replies"`
	RegistrationConfirmations *bool `json:"registration_confirmations"`
}

type ClubRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=80"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Logo        string `json:"logo" validate:"omitempty,url"`
}

type CommentForm struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type ReminderForm struct {
	EventID      string `json:"event_id" validate:"required"`
	ReminderTime string `json:"reminder_time" validate:"required"`
}

type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

type TagRequest struct {
	Description string `json:"description"`
}

type TagSuggestions struct {
	Tags []string `json:"tags"`
}
