package entity

import "time"

// Comment is feedback on a past event. A comment with ParentID set is a reply.
type Comment struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	EventID         string    `gorm:"type:uuid;index;not null" json:"event_id"`
	UserID          string    `gorm:"type:uuid;not null" json:"user_id"`
	UserDisplayName string    `json:"user_display_name"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ParentID        *string   `gorm:"type:uuid;index" json:"parent_comment,omitempty"`
	Likes           int       `gorm:"not null;default:0" json:"likes"`
}

func (Comment) TableName() string     { return "comments" }
func (c Comment) RowID() string       { return c.ID }
func (c *Comment) SetRowID(id string) { c.ID = id }

func (c Comment) IsReply() bool {
	return c.ParentID != nil
}
