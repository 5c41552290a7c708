package entity

import "time"

type Club struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Logo        string         `json:"logo,omitempty"`
	OrganizerID string         `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Status      ApprovalStatus `gorm:"not null;default:pending" json:"status"`
}

func (Club) TableName() string     { return "clubs" }
func (c Club) RowID() string       { return c.ID }
func (c *Club) SetRowID(id string) { c.ID = id }
