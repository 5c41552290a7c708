package entity

import (
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryTech     Category = "Tech"
	CategoryMusic    Category = "Music"
	CategorySports   Category = "Sports"
	CategoryArt      Category = "Art"
	CategoryCultural Category = "Cultural"
	CategoryCareer   Category = "Career"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTech, CategoryMusic, CategorySports, CategoryArt, CategoryCultural, CategoryCareer:
		return true
	}
	return false
}

type Event struct {
	ID                string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `gorm:"not null" json:"description"`
	LongDescription   string         `gorm:"type:text" json:"long_description,omitempty"`
	Image             string         `json:"image,omitempty"`
	ImagePath         string         `json:"-"`
	Date              string         `gorm:"type:varchar(10);not null;index" json:"date"`
	Time              string         `gorm:"type:varchar(5);not null" json:"time"`
	Venue             string         `gorm:"not null" json:"venue"`
	ClubName          string         `json:"club_name"`
	OrganizerID       string         `gorm:"type:uuid;index;not null" json:"organizer_id"`
	Category          Category       `gorm:"not null" json:"category"`
	Tags              pq.StringArray `gorm:"type:text[]" json:"tags"`
	RegistrationLink  string         `json:"registration_link,omitempty"`
	RegistrationCount int            `gorm:"not null;default:0" json:"registration_count"`

	IsPast bool `gorm:"-" json:"is_past"`
}

func (Event) TableName() string     { return "events" }
func (e Event) RowID() string       { return e.ID }
func (e *Event) SetRowID(id string) { e.ID = id }

// StartTime combines Date and Time in the configured location.
func (e Event) StartTime() (time.Time, error) {
	return timefmt.Combine(e.Date, e.Time)
}

// Past reports whether the event started before now. Events with an
// unparsable date are never past.
func (e Event) Past(now time.Time) bool {
	start, err := e.StartTime()
	if err != nil {
		return false
	}
	return start.Before(now)
}

// AfterFind derives IsPast on every load.
func (e *Event) AfterFind(_ *gorm.DB) error {
	e.IsPast = e.Past(time.Now())
	return nil
}
