package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

// Get is a function that gets an event from the database by id.
func (s *EventStorage) Get(ctx context.Context, id string) (*entity.Event, error) {
	return getByID[entity.Event](ctx, s.db, id)
}

// GetAll returns events matching filter ordered by date. IsPast is derived after
// load, so the past filter is applied in memory.
func (s *EventStorage) GetAll(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error) {
	var events []entity.Event
	tx := s.db.WithContext(ctx)
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.OrganizerID != "" {
		tx = tx.Where("organizer_id = ?", filter.OrganizerID)
	}
	if err := tx.Order("date, time").Find(&events).Error; err != nil {
		return nil, err
	}
	if filter.Past == nil {
		return events, nil
	}
	filtered := events[:0]
	for _, e := range events {
		if e.IsPast == *filter.Past {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Count is a function that gets the count of events from the database.
func (s *EventStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Count(&count).Error
	return count, err
}
