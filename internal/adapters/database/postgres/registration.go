package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type RegistrationStorage struct {
	db *gorm.DB
}

func NewRegistrationStorage(db *gorm.DB) *RegistrationStorage {
	return &RegistrationStorage{
		db: db,
	}
}

// Get returns the registration of the user for the event or errorz.ErrNotFound.
func (s *RegistrationStorage) Get(ctx context.Context, eventID, userID string) (*entity.Registration, error) {
	var registration entity.Registration
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&registration).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &registration, nil
}

func (s *RegistrationStorage) GetByEvent(ctx context.Context, eventID string) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at").Find(&registrations).Error
	return registrations, err
}

func (s *RegistrationStorage) GetByUser(ctx context.Context, userID string) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("date, time").Find(&registrations).Error
	return registrations, err
}

func (s *RegistrationStorage) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Registration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
