package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type ClubStorage struct {
	db *gorm.DB
}

func NewClubStorage(db *gorm.DB) *ClubStorage {
	return &ClubStorage{
		db: db,
	}
}

func (s *ClubStorage) Get(ctx context.Context, id string) (*entity.Club, error) {
	return getByID[entity.Club](ctx, s.db, id)
}

// GetByStatus lists clubs with the given status; an empty status lists all.
func (s *ClubStorage) GetByStatus(ctx context.Context, status entity.ApprovalStatus) ([]entity.Club, error) {
	var clubs []entity.Club
	tx := s.db.WithContext(ctx)
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	err := tx.Order("name").Find(&clubs).Error
	return clubs, err
}

func (s *ClubStorage) GetByOrganizer(ctx context.Context, organizerID string) ([]entity.Club, error) {
	var clubs []entity.Club
	err := s.db.WithContext(ctx).Where("organizer_id = ?", organizerID).Order("name").Find(&clubs).Error
	return clubs, err
}
