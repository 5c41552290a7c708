package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

// Get is a function that gets a user from the database by id.
func (s *UserStorage) Get(ctx context.Context, id string) (*entity.User, error) {
	return getByID[entity.User](ctx, s.db, id)
}

// GetByRole returns users with the role, optionally narrowed to an organizer status.
func (s *UserStorage) GetByRole(ctx context.Context, role entity.Role, status entity.ApprovalStatus) ([]entity.User, error) {
	var users []entity.User
	tx := s.db.WithContext(ctx).Where("role = ?", role)
	if status != "" {
		tx = tx.Where("organizer_status = ?", status)
	}
	err := tx.Order("created_at").Find(&users).Error
	return users, err
}

// Count is a function that gets the count of users from the database.
func (s *UserStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error
	return count, err
}
