package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type CommentStorage struct {
	db *gorm.DB
}

func NewCommentStorage(db *gorm.DB) *CommentStorage {
	return &CommentStorage{
		db: db,
	}
}

func (s *CommentStorage) Get(ctx context.Context, id string) (*entity.Comment, error) {
	return getByID[entity.Comment](ctx, s.db, id)
}

// GetByEvent returns all comments and replies of the event, oldest first.
func (s *CommentStorage) GetByEvent(ctx context.Context, eventID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at").Find(&comments).Error
	return comments, err
}
