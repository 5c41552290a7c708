package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type NotificationStorage struct {
	db   *gorm.DB
	rows *Rows
}

func NewNotificationStorage(db *gorm.DB, rows *Rows) *NotificationStorage {
	return &NotificationStorage{
		db:   db,
		rows: rows,
	}
}

func (s *NotificationStorage) Get(ctx context.Context, id string) (*entity.Notification, error) {
	return getByID[entity.Notification](ctx, s.db, id)
}

// GetByUser returns the newest notifications of the user first.
func (s *NotificationStorage) GetByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		tx = tx.Where("read = ?", false)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (s *NotificationStorage) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return UpdateWhere[entity.Notification](ctx, s.rows,
		map[string]interface{}{"user_id": userID, "read": false},
		map[string]interface{}{"read": true},
	)
}
