package postgres

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"gorm.io/gorm"
)

type ReminderStorage struct {
	db   *gorm.DB
	rows *Rows
}

func NewReminderStorage(db *gorm.DB, rows *Rows) *ReminderStorage {
	return &ReminderStorage{
		db:   db,
		rows: rows,
	}
}

func (s *ReminderStorage) Get(ctx context.Context, id string) (*entity.Reminder, error) {
	return getByID[entity.Reminder](ctx, s.db, id)
}

func (s *ReminderStorage) GetByUser(ctx context.Context, userID string) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("reminder_time").Find(&reminders).Error
	return reminders, err
}

// DeleteUnsent removes the reminders of the user for the event that have not
// been sent yet.
func (s *ReminderStorage) DeleteUnsent(ctx context.Context, userID, eventID string) (int, error) {
	return DeleteWhere[entity.Reminder](ctx, s.rows, map[string]interface{}{
		"user_id":  userID,
		"event_id": eventID,
		"sent":     false,
	})
}
