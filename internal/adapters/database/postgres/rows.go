package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Rows are the write helpers. Every method is a single statement; failures are
// logged and returned without retry, successes are published to the change feed.
type Rows struct {
	db     *gorm.DB
	feed   changefeed.Publisher
	logger *types.Logger
}

func NewRows(db *gorm.DB, feed changefeed.Publisher, logger *types.Logger) *Rows {
	return &Rows{
		db:     db,
		feed:   feed,
		logger: logger,
	}
}

// Create inserts row, assigning a UUID when it has no id yet.
func (r *Rows) Create(ctx context.Context, row entity.Row) error {
	if row.RowID() == "" {
		row.SetRowID(uuid.NewString())
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return r.fail("create", row.TableName(), err)
	}
	r.publish(row.TableName(), row.RowID(), changefeed.Insert)
	return nil
}

// Update applies a partial update to the row with row's id.
func (r *Rows) Update(ctx context.Context, row entity.Row, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(row).Where("id = ?", row.RowID()).Updates(fields)
	if res.Error != nil {
		return r.fail("update", row.TableName(), res.Error)
	}
	if res.RowsAffected == 0 {
		return r.fail("update", row.TableName(), errorz.ErrNotFound)
	}
	r.publish(row.TableName(), row.RowID(), changefeed.Update)
	return nil
}

// Set replaces the whole row, creating it when missing.
func (r *Rows) Set(ctx context.Context, row entity.Row) error {
	if row.RowID() == "" {
		row.SetRowID(uuid.NewString())
	}
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return r.fail("set", row.TableName(), err)
	}
	r.publish(row.TableName(), row.RowID(), changefeed.Update)
	return nil
}

func (r *Rows) Delete(ctx context.Context, row entity.Row) error {
	res := r.db.WithContext(ctx).Where("id = ?", row.RowID()).Delete(row)
	if res.Error != nil {
		return r.fail("delete", row.TableName(), res.Error)
	}
	if res.RowsAffected == 0 {
		return r.fail("delete", row.TableName(), errorz.ErrNotFound)
	}
	r.publish(row.TableName(), row.RowID(), changefeed.Delete)
	return nil
}

// Increment adds delta to a numeric column in one UPDATE.
func (r *Rows) Increment(ctx context.Context, row entity.Row, column string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(row).
		Where("id = ?", row.RowID()).
		UpdateColumn(column, gorm.Expr("? + ?", clause.Column{Name: column}, delta))
	if res.Error != nil {
		return r.fail("increment", row.TableName(), res.Error)
	}
	if res.RowsAffected == 0 {
		return r.fail("increment", row.TableName(), errorz.ErrNotFound)
	}
	r.publish(row.TableName(), row.RowID(), changefeed.Update)
	return nil
}

type rowPtr[T any] interface {
	*T
	entity.Row
}

// UpdateWhere applies fields to every row of T matching conds and publishes
// one change per affected row.
func UpdateWhere[T any, P rowPtr[T]](ctx context.Context, r *Rows, conds, fields map[string]interface{}) (int, error) {
	var updated []T
	err := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where(conds).
		Updates(fields).Error
	if err != nil {
		return 0, r.fail("update", P(new(T)).TableName(), err)
	}
	for i := range updated {
		row := P(&updated[i])
		r.publish(row.TableName(), row.RowID(), changefeed.Update)
	}
	return len(updated), nil
}

// DeleteWhere removes every row of T matching conds and publishes one change
// per removed row.
func DeleteWhere[T any, P rowPtr[T]](ctx context.Context, r *Rows, conds map[string]interface{}) (int, error) {
	var deleted []T
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where(conds).
		Delete(&deleted).Error
	if err != nil {
		return 0, r.fail("delete", P(new(T)).TableName(), err)
	}
	for i := range deleted {
		row := P(&deleted[i])
		r.publish(row.TableName(), row.RowID(), changefeed.Delete)
	}
	return len(deleted), nil
}

func (r *Rows) fail(op, table string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fmt.Errorf("%w: %v", errorz.ErrDuplicate, err)
	}
	r.logger.Errorf("%s %s: %v", op, table, err)
	return fmt.Errorf("%s %s: %w", op, table, err)
}

func (r *Rows) publish(table, id string, kind changefeed.ChangeType) {
	if r.feed == nil {
		return
	}
	r.feed.Publish(changefeed.Change{Table: table, RowID: id, Type: kind})
}
