package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Table reads rows of T for the live bindings. Filter and order columns must
// exist on T.
type Table[T any] struct {
	db *gorm.DB

	once   sync.Once
	schema *schema.Schema
	err    error
}

func NewTable[T any](db *gorm.DB) *Table[T] {
	return &Table[T]{db: db}
}

func (t *Table[T]) parse() (*schema.Schema, error) {
	t.once.Do(func() {
		stmt := &gorm.Statement{DB: t.db}
		t.err = stmt.Parse(new(T))
		t.schema = stmt.Schema
	})
	return t.schema, t.err
}

// Name is the table name of T.
func (t *Table[T]) Name() string {
	s, err := t.parse()
	if err != nil {
		return ""
	}
	return s.Table
}

func (t *Table[T]) column(s *schema.Schema, name string) (string, error) {
	field := s.LookUpField(name)
	if field == nil || field.DBName == "" {
		return "", errorz.NewValidationError(name, fmt.Sprintf("unknown column of %s", s.Table))
	}
	return field.DBName, nil
}

// Find runs q: equality filters AND combined, nil values skipped, at most one
// order column.
func (t *Table[T]) Find(ctx context.Context, q dto.Query) ([]T, error) {
	s, err := t.parse()
	if err != nil {
		return nil, err
	}
	if q.Table != "" && q.Table != s.Table {
		return nil, errorz.NewValidationError("table", fmt.Sprintf("query for %s sent to %s", q.Table, s.Table))
	}

	tx := t.db.WithContext(ctx).Model(new(T))
	for name, value := range q.ActiveFilters() {
		column, err := t.column(s, name)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
	if q.Order != nil {
		column, err := t.column(s, q.Order.Column)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Order.Descending()})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	rows := make([]T, 0)
	if err = tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads one row by id. A missing row, including a malformed id, is
// errorz.ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	return getByID[T](ctx, t.db, id)
}

func getByID[T any](ctx context.Context, db *gorm.DB, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errorz.ErrNotFound
	}
	var row T
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorz.ErrNotFound
	}
	return err
}
