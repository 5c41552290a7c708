package service

import (
	"context"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
)

// rowWriter is the write side shared by every service: single-statement
// writes that publish to the change feed.
type rowWriter interface {
	Create(ctx context.Context, row entity.Row) error
	Update(ctx context.Context, row entity.Row, fields map[string]interface{}) error
	Set(ctx context.Context, row entity.Row) error
	Delete(ctx context.Context, row entity.Row) error
	Increment(ctx context.Context, row entity.Row, column string, delta int) error
}

func eventURL(eventID string) string {
	return "/dashboard/events/" + eventID
}
