package repository

import (
	"context"

	"github.com/jaekwang-park/todo-bot/internal/model"
)

// ItemRepository is the persistence store behind the bot. Every failure is a
// *StoreError.
type ItemRepository interface {
	SchemaExists(ctx context.Context) (bool, error)
	CreateSchema(ctx context.Context) error
	// ResetSchema drops and recreates the item table, stopping at the first
	// failing statement.
	ResetSchema(ctx context.Context) error

	ListByOwner(ctx context.Context, userID string) ([]model.Record, error)
	GetByID(ctx context.Context, id int64) (model.Record, error)
	Create(ctx context.Context, item model.NewItem) (model.Record, error)
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, userID string) (int64, error)
	SetCompleted(ctx context.Context, id int64, completed bool) error
	SetCompletedByOwner(ctx context.Context, userID string, completed bool) (int64, error)
}
