package repository

import (
	"context"

	"github.com/jaekwang-park/todo-bot/internal/model"
)

type UserRepository interface {
	EnsureSchema(ctx context.Context) error
	GetOrCreate(ctx context.Context, cognitoSub, email string) (model.User, error)
	GetByCognitoSub(ctx context.Context, cognitoSub string) (model.User, error)
}
