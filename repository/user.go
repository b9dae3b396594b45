package repository

import (
	"context"

	"github.com/fastygo/taskmanager/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
