package repository

import (
	"context"

	"github.com/fastygo/taskmanager/domain"
)

// TaskRepository persists tasks. Implementations store only the assignee id
// and return AssignedTo as an id-only reference.
type TaskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	// Save inserts the task when its ID is zero and assigns the new id,
	// otherwise it replaces the stored row.
	Save(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
}
