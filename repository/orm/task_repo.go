package orm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository returns a GORM-backed implementation of TaskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var m taskModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	task := m.toDomain()
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var models []taskModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(models))
	for _, m := range models {
		tasks = append(tasks, m.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	m := toTaskModel(task)
	if m.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		task.ID = m.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"title":       m.Title,
		"description": m.Description,
		"status":      m.Status,
		"created_at":  m.CreatedAt,
		"updated_at":  m.UpdatedAt,
		"user_id":     m.UserID,
	})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&taskModel{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
