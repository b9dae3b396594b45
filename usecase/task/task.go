package task

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/domain"
	appLogger "github.com/fastygo/taskmanager/pkg/logger"
	"github.com/fastygo/taskmanager/repository"
)

// UseCase resolves task assignees and stamps task timestamps around the
// task and user stores.
type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithClock replaces time.Now as the source of task timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func New(tasks repository.TaskRepository, users repository.UserRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ListTasks returns every stored task with its assignee loaded.
func (uc *UseCase) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	loaded := make(map[int64]*domain.User)
	for i := range tasks {
		if tasks[i].AssignedTo == nil {
			continue
		}
		id := tasks[i].AssignedTo.ID
		user, ok := loaded[id]
		if !ok {
			if user, err = uc.resolveAssignee(ctx, id); err != nil {
				return nil, err
			}
			loaded[id] = user
		}
		tasks[i].AssignedTo = user
	}
	return tasks, nil
}

// GetTask loads a task and re-resolves its assignee against the user store.
func (uc *UseCase) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.TaskNotFound(id)
		}
		return nil, err
	}

	if task.AssignedTo != nil {
		user, err := uc.resolveAssignee(ctx, task.AssignedTo.ID)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = user
	}
	return task, nil
}

// CreateTask stamps both timestamps with the current UTC instant, resolves the
// assignee when one is referenced and persists the task. The zone only affects
// the civil time reported in logs.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task, zone *time.Location) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	now := uc.timestamp()
	task.ID = 0
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.AssignedTo != nil {
		user, err := uc.resolveAssignee(ctx, task.AssignedTo.ID)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = user
	}

	if err := uc.tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	uc.log(ctx).Info("task created",
		zap.Int64("task_id", task.ID),
		zap.Int64("assignee_id", task.AssigneeID()),
		zap.String("local_time", civil(now, zone)))
	return task, nil
}

// UpdateTask replaces title, description and status, refreshes updatedAt and
// reassigns the task only when details reference a user.
func (uc *UseCase) UpdateTask(ctx context.Context, id int64, details *domain.Task, zone *time.Location) (*domain.Task, error) {
	if details == nil {
		return nil, domain.ErrInvalidPayload
	}

	task, err := uc.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	now := uc.timestamp()
	if !now.After(task.CreatedAt) {
		now = task.CreatedAt.Add(time.Microsecond)
	}

	task.Title = details.Title
	task.Description = details.Description
	task.Status = details.Status
	task.UpdatedAt = now

	if details.AssignedTo != nil {
		user, err := uc.resolveAssignee(ctx, details.AssignedTo.ID)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = user
	}

	if err := uc.tasks.Save(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.TaskNotFound(id)
		}
		return nil, err
	}

	uc.log(ctx).Info("task updated",
		zap.Int64("task_id", task.ID),
		zap.Int64("assignee_id", task.AssigneeID()),
		zap.String("local_time", civil(now, zone)))
	return task, nil
}

// DeleteTask removes a task after loading it with GetTask semantics.
func (uc *UseCase) DeleteTask(ctx context.Context, id int64) error {
	if _, err := uc.GetTask(ctx, id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.TaskNotFound(id)
		}
		return err
	}
	uc.log(ctx).Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func (uc *UseCase) resolveAssignee(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.UserNotFound(id)
		}
		return nil, err
	}
	return user, nil
}

// timestamp is truncated to microseconds, the coarsest precision among the stores.
func (uc *UseCase) timestamp() time.Time {
	return uc.now().UTC().Truncate(time.Microsecond)
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, uc.logger)
}

func civil(t time.Time, zone *time.Location) string {
	if zone == nil {
		zone = time.Local
	}
	return t.In(zone).Format(time.RFC3339)
}
