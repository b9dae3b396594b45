package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
	SELECT id, title, description, status, created_at, updated_at, user_id
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `
	SELECT id, title, description, status, created_at, updated_at, user_id
	FROM tasks
	ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == 0 {
		return r.insert(ctx, task)
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		created_at = $5,
		updated_at = $6,
		user_id = $7
	WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
		assigneeParam(task),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) insert(ctx context.Context, task *domain.Task) error {
	const query = `
	INSERT INTO tasks (title, description, status, created_at, updated_at, user_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
		assigneeParam(task),
	).Scan(&task.ID)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task   domain.Task
		userID *int64
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&userID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CreatedAt = utc(task.CreatedAt)
	task.UpdatedAt = utc(task.UpdatedAt)
	if userID != nil {
		task.AssignedTo = &domain.User{ID: *userID}
	}
	return &task, nil
}
