package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type taskRepository struct {
	db *bolt.DB
}

// NewTaskRepository returns a BoltDB-backed TaskRepository.
func NewTaskRepository(db *bolt.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	var rec taskRecord
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, BucketTasks, id, &rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTaskNotFound
	}
	task := rec.toDomain()
	return &task, nil
}

func (r *taskRepository) List(_ context.Context) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketTasks)).ForEach(func(_, v []byte) error {
			var rec taskRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			tasks = append(tasks, rec.toDomain())
			return nil
		})
	})
	return tasks, err
}

func (r *taskRepository) Save(_ context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	rec := taskRecord{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
	if task.AssignedTo != nil {
		userID := task.AssignedTo.ID
		rec.UserID = &userID
	}

	id := task.ID
	var found bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		var err error
		found, err = put(tx, BucketTasks, &id, func(id int64) ([]byte, error) {
			rec.ID = id
			return json.Marshal(rec)
		})
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrTaskNotFound
	}
	task.ID = id
	return nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) error {
	var found bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		var err error
		found, err = remove(tx, BucketTasks, id)
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrTaskNotFound
	}
	return nil
}
