package bolt

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type userRepository struct {
	db *bolt.DB
}

// NewUserRepository returns a BoltDB-backed UserRepository.
func NewUserRepository(db *bolt.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	var rec userRecord
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		found, err = get(tx, BucketUsers, id, &rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	user := rec.toDomain()
	return &user, nil
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketUsers)).ForEach(func(_, v []byte) error {
			var rec userRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			users = append(users, rec.toDomain())
			return nil
		})
	})
	return users, err
}

func (r *userRepository) Save(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	id := user.ID
	var found bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		var err error
		found, err = put(tx, BucketUsers, &id, func(id int64) ([]byte, error) {
			return json.Marshal(userRecord{
				ID:        id,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Timezone:  user.Timezone,
				IsActive:  user.IsActive,
			})
		})
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUserNotFound
	}
	user.ID = id
	return nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	var found bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		var err error
		found, err = remove(tx, BucketUsers, id)
		return err
	})
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrUserNotFound
	}
	return nil
}
