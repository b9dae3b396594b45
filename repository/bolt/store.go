// Package bolt stores users and tasks as JSON records in BoltDB buckets keyed
// by big-endian sequence ids.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskmanager/domain"
)

// Bucket names created by Open.
const (
	BucketUsers = "users"
	BucketTasks = "tasks"
)

// Buckets lists every bucket the repositories expect.
var Buckets = []string{BucketUsers, BucketTasks}

type userRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Timezone  string `json:"timezone"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type taskRecord struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      *int64    `json:"user_id,omitempty"`
}

func key(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// put inserts v under a fresh sequence id when *id is zero, otherwise it
// replaces an existing record and reports false when none exists.
func put(tx *bolt.Tx, bucket string, id *int64, encode func(int64) ([]byte, error)) (bool, error) {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return false, fmt.Errorf("bolt: bucket %s missing", bucket)
	}

	if *id == 0 {
		seq, err := b.NextSequence()
		if err != nil {
			return false, err
		}
		*id = int64(seq)
	} else if b.Get(key(*id)) == nil {
		return false, nil
	}

	payload, err := encode(*id)
	if err != nil {
		return false, err
	}
	return true, b.Put(key(*id), payload)
}

func get(tx *bolt.Tx, bucket string, id int64, v any) (bool, error) {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return false, fmt.Errorf("bolt: bucket %s missing", bucket)
	}
	raw := b.Get(key(id))
	if raw == nil {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func remove(tx *bolt.Tx, bucket string, id int64) (bool, error) {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return false, fmt.Errorf("bolt: bucket %s missing", bucket)
	}
	if b.Get(key(id)) == nil {
		return false, nil
	}
	return true, b.Delete(key(id))
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Timezone:  r.Timezone,
		IsActive:  r.IsActive,
	}
}

func (r taskRecord) toDomain() domain.Task {
	t := domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.UserID != nil {
		t.AssignedTo = &domain.User{ID: *r.UserID}
	}
	return t
}
