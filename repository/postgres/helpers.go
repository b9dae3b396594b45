package postgres

import (
	"time"

	"github.com/fastygo/taskmanager/domain"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// assigneeParam maps an optional assignee to a nullable user_id parameter.
func assigneeParam(task *domain.Task) *int64 {
	if task.AssignedTo == nil {
		return nil
	}
	id := task.AssignedTo.ID
	return &id
}

// utc normalizes timestamptz values, which pgx decodes in the local zone.
func utc(t time.Time) time.Time {
	return t.UTC()
}
