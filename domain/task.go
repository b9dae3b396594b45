package domain

import "time"

// Task statuses accepted by the API. A task without a status stores "".
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task represents a unit of work, optionally assigned to a user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AssignedTo  *User     `json:"assignedTo,omitempty"`
}

// AssigneeID returns the referenced user id, or 0 when the task is unassigned.
func (t *Task) AssigneeID() int64 {
	if t == nil || t.AssignedTo == nil {
		return 0
	}
	return t.AssignedTo.ID
}

// ValidStatus reports whether status is one of the known statuses.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}
