package transport

import (
	"encoding/json"

	"github.com/fastygo/taskmanager/domain"
)

// AssigneeRef identifies a user by id. Other user fields sent by clients are ignored.
type AssigneeRef struct {
	ID int64 `json:"id"`
}

// TaskRequest is the body of task create and update calls.
type TaskRequest struct {
	Title       string       `json:"title" validate:"notblank"`
	Description string       `json:"description"`
	Status      *string      `json:"status" validate:"omitnil,taskstatus"`
	AssignedTo  *AssigneeRef `json:"assignedTo"`
}

// ToDomain converts the request into a task carrying an id-only assignee.
// An absent or null status leaves the task without one.
func (r TaskRequest) ToDomain() *domain.Task {
	task := &domain.Task{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		task.Status = *r.Status
	}
	if r.AssignedTo != nil {
		task.AssignedTo = &domain.User{ID: r.AssignedTo.ID}
	}
	return task
}

// UserRequest is the body of user create and update calls.
type UserRequest struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Timezone  string `json:"timezone" validate:"notblank,timezone"`
	IsActive  *bool  `json:"isActive"`
}

func (r UserRequest) ToDomain() *domain.User {
	return &domain.User{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Timezone:  r.Timezone,
		IsActive:  r.IsActive,
	}
}

// DecodeTask parses and validates a task body.
func DecodeTask(body []byte) (*domain.Task, error) {
	var req TaskRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	return req.ToDomain(), nil
}

// DecodeUser parses and validates a user body.
func DecodeUser(body []byte) (*domain.User, error) {
	var req UserRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	return req.ToDomain(), nil
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, MsgMalformedBody, err)
	}
	return Validate(v)
}
