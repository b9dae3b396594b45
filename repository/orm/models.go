package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/fastygo/taskmanager/domain"
)

type userModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Timezone  string `gorm:"size:64;not null"`
	IsActive  *bool
}

func (userModel) TableName() string {
	return "users"
}

// taskModel keeps the assignee as a bare column; associations would make GORM
// upsert the referenced user on every save.
type taskModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Status      string    `gorm:"size:20;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	UserID      *int64    `gorm:"column:user_id;index"`
}

func (taskModel) TableName() string {
	return "tasks"
}

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &taskModel{})
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Timezone:  u.Timezone,
		IsActive:  u.IsActive,
	}
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Timezone:  m.Timezone,
		IsActive:  m.IsActive,
	}
}

func toTaskModel(t *domain.Task) taskModel {
	m := taskModel{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.AssignedTo != nil {
		id := t.AssignedTo.ID
		m.UserID = &id
	}
	return m
}

func (m taskModel) toDomain() domain.Task {
	t := domain.Task{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if m.UserID != nil {
		t.AssignedTo = &domain.User{ID: *m.UserID}
	}
	return t
}
