package orm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/repository"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a GORM-backed implementation of UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user := m.toDomain()
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	m := toUserModel(user)
	if m.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = m.ID
		return nil
	}

	result := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", m.ID).Updates(map[string]any{
		"first_name": m.FirstName,
		"last_name":  m.LastName,
		"timezone":   m.Timezone,
		"is_active":  m.IsActive,
	})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&userModel{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
