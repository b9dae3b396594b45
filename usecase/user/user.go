package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/domain"
	appLogger "github.com/fastygo/taskmanager/pkg/logger"
	"github.com/fastygo/taskmanager/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *UseCase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.UserNotFound(id)
		}
		return nil, err
	}
	return user, nil
}

func (uc *UseCase) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	user.ID = 0
	if err := uc.users.Save(ctx, user); err != nil {
		return nil, err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("user created", zap.Int64("user_id", user.ID))
	return user, nil
}

// UpdateUser overwrites every mutable field with the supplied details.
func (uc *UseCase) UpdateUser(ctx context.Context, id int64, details *domain.User) (*domain.User, error) {
	if details == nil {
		return nil, domain.ErrInvalidPayload
	}

	user, err := uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = details.FirstName
	user.LastName = details.LastName
	user.Timezone = details.Timezone
	user.IsActive = details.IsActive

	if err := uc.users.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.UserNotFound(id)
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser does not check for tasks still assigned to the user.
func (uc *UseCase) DeleteUser(ctx context.Context, id int64) error {
	if _, err := uc.GetUser(ctx, id); err != nil {
		return err
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserNotFound(id)
		}
		return err
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("user deleted", zap.Int64("user_id", id))
	return nil
}
